package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"fyugp-assistant/internal/models"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrNoText            = errors.New("no extractable text found")
)

var supportedFormats = []models.SupportedFormat{
	{Extension: ".pdf", MimeType: "application/pdf", Description: "PDF Document"},
	{Extension: ".docx", MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Description: "Word Document"},
	{Extension: ".txt", MimeType: "text/plain", Description: "Plain Text"},
	{Extension: ".md", MimeType: "text/markdown", Description: "Markdown Text"},
}

// SupportedFormats lists the upload formats the extractor understands.
func SupportedFormats() []models.SupportedFormat {
	return append([]models.SupportedFormat(nil), supportedFormats...)
}

type FileExtractService struct{}

func NewFileExtractService() *FileExtractService {
	return &FileExtractService{}
}

// Extract returns the plain text of an uploaded document. Every failure is an
// *ExtractionError; an empty result is never returned without one.
func (s *FileExtractService) Extract(data []byte, filename string) (string, error) {
	text, err := s.extract(data, filename)
	if err != nil {
		return "", &ExtractionError{Filename: filename, Err: err}
	}
	return text, nil
}

func (s *FileExtractService) extract(data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("file is empty")
	}

	switch detectFormat(data, filename) {
	case ".pdf":
		return s.extractPDF(data)
	case ".docx":
		return s.extractDOCX(data)
	case ".txt":
		return s.extractTXT(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// detectFormat trusts magic bytes over the file name.
func detectFormat(data []byte, filename string) string {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return ".pdf"
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".pdf" {
		// Claims to be a PDF but has no header: let the parser report it.
		return ".pdf"
	}
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) && ext == ".docx" {
		return ".docx"
	}
	if ext == ".txt" || ext == ".md" {
		return ".txt"
	}
	return ext
}

func (s *FileExtractService) extractTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text file is not valid UTF-8")
	}

	text := normalizeExtractedText(string(data))
	if text == "" {
		return "", fmt.Errorf("text file is empty")
	}

	return text, nil
}

func (s *FileExtractService) extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("corrupt pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	raw, err := joinPages(reader.NumPage(), func(pageIndex int) (string, bool, error) {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			return "", false, nil
		}
		content, err := page.GetPlainText(nil)
		return content, true, err
	})
	if err != nil {
		return "", err
	}

	text = normalizeExtractedText(raw)
	if text == "" {
		return "", fmt.Errorf("%w in pdf", ErrNoText)
	}

	return text, nil
}

// joinPages concatenates pages 1..total in order. pageText reports false for a
// page that does not exist; an unreadable page fails the whole document.
func joinPages(total int, pageText func(pageIndex int) (string, bool, error)) (string, error) {
	var b strings.Builder
	for pageIndex := 1; pageIndex <= total; pageIndex++ {
		content, ok, err := pageText(pageIndex)
		if err != nil {
			return "", fmt.Errorf("reading pdf page %d of %d: %w", pageIndex, total, err)
		}
		if !ok {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (s *FileExtractService) extractDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening docx: %w", err)
	}

	var documentXML []byte
	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		documentXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		break
	}

	if len(documentXML) == 0 {
		return "", fmt.Errorf("docx document.xml not found")
	}

	text := normalizeExtractedText(stripDOCXML(documentXML))
	if text == "" {
		return "", fmt.Errorf("%w in docx", ErrNoText)
	}

	return text, nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func stripDOCXML(src []byte) string {
	s := string(src)

	// DOCX paragraphs and line breaks
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	s = xmlTagPattern.ReplaceAllString(s, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	return replacer.Replace(s)
}

// normalizeExtractedText unifies line endings, trims every line and collapses
// runs of blank lines into one.
func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	buf := bytes.Buffer{}

	emptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}
