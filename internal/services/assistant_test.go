package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyugp-assistant/internal/models"
	"fyugp-assistant/internal/session"
)

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(data []byte, filename string) (string, error) {
	if s.err != nil {
		return "", &ExtractionError{Filename: filename, Err: s.err}
	}
	return s.text, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []models.WSMessage
}

func (p *recordingPublisher) Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, m := range p.messages {
		out = append(out, m.Type)
	}
	return out
}

func newTestAssistant(lookup Lookup, extractor Extractor, opts ...ResolverOption) (*AssistantService, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewAssistantService(NewResolver(lookup, opts...), extractor, pub), pub
}

func TestAsk_AppendsUserThenAssistant(t *testing.T) {
	a, pub := newTestAssistant(&stubLookup{answer: "web"}, &stubExtractor{})
	sess := session.New(uuid.New(), time.Now())

	resp, err := a.Ask(context.Background(), sess, "Who is the VC?")
	require.NoError(t, err)

	entries := a.History(sess)
	require.Len(t, entries, 2)
	assert.Equal(t, models.SpeakerUser, entries[0].Speaker)
	assert.Equal(t, "Who is the VC?", entries[0].Text)
	assert.Equal(t, models.SpeakerAssistant, entries[1].Speaker)
	assert.Equal(t, models.SourceRule, entries[1].Source)
	assert.Equal(t, entries[1], resp.Answer)
	assert.Equal(t, []string{models.WSConversationAppended}, pub.types())
}

func TestAsk_RejectsBlankQuestion(t *testing.T) {
	a, pub := newTestAssistant(&stubLookup{}, &stubExtractor{})
	sess := session.New(uuid.New(), time.Now())

	_, err := a.Ask(context.Background(), sess, "   ")

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "message")
	assert.Equal(t, 0, sess.Conversation.Len())
	assert.Empty(t, pub.types())
}

func TestAsk_UsesSessionDocument(t *testing.T) {
	a, _ := newTestAssistant(&stubLookup{answer: "web"}, &stubExtractor{text: "Line one\nFYUGP basics\nLine three"}, WithRules(nil))
	sess := session.New(uuid.New(), time.Now())

	_, err := a.LoadDocument(context.Background(), sess, "notes.pdf", []byte("%PDF-"))
	require.NoError(t, err)

	resp, err := a.Ask(context.Background(), sess, "fyugp")
	require.NoError(t, err)
	assert.Equal(t, DocumentAnswerPrefix+"FYUGP basics", resp.Answer.Text)
}

func TestAsk_LookupFailureStillCompletesTurn(t *testing.T) {
	a, _ := newTestAssistant(&stubLookup{err: errors.New("dial tcp: timeout")}, &stubExtractor{})
	sess := session.New(uuid.New(), time.Now())

	resp, err := a.Ask(context.Background(), sess, "xyzzyquux")
	require.NoError(t, err)
	assert.Equal(t, models.SourceError, resp.Answer.Source)
	assert.Equal(t, 2, sess.Conversation.Len())
}

func TestLoadDocument_FailureKeepsPrevious(t *testing.T) {
	extractor := &stubExtractor{text: "first document"}
	a, pub := newTestAssistant(&stubLookup{}, extractor)
	sess := session.New(uuid.New(), time.Now())

	_, err := a.LoadDocument(context.Background(), sess, "a.txt", []byte("x"))
	require.NoError(t, err)

	extractor.err = errors.New("corrupt")
	_, err = a.LoadDocument(context.Background(), sess, "b.pdf", []byte("y"))

	var extractErr *ExtractionError
	require.True(t, errors.As(err, &extractErr))

	doc, ok := sess.Document.Current()
	require.True(t, ok)
	assert.Equal(t, "a.txt", doc.Name)
	assert.Equal(t, "first document", doc.Text)
	assert.Equal(t, []string{models.WSDocumentLoaded}, pub.types())
}

func TestReset_ClearsConversationKeepsDocument(t *testing.T) {
	a, pub := newTestAssistant(&stubLookup{answer: "web"}, &stubExtractor{text: "doc"})
	sess := session.New(uuid.New(), time.Now())

	_, _ = a.LoadDocument(context.Background(), sess, "a.txt", []byte("x"))
	_, _ = a.Ask(context.Background(), sess, "vc")

	a.Reset(context.Background(), sess)

	assert.Empty(t, a.History(sess))
	_, ok := sess.Document.Current()
	assert.True(t, ok)
	assert.Equal(t, models.WSConversationReset, pub.types()[len(pub.types())-1])
}

func TestAsk_ConcurrentTurnsStayPaired(t *testing.T) {
	a, _ := newTestAssistant(&stubLookup{answer: "web"}, &stubExtractor{})
	sess := session.New(uuid.New(), time.Now())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = a.Ask(context.Background(), sess, "vc")
		}()
	}
	wg.Wait()

	entries := a.History(sess)
	require.Len(t, entries, 40)
	for i := 0; i < len(entries); i += 2 {
		assert.Equal(t, models.SpeakerUser, entries[i].Speaker)
		assert.Equal(t, models.SpeakerAssistant, entries[i+1].Speaker)
	}
}

func TestHelpAndLinks(t *testing.T) {
	help := Help()
	assert.Equal(t, AppTitle, help.Title)
	assert.Contains(t, studyTips, help.Tip)

	links := QuickLinks()
	require.Len(t, links, 4)
	links[0].URL = "changed"
	assert.NotEqual(t, "changed", QuickLinks()[0].URL)
}
