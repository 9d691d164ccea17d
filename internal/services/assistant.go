package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"fyugp-assistant/internal/models"
	"fyugp-assistant/internal/session"
)

const maxQuestionLength = 2000

// Extractor turns uploaded bytes into plain text.
type Extractor interface {
	Extract(data []byte, filename string) (string, error)
}

// Publisher pushes session updates to connected clients.
type Publisher interface {
	Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage)
}

// AssistantService runs turns against a session: it records the question,
// resolves an answer and records that too.
type AssistantService struct {
	resolver  *Resolver
	extractor Extractor
	publisher Publisher
}

func NewAssistantService(resolver *Resolver, extractor Extractor, publisher Publisher) *AssistantService {
	return &AssistantService{
		resolver:  resolver,
		extractor: extractor,
		publisher: publisher,
	}
}

// Ask processes one turn. The session is locked for the whole turn so a
// second question on the same session waits for the first answer.
func (s *AssistantService) Ask(ctx context.Context, sess *session.Session, question string) (models.ChatResponse, error) {
	if strings.TrimSpace(question) == "" {
		return models.ChatResponse{}, &ValidationError{Fields: map[string]string{"message": "Message is required"}}
	}
	if utf8.RuneCountInString(question) > maxQuestionLength {
		return models.ChatResponse{}, &ValidationError{Fields: map[string]string{"message": "Message is too long"}}
	}

	sess.Lock()
	userEntry := sess.Conversation.Append(models.SpeakerUser, question)
	answer := s.resolver.Resolve(ctx, question, sess.Document.Text())
	botEntry := sess.Conversation.AppendAnswer(answer)
	sess.Unlock()

	s.publish(ctx, sess.ID, models.WSConversationAppended, []models.ConversationEntry{userEntry, botEntry})

	return models.ChatResponse{Question: userEntry, Answer: botEntry}, nil
}

func (s *AssistantService) History(sess *session.Session) []models.ConversationEntry {
	sess.Lock()
	defer sess.Unlock()
	return sess.Conversation.Entries()
}

// Reset clears the conversation. The loaded document stays.
func (s *AssistantService) Reset(ctx context.Context, sess *session.Session) {
	sess.Lock()
	sess.Conversation.Reset()
	sess.Unlock()

	s.publish(ctx, sess.ID, models.WSConversationReset, nil)
}

// LoadDocument replaces the session's document. When extraction fails the
// previous document is left as it was.
func (s *AssistantService) LoadDocument(ctx context.Context, sess *session.Session, filename string, data []byte) (models.DocumentStatus, error) {
	text, err := s.extractor.Extract(data, filename)
	if err != nil {
		return models.DocumentStatus{}, err
	}

	sess.Lock()
	sess.Document.Load(filename, text)
	sess.Unlock()

	status := sess.DocumentStatus()
	s.publish(ctx, sess.ID, models.WSDocumentLoaded, status)
	return status, nil
}

func (s *AssistantService) publish(ctx context.Context, sessionID uuid.UUID, msgType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, sessionID, models.WSMessage{Type: msgType, Payload: payload})
}
