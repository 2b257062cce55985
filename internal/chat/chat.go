// Package chat implements the mentor chat: a conversation with an LLM that
// knows the user's plan and progress.
package chat

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/llm"
	"github.com/abhisek/careerpath/internal/progress"
	"github.com/abhisek/careerpath/internal/table"
)

// MessagesTable stores both turns of every exchange.
const MessagesTable = "chat_messages"

// HistoryLimit is how many earlier messages are sent with each question.
const HistoryLimit = 8

// Replies returned instead of errors.
const (
	MsgNotConfigured = "⚠️ No hay un proveedor de IA configurado. Define GROQ_API_KEY (o llm.provider en la configuración) y vuelve a intentarlo."
	MsgEmptyAnswer   = "La IA no generó respuesta. Intenta de nuevo."
	MsgProviderError = "Error del proveedor de IA: %s. Revisa tu API key y que el modelo esté disponible."
)

// ErrEmptyMessage is returned when the user sends a blank message.
var ErrEmptyMessage = errors.New("message is empty")

// Message is one stored chat turn.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      llm.Role  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserContext describes the user's situation to the mentor.
type UserContext struct {
	PlanTitle         string
	CurrentPhase      string
	ProgressPercent   int
	CompletedProjects int
	RecentChallenges  string
}

// ContextFor builds the mentor context from a catalog and a progress state.
// The current phase is the first phase not marked completed.
func ContextFor(cat *catalog.Catalog, st progress.State) UserContext {
	uc := UserContext{
		PlanTitle:         cat.Title(),
		ProgressPercent:   progress.Calculate(cat, st),
		CompletedProjects: progress.Summarize(cat, st).ProjectsCompleted,
		CurrentPhase:      "Plan completado",
	}
	for _, ph := range cat.Phases() {
		if !st.CompletedPhases.Has(ph.ID) {
			uc.CurrentPhase = ph.Title
			break
		}
	}
	return uc
}

// Config holds chat generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the chat generation settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   600,
		Temperature: 0.8,
	}
}

// Service answers chat messages and keeps the conversation in a table
// backend. A nil provider makes every answer MsgNotConfigured.
type Service struct {
	provider llm.Provider
	db       table.Backend
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a chat service.
func NewService(provider llm.Provider, db table.Backend, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		db:       db,
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "chat")),
		now:      time.Now,
	}
}

// Send answers message for userID and stores both turns. Provider failures
// become an explanatory reply rather than an error; only storage failures
// are returned.
func (s *Service) Send(ctx context.Context, userID, message string, uc UserContext) (Message, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Message{}, ErrEmptyMessage
	}

	history, err := s.History(ctx, userID, HistoryLimit)
	if err != nil {
		return Message{}, err
	}

	answer := s.answer(ctx, message, uc, history)

	// The reply is stamped one millisecond later so history keeps turn order.
	at := s.now().UTC().Truncate(time.Millisecond)
	if _, err := s.store(ctx, userID, llm.RoleUser, message, at); err != nil {
		return Message{}, err
	}
	reply, err := s.store(ctx, userID, llm.RoleAssistant, answer, at.Add(time.Millisecond))
	if err != nil {
		return Message{}, err
	}
	return reply, nil
}

func (s *Service) answer(ctx context.Context, message string, uc UserContext, history []Message) string {
	if s.provider == nil {
		return MsgNotConfigured
	}

	msgs := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeChat), llm.Request{
		System:      buildSystemPrompt(uc),
		Messages:    msgs,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.logger.Warn("chat generation failed", zap.Error(err))
		return fmt.Sprintf(MsgProviderError, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return MsgEmptyAnswer
	}
	return text
}

// History returns up to limit of the user's most recent messages, oldest
// first. A limit <= 0 returns all of them.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]Message, error) {
	rows, err := s.db.Get(ctx, MessagesTable, table.Query{
		Where:   table.Where(table.Eq("user_id", userID)),
		OrderBy: "created_at",
		Desc:    true,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	msgs := make([]Message, 0, len(rows))
	for _, r := range rows {
		msgs = append(msgs, Message{
			ID:        r.String("id"),
			UserID:    r.String("user_id"),
			Role:      llm.Role(r.String("role")),
			Content:   r.String("content"),
			CreatedAt: r.Time("created_at"),
		})
	}
	slices.Reverse(msgs)
	return msgs, nil
}

// Clear deletes the user's conversation.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.db.Delete(ctx, MessagesTable, table.Where(table.Eq("user_id", userID))); err != nil {
		return fmt.Errorf("clear chat history: %w", err)
	}
	return nil
}

func (s *Service) store(ctx context.Context, userID string, role llm.Role, content string, at time.Time) (Message, error) {
	m := Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: at,
	}
	_, err := s.db.Post(ctx, MessagesTable, table.Row{
		"id":         m.ID,
		"user_id":    m.UserID,
		"role":       string(m.Role),
		"content":    m.Content,
		"created_at": table.Timestamp(m.CreatedAt),
	})
	if err != nil {
		return Message{}, fmt.Errorf("store %s message: %w", role, err)
	}
	return m, nil
}
