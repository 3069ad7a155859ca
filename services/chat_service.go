// Package services exposes the caller-facing operations of the mediator.
// Services validate commands, enforce membership and turn eligibility, then
// delegate persistence and event emission to the owning components.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"parley/bus"
	"parley/contract"
	"parley/domain"
	"parley/domain/event"
	"parley/errors"
	"parley/moderation"
	"parley/search"
	"parley/session"
	"parley/turn"
)

type IChatService interface {
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	GetMessages(ctx context.Context, cmd domain.GetMessagesCommand) ([]domain.Message, *string, error)
	SetTyping(ctx context.Context, cmd domain.SetTypingCommand) error
	GetSessionState(ctx context.Context, conversationID string, forceFresh bool) (session.Snapshot, error)
	ChangePolicy(ctx context.Context, conversationID string, settings domain.Settings, firstActorID string) error
	Search(ctx context.Context, conversationID, input string) ([]search.Hit, error)
}

type ChatService struct {
	log           *slog.Logger
	bus           *bus.Bus
	validate      *validator.Validate
	moderator     *moderation.Moderator
	index         *search.Index
	turns         *turn.Manager
	sessions      *session.Aggregator
	messages      contract.MessageRepository
	participants  contract.ParticipantRepository
	conversations contract.ConversationRepository
	typing        contract.TypingStore
}

func NewChatService(
	log *slog.Logger,
	b *bus.Bus,
	moderator *moderation.Moderator,
	index *search.Index,
	turns *turn.Manager,
	sessions *session.Aggregator,
	messages contract.MessageRepository,
	participants contract.ParticipantRepository,
	conversations contract.ConversationRepository,
	typing contract.TypingStore,
) *ChatService {
	s := &ChatService{
		log:           log,
		bus:           b,
		validate:      validator.New(),
		moderator:     moderator,
		index:         index,
		turns:         turns,
		sessions:      sessions,
		messages:      messages,
		participants:  participants,
		conversations: conversations,
		typing:        typing,
	}
	// Persist the terminal status no matter which component declared the
	// conversation complete.
	b.Subscribe(event.ConversationCompleted, "completion-persister", s.persistCompletion, bus.Options{})
	return s
}

// SendMessage runs the full acceptance flow of one message: validation,
// membership, turn eligibility (with one recovery attempt), moderation,
// persistence, then turn succession and event emission.
func (s *ChatService) SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	content := strings.TrimSpace(cmd.Content)
	if content == "" {
		return domain.Message{}, errors.ErrEmptyContent
	}

	if err := s.checkMembership(ctx, cmd.ConversationID, cmd.ActorID); err != nil {
		return domain.Message{}, err
	}
	if err := s.checkTurn(ctx, cmd.ConversationID, cmd.ActorID); err != nil {
		return domain.Message{}, err
	}

	scan := s.moderator.Scan(content)

	createdAt := cmd.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	msg := domain.Message{
		ID:             uuid.New(),
		ConversationID: cmd.ConversationID,
		SenderID:       cmd.ActorID,
		Content:        scan.Content,
		CreatedAt:      createdAt,
	}
	if err := s.messages.Store(ctx, msg); err != nil {
		return domain.Message{}, fmt.Errorf("storing message: %w", err)
	}
	if err := s.index.IndexMessage(msg); err != nil {
		// Search lags behind rather than failing an accepted message.
		s.log.Warn("message indexing failed", "conversation_id", msg.ConversationID, "error", err)
	}

	correlationID := uuid.NewString()
	s.emit(ctx, event.NewMessageCreated(msg).WithCorrelation(correlationID))
	if scan.Flagged() {
		s.emit(ctx, event.NewMessageFlagged(msg, flaggedWords(scan), flaggedLanguage(scan)).WithCorrelation(correlationID))
	}

	if _, err := s.turns.AdvanceTurn(ctx, cmd.ConversationID, cmd.ActorID, correlationID); err != nil {
		// The message is committed; succession failure is repaired on the
		// next send via read-repair, not rolled back.
		s.log.Error("turn advance failed after commit",
			"conversation_id", cmd.ConversationID, "error", err)
	}
	return msg, nil
}

func (s *ChatService) GetMessages(ctx context.Context, cmd domain.GetMessagesCommand) ([]domain.Message, *string, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return s.messages.List(ctx, cmd.ConversationID, cmd.Cursor)
}

func (s *ChatService) SetTyping(ctx context.Context, cmd domain.SetTypingCommand) error {
	if err := s.validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	if err := s.typing.SetTyping(ctx, cmd.ConversationID, cmd.ActorID, cmd.Typing); err != nil {
		return err
	}
	s.emit(ctx, event.NewTypingChanged(cmd.ConversationID, cmd.ActorID, cmd.Typing))
	return nil
}

func (s *ChatService) GetSessionState(ctx context.Context, conversationID string, forceFresh bool) (session.Snapshot, error) {
	return s.sessions.GetState(ctx, conversationID, forceFresh)
}

// ChangePolicy replaces the conversation settings and re-initializes the turn
// state under the new policy, with firstActorID as the next speaker.
func (s *ChatService) ChangePolicy(ctx context.Context, conversationID string, settings domain.Settings, firstActorID string) error {
	if !domain.KnownPolicy(settings.Policy) {
		return errors.ErrUnknownPolicy
	}

	conv, err := s.conversations.Load(ctx, conversationID)
	if err != nil {
		return err
	}
	if conv == nil {
		conv = &domain.Conversation{
			ID:        conversationID,
			Status:    domain.ConversationActive,
			CreatedAt: time.Now().UTC(),
		}
	}
	conv.Settings = settings
	if err := s.conversations.Save(ctx, *conv); err != nil {
		return err
	}

	if _, err := s.turns.InitializeTurn(ctx, conversationID, firstActorID, true); err != nil {
		return err
	}
	s.emit(ctx, event.NewSettingsUpdated(conversationID, settings.Policy))
	return nil
}

// Search answers a command-style query over the conversation's messages.
func (s *ChatService) Search(ctx context.Context, conversationID, input string) ([]search.Hit, error) {
	query := search.ParseQuery(input)
	if query.ConversationID == "" {
		query.ConversationID = conversationID
	}
	if query.Terms == "" {
		return nil, fmt.Errorf("%w: empty search terms", errors.ErrInvalidPayload)
	}
	return s.index.Search(ctx, query)
}

// checkMembership rejects senders that are neither participants nor the
// assistant.
func (s *ChatService) checkMembership(ctx context.Context, conversationID, actorID string) error {
	if domain.IsAssistant(actorID) {
		return nil
	}
	members, err := s.participants.List(ctx, conversationID)
	if err != nil {
		return err
	}
	for _, member := range members {
		if member.ID == actorID {
			return nil
		}
	}
	return errors.ErrNotParticipant
}

// checkTurn enforces eligibility with one recovery attempt: a missing or
// unresolvable state is synthesized by read-repair, and an assistant turn
// held past the stuck timeout is handed back to the requester. An assistant
// turn still within the timeout is honored and the send rejected.
func (s *ChatService) checkTurn(ctx context.Context, conversationID, actorID string) error {
	allowed, err := s.turns.CanUserSendMessage(ctx, conversationID, actorID)
	if err != nil {
		return err
	}
	if allowed {
		return nil
	}

	if _, err := s.turns.EnsureTurnStateExists(ctx, conversationID); err != nil {
		return err
	}
	recovered, err := s.turns.RecoverStuckTurn(ctx, conversationID, actorID)
	if err != nil {
		return err
	}
	if recovered {
		return nil
	}

	allowed, err = s.turns.CanUserSendMessage(ctx, conversationID, actorID)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.ErrNotYourTurn
	}
	return nil
}

func (s *ChatService) persistCompletion(ctx context.Context, evt event.Event) error {
	conv, err := s.conversations.Load(ctx, evt.ConversationID)
	if err != nil {
		return err
	}
	if conv == nil || conv.Status == domain.ConversationCompleted {
		return nil
	}
	conv.Status = domain.ConversationCompleted
	return s.conversations.Save(ctx, *conv)
}

func (s *ChatService) emit(ctx context.Context, evt event.Event) {
	evt.Source = "chat-service"
	if err := s.bus.Emit(ctx, evt); err != nil {
		s.log.Error("failed to emit event", "type", string(evt.Type), "error", err)
	}
}

func flaggedWords(res moderation.Result) []string {
	words := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		words = append(words, hit.Word)
	}
	return words
}

func flaggedLanguage(res moderation.Result) string {
	for _, hit := range res.Hits {
		if hit.Language != "" {
			return hit.Language
		}
	}
	return ""
}
