// Package turn owns the authoritative turn state of each conversation.
//
// The Manager is the single mutation entry point: every write to a
// conversation's TurnState (policy succession, explicit override, read-repair)
// is funneled through it and serialized per conversation id. Reads tolerate
// brief staleness and run unlocked.
package turn

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"parley/bus"
	"parley/contract"
	"parley/domain"
	"parley/domain/event"
	"parley/errors"
	"parley/policy"
)

const source = "turn-manager"

// defaultStuckTimeout bounds how long an assistant-held turn is presumed in
// flight before the recovery path may reclaim it.
const defaultStuckTimeout = 30 * time.Second

type Manager struct {
	log           *slog.Logger
	bus           *bus.Bus
	turns         contract.TurnStateRepository
	messages      contract.MessageRepository
	participants  contract.ParticipantRepository
	conversations contract.ConversationRepository
	recentWindow  int
	stuckTimeout  time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(
	log *slog.Logger,
	b *bus.Bus,
	turns contract.TurnStateRepository,
	messages contract.MessageRepository,
	participants contract.ParticipantRepository,
	conversations contract.ConversationRepository,
	recentWindow int,
	stuckTimeout time.Duration,
) *Manager {
	if stuckTimeout <= 0 {
		stuckTimeout = defaultStuckTimeout
	}
	return &Manager{
		log:           log,
		bus:           b,
		turns:         turns,
		messages:      messages,
		participants:  participants,
		conversations: conversations,
		recentWindow:  recentWindow,
		stuckTimeout:  stuckTimeout,
		locks:         make(map[string]*sync.Mutex),
	}
}

// lockFor serializes mutations per conversation id. Two near-simultaneous
// checks against stale state would otherwise both succeed and corrupt the
// turn order.
func (m *Manager) lockFor(conversationID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[conversationID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[conversationID] = l
	}
	return l
}

// policyFor selects the active policy from the conversation settings. A
// missing conversation record falls back to strict, the safest default.
func (m *Manager) policyFor(ctx context.Context, conversationID string) (policy.Policy, domain.Settings, error) {
	conv, err := m.conversations.Load(ctx, conversationID)
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("loading conversation %s: %w", conversationID, err)
	}
	settings := domain.Settings{Policy: domain.PolicyStrict}
	if conv != nil {
		settings = conv.Settings
	}
	pol, err := policy.ForSettings(settings)
	if err != nil {
		return nil, settings, err
	}
	return pol, settings, nil
}

// CanUserSendMessage delegates eligibility to the active policy against the
// current turn state. A missing state behaves as freshly initialized.
func (m *Manager) CanUserSendMessage(ctx context.Context, conversationID, actorID string) (bool, error) {
	pol, _, err := m.policyFor(ctx, conversationID)
	if err != nil {
		return false, err
	}
	state, err := m.turns.Load(ctx, conversationID)
	if err != nil {
		return false, err
	}
	recent, err := m.messages.Recent(ctx, conversationID, m.recentWindow)
	if err != nil {
		// The trailing window only tightens moderated eligibility; a read
		// failure must not lock the conversation.
		m.log.Warn("recent message window unavailable", "conversation_id", conversationID, "error", err)
		recent = nil
	}
	return pol.CanSend(actorID, state, recent), nil
}

// InitializeTurn establishes the first speaker. It is idempotent: when a turn
// state already exists it overwrites only if force is set (e.g. a new guest
// must become the first speaker); otherwise it logs and returns the existing
// record without emitting anything, to avoid silently resetting an
// in-progress conversation.
func (m *Manager) InitializeTurn(ctx context.Context, conversationID, actorID string, force bool) (*domain.TurnState, error) {
	l := m.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()

	pol, _, err := m.policyFor(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	existing, err := m.turns.Load(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if existing != nil && !force {
		m.log.Info("turn state already initialized, keeping it",
			"conversation_id", conversationID, "next_actor", existing.NextActor())
		return existing, nil
	}

	state := pol.Initialize(conversationID, actorID)
	if err := m.turns.Save(ctx, state); err != nil {
		return nil, err
	}

	previous := ""
	if existing != nil {
		previous = existing.NextActor()
	}
	m.emit(ctx, event.NewTurnChanged(conversationID, state.NextActor(), pol.Name(), previous, state.NextRole, state.CurrentIndex))
	return &state, nil
}

// SetTurnToUser is an explicit override for external triggers, e.g. a guest
// joining mid-flow. One atomic write of the turn state.
func (m *Manager) SetTurnToUser(ctx context.Context, conversationID, actorID string) error {
	l := m.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()

	pol, _, err := m.policyFor(ctx, conversationID)
	if err != nil {
		return err
	}
	state, err := m.loadOrDefault(ctx, pol, conversationID)
	if err != nil {
		return err
	}

	previous := state.NextActor()
	state.NextActorID = &actorID
	state.NextRole = ""
	state.UpdatedAt = time.Now().UTC()
	if err := m.turns.Save(ctx, state); err != nil {
		return err
	}
	m.emit(ctx, event.NewTurnChanged(conversationID, actorID, pol.Name(), previous, "", state.CurrentIndex))
	return nil
}

// SetTurnToRole pins the next abstract role; role-based policies also resolve
// the concrete actor when the mapping knows it.
func (m *Manager) SetTurnToRole(ctx context.Context, conversationID, role string) error {
	l := m.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()

	pol, _, err := m.policyFor(ctx, conversationID)
	if err != nil {
		return err
	}
	state, err := m.loadOrDefault(ctx, pol, conversationID)
	if err != nil {
		return err
	}

	previous := state.NextActor()
	state.NextRole = role
	state.NextActorID = nil
	if rb, ok := pol.(policy.RoleBased); ok {
		if id := rb.ActorFor(role); id != "" {
			state.NextActorID = &id
		}
	}
	state.UpdatedAt = time.Now().UTC()
	if err := m.turns.Save(ctx, state); err != nil {
		return err
	}
	m.emit(ctx, event.NewTurnChanged(conversationID, state.NextActor(), pol.Name(), previous, role, state.CurrentIndex))
	return nil
}

// EnsureTurnStateExists is the read-repair path for stuck conversations: when
// no record exists, or the recorded next speaker no longer resolves to anyone
// who can act (e.g. a departed participant), it synthesizes a fresh state from
// the participant list, creator first, persists it and returns it.
func (m *Manager) EnsureTurnStateExists(ctx context.Context, conversationID string) (*domain.TurnState, error) {
	l := m.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()

	existing, err := m.turns.Load(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	pol, settings, err := m.policyFor(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	members, err := m.participants.List(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if resolvable(existing, settings, members) {
			return existing, nil
		}
		if len(members) == 0 {
			return nil, fmt.Errorf("%w: next actor %q has left and no participant remains to repair from",
				errors.ErrTurnStateCorrupted, existing.NextActor())
		}
		m.log.Warn("replacing unresolvable turn state",
			"conversation_id", conversationID,
			"next_actor", existing.NextActor(), "next_role", existing.NextRole,
			"error", errors.ErrTurnStateCorrupted)
	}
	if len(members) == 0 {
		return nil, errors.ErrNoParticipants
	}

	first := members[0]
	for _, p := range members {
		if p.Role == domain.RoleCreator {
			first = p
			break
		}
	}

	reason := "read-repair"
	if existing != nil {
		reason = "corrupt-state"
	}
	state := pol.Initialize(conversationID, first.ID)
	if err := m.turns.Save(ctx, state); err != nil {
		return nil, err
	}
	m.log.Info("turn state repaired from participants",
		"conversation_id", conversationID, "next_actor", state.NextActor())
	m.emit(ctx, event.NewTurnReset(conversationID, state.NextActor(), reason))
	return &state, nil
}

// resolvable reports whether the recorded next speaker can still act: the
// turn is open, held by the assistant, or points at a current participant,
// directly or through the role mapping.
func resolvable(state *domain.TurnState, settings domain.Settings, members []domain.Participant) bool {
	if state.AnyoneMaySend() || state.NextIs(domain.ActorAssistant) {
		return true
	}
	target := state.NextActor()
	if target == "" {
		target = settings.RoleMapping[state.NextRole]
		if domain.IsAssistant(target) {
			return true
		}
	}
	for _, p := range members {
		if p.ID == target {
			return true
		}
	}
	return false
}

// AdvanceTurn applies policy succession after an accepted message from
// senderID, persists the new state and emits turn.changed.
func (m *Manager) AdvanceTurn(ctx context.Context, conversationID, senderID, correlationID string) (*domain.TurnState, error) {
	l := m.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()

	pol, _, err := m.policyFor(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	state, err := m.loadOrDefault(ctx, pol, conversationID)
	if err != nil {
		return nil, err
	}
	members, err := m.participants.List(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	recent, err := m.messages.Recent(ctx, conversationID, m.recentWindow)
	if err != nil {
		recent = nil
	}

	previous := state.NextActor()
	if len(state.TurnQueue) == 0 && pol.Name() == domain.PolicyRounds {
		for _, p := range members {
			if !domain.IsAssistant(p.ID) {
				state.TurnQueue = append(state.TurnQueue, p.ID)
			}
		}
	}

	next := pol.NextActor(&state, senderID, members, recent)
	switch {
	case next == nil:
		state.NextActorID = nil
		state.NextRole = ""
	case next.ID != "":
		id := next.ID
		state.NextActorID = &id
		state.NextRole = ""
	default:
		state.NextRole = next.Role
		state.NextActorID = nil
		if rb, ok := pol.(policy.RoleBased); ok {
			if id := rb.ActorFor(next.Role); id != "" {
				state.NextActorID = &id
			}
		}
	}

	if domain.IsAssistant(senderID) {
		state.CurrentIndex = 0
	} else {
		state.CurrentIndex++
	}
	state.UpdatedAt = time.Now().UTC()

	if err := m.turns.Save(ctx, state); err != nil {
		return nil, err
	}
	evt := event.NewTurnChanged(conversationID, state.NextActor(), pol.Name(), previous, state.NextRole, state.CurrentIndex).
		WithCorrelation(correlationID)
	m.emit(ctx, evt)
	return &state, nil
}

// RecoverStuckTurn handles the stuck-assistant condition: the recorded next
// speaker is the assistant but no response arrived within the stuck timeout
// (e.g. a crashed AI call). An assistant turn younger than the timeout is
// presumed in flight and left alone. On a genuinely stuck state it
// re-initializes the turn for the requesting user and re-checks eligibility.
// Returns false when the state was not stuck or recovery did not help; the
// caller then rejects with a turn-violation error instead of retrying
// indefinitely.
func (m *Manager) RecoverStuckTurn(ctx context.Context, conversationID, actorID string) (bool, error) {
	l := m.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()

	state, err := m.turns.Load(ctx, conversationID)
	if err != nil {
		return false, err
	}
	if state == nil || !state.NextIs(domain.ActorAssistant) {
		return false, nil
	}
	if time.Since(state.UpdatedAt) < m.stuckTimeout {
		m.log.Debug("assistant reply presumed in flight, not recovering",
			"conversation_id", conversationID, "held_since", state.UpdatedAt)
		return false, nil
	}

	pol, _, err := m.policyFor(ctx, conversationID)
	if err != nil {
		return false, err
	}
	fresh := pol.Initialize(conversationID, actorID)
	if err := m.turns.Save(ctx, fresh); err != nil {
		return false, err
	}
	m.log.Warn("recovered stuck assistant turn",
		"conversation_id", conversationID, "actor_id", actorID)
	m.emit(ctx, event.NewTurnReset(conversationID, fresh.NextActor(), "assistant-stuck"))
	return pol.CanSend(actorID, &fresh, nil), nil
}

// ResetAfterAIFailure force-clears an assistant turn that will never be
// honored, handing it back to the conversation creator.
func (m *Manager) ResetAfterAIFailure(ctx context.Context, conversationID string) error {
	l := m.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()

	pol, _, err := m.policyFor(ctx, conversationID)
	if err != nil {
		return err
	}
	members, err := m.participants.List(ctx, conversationID)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return errors.ErrNoParticipants
	}

	fresh := pol.Initialize(conversationID, members[0].ID)
	if err := m.turns.Save(ctx, fresh); err != nil {
		return err
	}
	m.emit(ctx, event.NewTurnReset(conversationID, fresh.NextActor(), "ai-failure"))
	return nil
}

// loadOrDefault never treats a missing record as fatal: policies behave as if
// freshly initialized, with no pinned speaker.
func (m *Manager) loadOrDefault(ctx context.Context, pol policy.Policy, conversationID string) (domain.TurnState, error) {
	state, err := m.turns.Load(ctx, conversationID)
	if err != nil {
		return domain.TurnState{}, err
	}
	if state == nil {
		return pol.Initialize(conversationID, ""), nil
	}
	return *state, nil
}

func (m *Manager) emit(ctx context.Context, evt event.Event) {
	evt.Source = source
	if err := m.bus.Emit(ctx, evt); err != nil {
		m.log.Error("failed to emit turn event", "type", string(evt.Type), "error", err)
	}
}
