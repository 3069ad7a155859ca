// Package policy implements the pluggable turn-taking strategies. The set of
// policies is closed: each variant of domain.PolicyName maps to exactly one
// implementation here, selected once per conversation from its settings.
//
// Policy evaluation is pure and non-blocking. Every strategy tolerates a nil
// turn state and behaves as if it had just been initialized; absent state is
// a recoverable condition, never a failure.
package policy

import (
	"time"

	"parley/domain"
	"parley/errors"
)

// ActorRef names the next speaker either by concrete actor id or by abstract
// role. Exactly one of the two fields is set; a nil *ActorRef means no
// enforced order.
type ActorRef struct {
	ID   string
	Role string
}

// Policy decides turn eligibility and succession for one conversation.
type Policy interface {
	Name() domain.PolicyName
	// CanSend reports whether the actor may send now. recent is the trailing
	// message window, newest last; only the moderated policy reads it.
	CanSend(actorID string, state *domain.TurnState, recent []domain.Message) bool
	// NextActor picks who should speak after lastSenderID, or nil when no
	// order is enforced. participants are ordered by join order; recent is the
	// trailing message window used by activity-based succession.
	NextActor(state *domain.TurnState, lastSenderID string, participants []domain.Participant, recent []domain.Message) *ActorRef
	// Initialize builds the turn state a fresh conversation starts from.
	Initialize(conversationID, firstActorID string) domain.TurnState
}

// ForSettings selects the policy implementation for a conversation.
func ForSettings(s domain.Settings) (Policy, error) {
	switch s.Policy {
	case domain.PolicyFlexible:
		return Flexible{}, nil
	case domain.PolicyStrict:
		return Strict{}, nil
	case domain.PolicyModerated:
		max := s.MaxConsecutive
		if max <= 0 {
			max = DefaultMaxConsecutive
		}
		return Moderated{MaxConsecutive: max}, nil
	case domain.PolicyRounds:
		every := s.RoundsPerAIReply
		if every <= 0 {
			every = DefaultRoundsPerAIReply
		}
		return Rounds{RoundsPerAIReply: every}, nil
	case domain.PolicyDemoRoles:
		return NewRoleBased(s.RoleMapping, s.RoleOrder), nil
	}
	return nil, errors.ErrUnknownPolicy
}

// initialState is the shared shape of a freshly initialized turn state.
func initialState(conversationID, firstActorID string) domain.TurnState {
	state := domain.TurnState{
		ConversationID: conversationID,
		UpdatedAt:      time.Now().UTC(),
	}
	if firstActorID != "" {
		state.NextActorID = &firstActorID
	}
	return state
}

// humanIDs projects participants to their ids, skipping the assistant
// sentinel should it ever appear in a membership list.
func humanIDs(participants []domain.Participant) []string {
	ids := make([]string, 0, len(participants))
	for _, p := range participants {
		if domain.IsAssistant(p.ID) {
			continue
		}
		ids = append(ids, p.ID)
	}
	return ids
}

func indexOf(ids []string, id string) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}
