package policy

import "parley/domain"

// Strict enforces round-robin by join order: only the recorded next speaker
// may send, and the turn cycles through the participant list, wrapping after
// the last participant. Uninitialized state means anyone may start.
type Strict struct{}

func (Strict) Name() domain.PolicyName { return domain.PolicyStrict }

func (Strict) CanSend(actorID string, state *domain.TurnState, _ []domain.Message) bool {
	if state.AnyoneMaySend() {
		return true
	}
	return state.NextIs(actorID)
}

func (Strict) NextActor(_ *domain.TurnState, lastSenderID string, participants []domain.Participant, _ []domain.Message) *ActorRef {
	ids := humanIDs(participants)
	if len(ids) == 0 {
		return nil
	}
	i := indexOf(ids, lastSenderID)
	if i == -1 {
		// Unknown or assistant sender: hand the turn to the first participant.
		return &ActorRef{ID: ids[0]}
	}
	return &ActorRef{ID: ids[(i+1)%len(ids)]}
}

func (Strict) Initialize(conversationID, firstActorID string) domain.TurnState {
	return initialState(conversationID, firstActorID)
}
