package policy

import "parley/domain"

// Flexible enforces no order at all: anyone may send at any time.
type Flexible struct{}

func (Flexible) Name() domain.PolicyName { return domain.PolicyFlexible }

func (Flexible) CanSend(string, *domain.TurnState, []domain.Message) bool {
	return true
}

func (Flexible) NextActor(*domain.TurnState, string, []domain.Participant, []domain.Message) *ActorRef {
	return nil
}

func (Flexible) Initialize(conversationID, _ string) domain.TurnState {
	// Flexible conversations never pin a next speaker.
	return initialState(conversationID, "")
}
