package policy

import "parley/domain"

// DefaultRoundsPerAIReply makes the assistant speak after every full human
// pass. Kept configurable through settings.
const DefaultRoundsPerAIReply = 1

// Rounds cycles through the human turn queue like strict, but interleaves the
// assistant deterministically: once every RoundsPerAIReply full passes of the
// queue, the turn goes to the assistant before the cycle restarts.
//
// The policy reads TurnState.CurrentIndex as the number of human messages
// accepted since the assistant last spoke; the turn manager maintains that
// counter.
type Rounds struct {
	RoundsPerAIReply int
}

func (Rounds) Name() domain.PolicyName { return domain.PolicyRounds }

func (Rounds) CanSend(actorID string, state *domain.TurnState, _ []domain.Message) bool {
	if state.AnyoneMaySend() {
		return true
	}
	return state.NextIs(actorID)
}

func (p Rounds) NextActor(state *domain.TurnState, lastSenderID string, participants []domain.Participant, _ []domain.Message) *ActorRef {
	queue := queueOf(state, participants)
	if len(queue) == 0 {
		return nil
	}
	if domain.IsAssistant(lastSenderID) {
		return &ActorRef{ID: queue[0]}
	}

	i := indexOf(queue, lastSenderID)
	if i == -1 {
		return &ActorRef{ID: queue[0]}
	}
	if i < len(queue)-1 {
		return &ActorRef{ID: queue[i+1]}
	}

	// Full pass complete. Hand the turn to the assistant once enough passes
	// have accumulated, otherwise restart the cycle.
	humanCount := 1
	if state != nil {
		humanCount = state.CurrentIndex + 1
	}
	if humanCount >= p.RoundsPerAIReply*len(queue) {
		return &ActorRef{ID: domain.ActorAssistant}
	}
	return &ActorRef{ID: queue[0]}
}

func (Rounds) Initialize(conversationID, firstActorID string) domain.TurnState {
	return initialState(conversationID, firstActorID)
}

// queueOf prefers the recorded turn queue and falls back to join order.
func queueOf(state *domain.TurnState, participants []domain.Participant) []string {
	if state != nil && len(state.TurnQueue) > 0 {
		return state.TurnQueue
	}
	return humanIDs(participants)
}
