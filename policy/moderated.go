package policy

import (
	"github.com/samber/lo"

	"parley/domain"
)

// DefaultMaxConsecutive is the anti-flood ceiling used when settings leave it
// unset. The value is empirically chosen; change it via settings, not here.
const DefaultMaxConsecutive = 3

// Moderated lets anyone send unless they have flooded the conversation with
// MaxConsecutive messages in a row. Succession favors the participant with the
// fewest recent messages, excluding the last sender and the assistant; ties
// keep join order.
type Moderated struct {
	MaxConsecutive int
}

func (Moderated) Name() domain.PolicyName { return domain.PolicyModerated }

func (p Moderated) CanSend(actorID string, _ *domain.TurnState, recent []domain.Message) bool {
	streak := 0
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].SenderID != actorID {
			break
		}
		streak++
	}
	return streak < p.MaxConsecutive
}

func (Moderated) NextActor(_ *domain.TurnState, lastSenderID string, participants []domain.Participant, recent []domain.Message) *ActorRef {
	candidates := lo.Filter(participants, func(p domain.Participant, _ int) bool {
		return p.ID != lastSenderID && !domain.IsAssistant(p.ID)
	})
	if len(candidates) == 0 {
		return nil
	}

	counts := lo.CountValuesBy(recent, func(m domain.Message) string { return m.SenderID })

	quietest := candidates[0]
	for _, candidate := range candidates[1:] {
		if counts[candidate.ID] < counts[quietest.ID] {
			quietest = candidate
		}
	}
	return &ActorRef{ID: quietest.ID}
}

func (Moderated) Initialize(conversationID, _ string) domain.TurnState {
	// Moderated conversations do not pin a next speaker; eligibility is
	// decided per send from the trailing window.
	return initialState(conversationID, "")
}
