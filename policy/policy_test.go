package policy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"parley/domain"
)

func participants(ids ...string) []domain.Participant {
	res := make([]domain.Participant, 0, len(ids))
	for i, id := range ids {
		role := domain.RoleParticipant
		if i == 0 {
			role = domain.RoleCreator
		}
		res = append(res, domain.Participant{ID: id, Role: role})
	}
	return res
}

func messagesFrom(senders ...string) []domain.Message {
	res := make([]domain.Message, 0, len(senders))
	for _, s := range senders {
		res = append(res, domain.Message{
			ID:        uuid.New(),
			SenderID:  s,
			Content:   "hello",
			CreatedAt: time.Now().UTC(),
		})
	}
	return res
}

func TestForSettings_ClosedSet(t *testing.T) {
	req := require.New(t)

	for _, name := range []domain.PolicyName{
		domain.PolicyStrict, domain.PolicyFlexible, domain.PolicyModerated,
		domain.PolicyRounds, domain.PolicyDemoRoles,
	} {
		p, err := ForSettings(domain.Settings{Policy: name})
		req.NoError(err)
		req.Equal(name, p.Name())
	}

	_, err := ForSettings(domain.Settings{Policy: "anarchy"})
	req.Error(err)
}

func TestFlexible_NoCoordination(t *testing.T) {
	req := require.New(t)
	p := Flexible{}

	req.True(p.CanSend("anyone", nil, nil))
	req.Nil(p.NextActor(nil, "anyone", participants("a", "b"), nil))

	state := p.Initialize("conv-1", "a")
	req.True(state.AnyoneMaySend())
}

func TestStrict_RoundRobinScenario(t *testing.T) {
	req := require.New(t)
	p := Strict{}
	members := participants("A", "B")

	// Given A created the conversation and the turn was initialized for A
	state := p.Initialize("conv-1", "A")

	// Then only A may send
	req.True(p.CanSend("A", &state, nil))
	req.False(p.CanSend("B", &state, nil))

	// When A sends, the turn goes to B
	next := p.NextActor(&state, "A", members, nil)
	req.NotNil(next)
	req.Equal("B", next.ID)

	// When B sends, the turn wraps back to A
	next = p.NextActor(&state, "B", members, nil)
	req.NotNil(next)
	req.Equal("A", next.ID)
}

func TestStrict_UninitializedStateMeansAnyoneMayStart(t *testing.T) {
	req := require.New(t)
	p := Strict{}

	// Absent state is a recoverable condition, not a failure.
	req.True(p.CanSend("A", nil, nil))
	req.True(p.CanSend("B", nil, nil))
}

// Once a message from P is accepted, the turn must not return to P until every
// other participant has spoken once.
func TestStrict_RoundRobinInvariant(t *testing.T) {
	req := require.New(t)
	p := Strict{}
	members := participants("A", "B", "C")

	last := "A"
	seen := map[string]bool{}
	for i := 0; i < len(members)-1; i++ {
		next := p.NextActor(nil, last, members, nil)
		req.NotNil(next)
		req.NotEqual("A", next.ID)
		seen[next.ID] = true
		last = next.ID
	}

	// Then every other participant has spoken, and only now A is next again
	req.Len(seen, 2)
	next := p.NextActor(nil, last, members, nil)
	req.Equal("A", next.ID)
}

func TestModerated_AntiFlood(t *testing.T) {
	req := require.New(t)
	p := Moderated{MaxConsecutive: 3}

	// Given 3 consecutive accepted messages from the same user
	recent := messagesFrom("A", "A", "A")

	// Then the 4th attempt is refused
	req.False(p.CanSend("A", nil, recent))

	// And everyone else may still send
	req.True(p.CanSend("B", nil, recent))
}

func TestModerated_StreakBrokenByOtherSender(t *testing.T) {
	req := require.New(t)
	p := Moderated{MaxConsecutive: 3}

	recent := messagesFrom("A", "A", "B", "A")

	req.True(p.CanSend("A", nil, recent))
}

func TestModerated_NextActorPicksQuietest(t *testing.T) {
	req := require.New(t)
	p := Moderated{MaxConsecutive: 3}
	members := participants("A", "B", "C")

	// Given B has spoken a lot and C not at all
	recent := messagesFrom("A", "B", "B", "A")

	next := p.NextActor(nil, "A", members, recent)
	req.NotNil(next)
	req.Equal("C", next.ID)
}

func TestModerated_NextActorTieKeepsJoinOrder(t *testing.T) {
	req := require.New(t)
	p := Moderated{MaxConsecutive: 3}
	members := participants("A", "B", "C")

	// Given B and C are equally quiet
	next := p.NextActor(nil, "A", members, nil)
	req.NotNil(next)
	req.Equal("B", next.ID)
}

func TestRounds_AssistantAfterFullPass(t *testing.T) {
	req := require.New(t)
	p := Rounds{RoundsPerAIReply: 1}
	members := participants("A", "B")

	state := p.Initialize("conv-1", "A")

	// When A sends, B is next
	next := p.NextActor(&state, "A", members, nil)
	req.Equal("B", next.ID)
	state.CurrentIndex = 1

	// When B closes the pass, the assistant is next
	next = p.NextActor(&state, "B", members, nil)
	req.Equal(domain.ActorAssistant, next.ID)

	// When the assistant replied, the cycle restarts with A
	next = p.NextActor(&state, domain.ActorAssistant, members, nil)
	req.Equal("A", next.ID)
}

func TestRounds_ConfigurableInterleave(t *testing.T) {
	req := require.New(t)
	p := Rounds{RoundsPerAIReply: 2}
	members := participants("A", "B")

	// Given one full pass already accumulated (A and B spoke once)
	state := p.Initialize("conv-1", "A")
	state.CurrentIndex = 1

	// When B closes the first pass, the cycle restarts without the assistant
	next := p.NextActor(&state, "B", members, nil)
	req.Equal("A", next.ID)

	// When B closes the second pass, the assistant speaks
	state.CurrentIndex = 3
	next = p.NextActor(&state, "B", members, nil)
	req.Equal(domain.ActorAssistant, next.ID)
}

func TestRoleBased_Scenario(t *testing.T) {
	req := require.New(t)
	p := NewRoleBased(
		map[string]string{"user_a": "u1", "mediator": "m1", "jordan": "j1"},
		[]string{"user_a", "jordan", "mediator"},
	)

	// canSend resolves the concrete id to a role and compares to NextRole
	req.True(p.CanSend("u1", &domain.TurnState{NextRole: "user_a"}, nil))
	req.False(p.CanSend("u1", &domain.TurnState{NextRole: "mediator"}, nil))

	// Absent state lets anyone start
	req.True(p.CanSend("u1", nil, nil))

	// Succession cycles the role order
	next := p.NextActor(&domain.TurnState{NextRole: "user_a"}, "u1", nil, nil)
	req.Equal("jordan", next.Role)
}

func TestRoleBased_InitializePinsCallersRole(t *testing.T) {
	req := require.New(t)
	p := NewRoleBased(map[string]string{"user_a": "u1", "mediator": "m1"}, []string{"user_a", "mediator"})

	state := p.Initialize("conv-1", "u1")

	req.Equal("user_a", state.NextRole)
	req.Equal([]string{"user_a", "mediator"}, state.TurnQueue)
}
