package policy

import (
	"sort"

	"parley/domain"
)

// RoleBased keys turns on abstract roles instead of concrete actor ids, for
// conversations where some participants are simulated. A caller's concrete id
// resolves to a role by lookup, and eligibility compares that role to the
// state's NextRole.
type RoleBased struct {
	// byRole maps role -> concrete actor id ("user_a" -> "u1").
	byRole map[string]string
	// byActor is the reverse lookup.
	byActor map[string]string
	// order is the cycling order of roles.
	order []string
}

func NewRoleBased(mapping map[string]string, order []string) RoleBased {
	byActor := make(map[string]string, len(mapping))
	for role, actorID := range mapping {
		byActor[actorID] = role
	}
	if len(order) == 0 {
		// Deterministic fallback when settings omit an explicit order.
		for role := range mapping {
			order = append(order, role)
		}
		sort.Strings(order)
	}
	return RoleBased{byRole: mapping, byActor: byActor, order: order}
}

func (RoleBased) Name() domain.PolicyName { return domain.PolicyDemoRoles }

// RoleOf resolves a concrete actor id to its abstract role, "" when unmapped.
func (p RoleBased) RoleOf(actorID string) string {
	return p.byActor[actorID]
}

// ActorFor resolves a role to its concrete actor id, "" when unmapped.
func (p RoleBased) ActorFor(role string) string {
	return p.byRole[role]
}

func (p RoleBased) CanSend(actorID string, state *domain.TurnState, _ []domain.Message) bool {
	if state == nil || state.NextRole == "" {
		return true
	}
	return p.RoleOf(actorID) == state.NextRole
}

func (p RoleBased) NextActor(state *domain.TurnState, lastSenderID string, _ []domain.Participant, _ []domain.Message) *ActorRef {
	if len(p.order) == 0 {
		return nil
	}
	last := p.RoleOf(lastSenderID)
	if last == "" && state != nil {
		last = state.NextRole
	}
	i := indexOf(p.order, last)
	return &ActorRef{Role: p.order[(i+1)%len(p.order)]}
}

func (p RoleBased) Initialize(conversationID, firstActorID string) domain.TurnState {
	state := initialState(conversationID, "")
	state.TurnQueue = append([]string(nil), p.order...)
	if role := p.RoleOf(firstActorID); role != "" {
		state.NextRole = role
	} else if len(p.order) > 0 {
		state.NextRole = p.order[0]
	}
	return state
}
