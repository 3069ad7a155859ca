package domain

import "time"

// PolicyName selects the turn-taking strategy of a conversation. The set is
// closed; adding a policy means adding a variant here and in the policy package.
type PolicyName string

const (
	PolicyStrict    PolicyName = "strict"
	PolicyFlexible  PolicyName = "flexible"
	PolicyModerated PolicyName = "moderated"
	PolicyRounds    PolicyName = "rounds"
	PolicyDemoRoles PolicyName = "demo-role-based"
)

// KnownPolicy reports whether the name belongs to the closed policy set.
func KnownPolicy(name PolicyName) bool {
	switch name {
	case PolicyStrict, PolicyFlexible, PolicyModerated, PolicyRounds, PolicyDemoRoles:
		return true
	}
	return false
}

type CompletionStatus string

const (
	ConversationActive    CompletionStatus = "active"
	ConversationCompleted CompletionStatus = "completed"
)

// Settings holds the per-conversation tuning of the turn core. The moderated
// threshold and rounds interleave are empirically chosen constants kept
// configurable on purpose.
type Settings struct {
	Policy PolicyName
	// MaxConsecutive is the anti-flood ceiling of the moderated policy.
	MaxConsecutive int
	// RoundsPerAIReply is how many full human passes the rounds policy waits
	// before handing the turn to the assistant.
	RoundsPerAIReply int
	// RoleMapping binds abstract roles to concrete actor ids for the
	// demo role-based policy (e.g. "user_a" -> "u1").
	RoleMapping map[string]string
	// RoleOrder is the cycling order of roles for the demo role-based policy.
	RoleOrder []string
}

// Conversation is one mediated dialogue session.
type Conversation struct {
	ID        string
	Settings  Settings
	Status    CompletionStatus
	CreatedAt time.Time
}
