package types

// Role is the author role of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Sanitize maps any unknown role to RoleUser so that stored history can
// always be replayed against a provider that only accepts the known set.
func (r Role) Sanitize() Role {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return r
	default:
		return RoleUser
	}
}

func (r Role) String() string { return string(r) }
