package family

import "time"

// Role constants
const (
	RoleAdmin  = "admin"
	RoleParent = "parent"
	RoleChild  = "child"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleParent, RoleChild:
		return true
	}
	return false
}

// Member is one person in the family roster.
type Member struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Invite is a pending invitation. The code is what gets sent to the invitee;
// accepting it turns the invite into a member.
type Invite struct {
	Code       string     `json:"code"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	CreatedAt  time.Time  `json:"created_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}
