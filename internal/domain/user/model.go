package user

import "time"

// User is an account owner resolved by email. Conversations and prompts
// belong to exactly one user.
type User struct {
	ID        uint
	PublicID  string
	Email     string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
