package domain

import "strconv"

// Role distinguishes administrators from regular clients.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// ParseRole maps a stored role value to a Role, defaulting to client.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleClient
}

// User is a Telegram user known to the bot.
type User struct {
	ID          int64  `db:"id"`
	DisplayName string `db:"display_name"`
	Role        Role   `db:"role"`
}

// DisplayNameFor picks the name stored for a Telegram user: the username when
// present, otherwise a stable id-based placeholder.
func DisplayNameFor(id int64, username string) string {
	if username != "" {
		return username
	}
	return "id_" + strconv.FormatInt(id, 10)
}
