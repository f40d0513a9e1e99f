package commands

// Command describes a slash command for the Telegram command menu.
// Hidden commands are routed but not advertised.
type Command struct {
	Description string
	Hidden      bool
}
