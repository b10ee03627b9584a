// Package command provides the console command tables, the registry that
// resolves names and aliases, and the line parser.
package command

// Categories for organizing commands in help output.
const (
	CategoryAccount = "account"
	CategoryRoster  = "roster"
	CategoryStory   = "story"
	CategoryBuild   = "build"
	CategoryEdit    = "edit"
	CategorySystem  = "system"
)

// Handler identifiers the console dispatches on.
const (
	HandlerLogin      = "login"
	HandlerRegister   = "register"
	HandlerQuit       = "quit"
	HandlerHelp       = "help"
	HandlerCharacters = "characters"
	HandlerShow       = "show"
	HandlerCreate     = "create"
	HandlerDelete     = "delete"
	HandlerRoll       = "roll"
	HandlerHook       = "hook"
	HandlerStory      = "story"
	HandlerContinue   = "continue"
	HandlerEdit       = "edit"
	HandlerList       = "list"
	HandlerSummary    = "summary"
	HandlerCheck      = "check"
	HandlerRestart    = "restart"
	HandlerDone       = "done"
	HandlerBack       = "back"
)

// Command defines a console command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument shape, e.g. "show <id>".
	Usage string
	// Help is the short help text.
	Help string
	// Category groups the command in help output.
	Category string
	// Handler names the console action.
	Handler string
}

// LobbyCommands returns the commands available before login.
func LobbyCommands() []Command {
	return []Command{
		{Name: "login", Usage: "login <username> <password>", Help: "connect to your account", Category: CategoryAccount, Handler: HandlerLogin},
		{Name: "register", Usage: "register <username> <password>", Help: "create an account", Category: CategoryAccount, Handler: HandlerRegister},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "list commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit"}, Usage: "quit", Help: "disconnect", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// ChronicleCommands returns the commands available once logged in.
func ChronicleCommands() []Command {
	return []Command{
		{Name: "characters", Aliases: []string{"chars"}, Usage: "characters [all]", Help: "list your characters", Category: CategoryRoster, Handler: HandlerCharacters},
		{Name: "show", Aliases: []string{"sheet"}, Usage: "show <id>", Help: "show a character sheet", Category: CategoryRoster, Handler: HandlerShow},
		{Name: "create", Usage: "create", Help: "open the character builder", Category: CategoryRoster, Handler: HandlerCreate},
		{Name: "delete", Usage: "delete <id>", Help: "delete a character", Category: CategoryRoster, Handler: HandlerDelete},
		{Name: "roll", Aliases: []string{"r"}, Usage: "roll <pool> [difficulty]", Help: "roll d10s, e.g. roll 5d10 vs 3", Category: CategoryStory, Handler: HandlerRoll},
		{Name: "hook", Usage: "hook [id]", Help: "generate a story hook", Category: CategoryStory, Handler: HandlerHook},
		{Name: "story", Usage: "story <id> <title>", Help: "open a story session", Category: CategoryStory, Handler: HandlerStory},
		{Name: "continue", Aliases: []string{"cont"}, Usage: "continue <session> <pool> [difficulty]", Help: "roll and continue the story", Category: CategoryStory, Handler: HandlerContinue},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "list commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit"}, Usage: "quit", Help: "disconnect", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// BuilderCommands returns the character builder commands. Edit commands
// share HandlerEdit and are told apart by Name.
func BuilderCommands() []Command {
	return []Command{
		{Name: "clan", Usage: "clan <name|none>", Help: "choose a clan", Category: CategoryEdit, Handler: HandlerEdit},
		{Name: "predator", Usage: "predator <name|none>", Help: "choose a predator type", Category: CategoryEdit, Handler: HandlerEdit},
		{Name: "sect", Usage: "sect <name|none>", Help: "choose a sect", Category: CategoryEdit, Handler: HandlerEdit},
		{Name: "attribute", Aliases: []string{"attr"}, Usage: "attr <name> <rating>", Help: "rate an attribute 1-5", Category: CategoryEdit, Handler: HandlerEdit},
		{Name: "skill", Usage: "skill <name> <rating>", Help: "rate a skill 0-5", Category: CategoryEdit, Handler: HandlerEdit},
		{Name: "discipline", Aliases: []string{"disc"}, Usage: "disc <name> <rating>", Help: "rate a discipline", Category: CategoryEdit, Handler: HandlerEdit},
		{Name: "background", Aliases: []string{"bg"}, Usage: "bg <name> <rating>", Help: "rate a background", Category: CategoryEdit, Handler: HandlerEdit},
		{Name: "merit", Usage: "merit <name>", Help: "toggle a merit", Category: CategoryEdit, Handler: HandlerEdit},
		{Name: "flaw", Usage: "flaw <name>", Help: "toggle a flaw", Category: CategoryEdit, Handler: HandlerEdit},
		{Name: "list", Usage: "list <table>", Help: "list clans, predators, sects, attributes, skills, disciplines, backgrounds, merits, flaws, or domains", Category: CategoryBuild, Handler: HandlerList},
		{Name: "summary", Aliases: []string{"show"}, Usage: "summary", Help: "show the draft and its points", Category: CategoryBuild, Handler: HandlerSummary},
		{Name: "check", Usage: "check", Help: "validate the draft", Category: CategoryBuild, Handler: HandlerCheck},
		{Name: "restart", Usage: "restart", Help: "discard the draft and start over", Category: CategoryBuild, Handler: HandlerRestart},
		{Name: "done", Aliases: []string{"finish"}, Usage: "done", Help: "name the character and create it", Category: CategoryBuild, Handler: HandlerDone},
		{Name: "back", Aliases: []string{"cancel", "exit"}, Usage: "back", Help: "leave the builder, keeping the draft", Category: CategorySystem, Handler: HandlerBack},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "list builder commands", Category: CategorySystem, Handler: HandlerHelp},
	}
}
