package router

import (
	"strings"

	"github.com/isaac-sh/isaac/internal/shell"
)

var exitCommands = map[string]bool{
	"exit": true, "quit": true, "q": true,
	"/exit": true, "/quit": true, "/q": true,
}

// IsExitCommand reports whether input asks to leave the shell. The router
// only acknowledges it; ending the process is up to the caller.
func IsExitCommand(input string) bool {
	return exitCommands[strings.ToLower(input)]
}

type exitQuitStrategy struct{ base }

func (s *exitQuitStrategy) Name() string { return "exit" }

func (s *exitQuitStrategy) CanHandle(input string) bool { return IsExitCommand(input) }

func (s *exitQuitStrategy) Execute(string, *Context) CommandResult {
	return shell.Ok("Isaac > Goodbye!")
}

func (s *exitQuitStrategy) Help() string { return "Exit shell: exit, quit, q" }

// exitBlockerStrategy reserves its slot in the registry; it never matches.
type exitBlockerStrategy struct{ base }

func (s *exitBlockerStrategy) Name() string { return "exit-blocker" }

func (s *exitBlockerStrategy) CanHandle(string) bool { return false }

func (s *exitBlockerStrategy) Execute(string, *Context) CommandResult {
	return shell.Failure("Exit blocker strategy not implemented", -1)
}

func (s *exitBlockerStrategy) Help() string { return "" }

// unixAliasStrategy reserves its slot in the registry; it never matches.
type unixAliasStrategy struct{ base }

func (s *unixAliasStrategy) Name() string { return "unix-alias" }

func (s *unixAliasStrategy) CanHandle(string) bool { return false }

func (s *unixAliasStrategy) Execute(string, *Context) CommandResult {
	return shell.Failure("Unix alias strategy not implemented", -1)
}

func (s *unixAliasStrategy) Help() string { return "" }

type metaCommandStrategy struct{ base }

func (s *metaCommandStrategy) Name() string { return "meta" }

func (s *metaCommandStrategy) CanHandle(input string) bool {
	return strings.HasPrefix(input, "/")
}

func (s *metaCommandStrategy) Execute(input string, ctx *Context) CommandResult {
	command := strings.ToLower(strings.TrimSpace(input[1:]))

	switch command {
	case "help":
		return shell.Ok(ctx.Router.Help())
	case "status":
		return shell.Ok("Isaac > System status: Go core active")
	default:
		return shell.Failure("Isaac > Unknown meta command: "+command, -1)
	}
}

func (s *metaCommandStrategy) Help() string { return "Meta commands: /help, /status, etc." }
