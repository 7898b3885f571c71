package router

import (
	"strings"
	"unicode"

	"github.com/isaac-sh/isaac/internal/normalize"
	"github.com/isaac-sh/isaac/internal/shell"
	"github.com/isaac-sh/isaac/internal/tier"
)

// pipeStrategy hands pipelines to the shell verbatim.
type pipeStrategy struct{ base }

func (s *pipeStrategy) Name() string { return "pipe" }

func (s *pipeStrategy) CanHandle(input string) bool {
	return strings.Contains(input, "|")
}

func (s *pipeStrategy) Execute(input string, ctx *Context) CommandResult {
	return ctx.Shell.Execute(input)
}

func (s *pipeStrategy) Help() string { return "Pipe commands: cmd1 | cmd2" }

type changeDirectoryStrategy struct{ base }

func (s *changeDirectoryStrategy) Name() string { return "cd" }

func (s *changeDirectoryStrategy) CanHandle(input string) bool {
	return strings.HasPrefix(input, "cd ") || input == "cd"
}

func (s *changeDirectoryStrategy) Execute(input string, ctx *Context) CommandResult {
	return ctx.Shell.Execute("cd " + quoteArg(changeDirectoryTarget(input)))
}

func (s *changeDirectoryStrategy) Help() string { return "Change directory: cd <path>" }

// changeDirectoryTarget returns the directory named by a cd line, "~" when
// none is given.
func changeDirectoryTarget(input string) string {
	words := normalize.Fields(input)
	if len(words) < 2 || words[1] == "" {
		return "~"
	}
	return words[1]
}

// quoteArg single-quotes arg unless every character is one the shell
// passes through as-is. A leading "~" or "~/" stays unquoted so it expands.
func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	prefix, rest := "", arg
	switch {
	case arg == "~":
		return arg
	case strings.HasPrefix(arg, "~/"):
		prefix, rest = "~/", arg[2:]
	}
	if rest == "" || strings.IndexFunc(rest, unsafeShellRune) < 0 {
		return arg
	}
	return prefix + "'" + strings.ReplaceAll(rest, "'", `'\''`) + "'"
}

func unsafeShellRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("_@%+=:,./-", r)
}

// forceExecutionStrategy runs "!cmd" without tier validation.
type forceExecutionStrategy struct{ base }

func (s *forceExecutionStrategy) Name() string { return "force" }

func (s *forceExecutionStrategy) CanHandle(input string) bool {
	return strings.HasPrefix(input, "!")
}

func (s *forceExecutionStrategy) Execute(input string, ctx *Context) CommandResult {
	command := strings.TrimLeftFunc(input[1:], unicode.IsSpace)
	if strings.TrimSpace(command) == "" {
		return shell.Failure("Usage: !<command>", 1)
	}
	return ctx.Shell.Execute(command)
}

func (s *forceExecutionStrategy) Help() string { return "Force execute: !command" }

// tierExecutionStrategy is the catch-all: classify, then block, annotate or
// run.
type tierExecutionStrategy struct{ base }

func (s *tierExecutionStrategy) Name() string { return "tier" }

func (s *tierExecutionStrategy) CanHandle(string) bool { return true }

func (s *tierExecutionStrategy) Execute(input string, ctx *Context) CommandResult {
	t := ctx.Classifier.Classify(input)

	switch {
	case t >= tier.Lockdown:
		return shell.Failure("Isaac > Command blocked (Tier 4 - lockdown)", -1)
	case t >= tier.Validate:
		// No interactive validation exists yet; the command runs with a warning.
		return annotate(ctx.Shell.Execute(input), "Isaac > Warning: Tier 3 command executed")
	case t == tier.Confirm:
		// Advisory only: there is no confirmation gate in the core.
		return annotate(ctx.Shell.Execute(input), "Isaac > Confirmation required for Tier 2.5 command")
	default:
		return ctx.Shell.Execute(input)
	}
}

func (s *tierExecutionStrategy) Help() string { return "Shell commands with safety validation" }

func annotate(result CommandResult, note string) CommandResult {
	result.Output = note + "\n" + result.Output
	return result
}
