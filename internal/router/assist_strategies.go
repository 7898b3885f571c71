package router

import (
	"fmt"
	"strings"

	"github.com/isaac-sh/isaac/internal/shell"
)

const (
	taskPrefix    = "isaac task:"
	agentPrefix   = "isaac agent:"
	agenticPrefix = "isaac agentic:"
	nlPrefix      = "isaac"
)

type taskModeStrategy struct {
	base
	planner TaskPlanner
}

func (s *taskModeStrategy) Name() string { return "task" }

func (s *taskModeStrategy) CanHandle(input string) bool {
	return strings.HasPrefix(input, taskPrefix)
}

func (s *taskModeStrategy) Execute(input string, _ *Context) CommandResult {
	description := strings.TrimSpace(input[len(taskPrefix):])
	if description == "" {
		return shell.Failure("Isaac > Task description required. Usage: isaac task: <description>", 1)
	}
	if s.planner == nil {
		return notAvailable("Task mode", description, nil)
	}
	plan, err := s.planner.Plan(description)
	if err != nil {
		return notAvailable("Task mode", description, err)
	}
	return shell.Ok(plan)
}

func (s *taskModeStrategy) Help() string { return "Task mode: isaac task: <description>" }

type agenticModeStrategy struct {
	base
	agent AgentRunner
}

func (s *agenticModeStrategy) Name() string { return "agentic" }

func (s *agenticModeStrategy) CanHandle(input string) bool {
	return strings.HasPrefix(input, agentPrefix) || strings.HasPrefix(input, agenticPrefix)
}

func (s *agenticModeStrategy) Execute(input string, _ *Context) CommandResult {
	var query string
	if strings.HasPrefix(input, agenticPrefix) {
		query = input[len(agenticPrefix):]
	} else {
		query = input[len(agentPrefix):]
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return shell.Failure("Isaac > Agent query required. Usage: isaac agent: <query>", 1)
	}
	if s.agent == nil {
		return notAvailable("Agentic mode", query, nil)
	}
	out, err := s.agent.Run(query)
	if err != nil {
		return notAvailable("Agentic mode", query, err)
	}
	return shell.Ok(out)
}

func (s *agenticModeStrategy) Help() string { return "Agentic mode: isaac agent: <query>" }

func notAvailable(mode, subject string, err error) CommandResult {
	msg := fmt.Sprintf("Isaac > %s is not yet available: %s", mode, subject)
	if err != nil {
		msg += fmt.Sprintf(" (%v)", err)
	}
	return shell.Failure(msg, 1)
}

type naturalLanguageStrategy struct {
	base
	assistant Assistant
}

func (s *naturalLanguageStrategy) Name() string { return "natural-language" }

func (s *naturalLanguageStrategy) CanHandle(input string) bool {
	return len(input) >= len(nlPrefix) && strings.EqualFold(input[:len(nlPrefix)], nlPrefix)
}

func (s *naturalLanguageStrategy) Execute(input string, _ *Context) CommandResult {
	query := strings.TrimSpace(input[len(nlPrefix):])
	if query == "" {
		return shell.Failure("Usage: isaac <question>", 1)
	}
	if s.assistant == nil {
		return shell.Failure("Isaac > No AI backend configured for: "+query, 1)
	}
	answer, err := s.assistant.Ask(query)
	if err != nil {
		return shell.Failure(fmt.Sprintf("Isaac > AI query failed: %v", err), 1)
	}
	return shell.Ok(answer)
}

func (s *naturalLanguageStrategy) Help() string { return "AI queries: isaac <question>" }
