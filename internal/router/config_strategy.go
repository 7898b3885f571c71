package router

import (
	"fmt"
	"strings"

	"github.com/isaac-sh/isaac/internal/normalize"
	"github.com/isaac-sh/isaac/internal/redact"
	"github.com/isaac-sh/isaac/internal/shell"
)

const configUsage = `Usage:
  /config set <key> <value>
  /config get <key>
  /config list
  /config status`

// configStrategy serves /config against the external ConfigStore.
// Arguments follow shell quoting, so values may contain spaces when quoted.
type configStrategy struct {
	base
	store ConfigStore
}

func (s *configStrategy) Name() string { return "config" }

func (s *configStrategy) CanHandle(input string) bool {
	return strings.HasPrefix(input, "/config")
}

func (s *configStrategy) Help() string {
	return "Configuration commands: /config set/get/list/status"
}

func (s *configStrategy) Execute(input string, ctx *Context) CommandResult {
	if s.store == nil {
		return shell.Failure("Isaac > Configuration store unavailable", 1)
	}

	words := normalize.Fields(input)
	if len(words) == 0 || words[0] != "/config" {
		return shell.Failure("Isaac > Unknown config command: "+strings.TrimSpace(input)+"\n"+configUsage, 1)
	}
	if len(words) == 1 {
		return s.status(ctx)
	}

	sub, args := strings.ToLower(words[1]), words[2:]
	switch sub {
	case "set":
		if len(args) < 2 {
			return shell.Failure("Usage: /config set <key> <value>", 1)
		}
		key, value := args[0], strings.Join(args[1:], " ")
		if err := s.store.Set(key, value); err != nil {
			return shell.Failure(fmt.Sprintf("Isaac > Failed to set %s: %v", key, err), 1)
		}
		return shell.Ok(fmt.Sprintf("Isaac > Set %s = %s", key, redact.Value(key, value)))

	case "get":
		if len(args) < 1 {
			return shell.Failure("Usage: /config get <key>", 1)
		}
		key := args[0]
		value, ok := s.store.Get(key)
		if !ok {
			return shell.Failure("Isaac > Config key not found: "+key, 1)
		}
		return shell.Ok(fmt.Sprintf("Isaac > %s = %s", key, redact.Value(key, value)))

	case "list":
		return s.list()

	case "status":
		return s.status(ctx)

	default:
		return shell.Failure("Isaac > Unknown config command: "+sub+"\n"+configUsage, 1)
	}
}

func (s *configStrategy) list() CommandResult {
	keys := s.store.Keys()
	if len(keys) == 0 {
		return shell.Ok("Isaac > No configuration values set")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Isaac > Configuration (%d keys):", len(keys))
	for _, k := range keys {
		v, _ := s.store.Get(k)
		fmt.Fprintf(&sb, "\n  %s = %s", k, redact.Value(k, v))
	}
	return shell.Ok(sb.String())
}

func (s *configStrategy) status(ctx *Context) CommandResult {
	user := "unknown"
	if ctx.Session != nil {
		user = ctx.Session.UserID()
	}
	return shell.Ok(fmt.Sprintf("Isaac > Config status: store=%s keys=%d user=%s",
		s.store.Name(), len(s.store.Keys()), user))
}
