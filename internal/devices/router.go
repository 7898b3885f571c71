// Package devices is the default backend for "!alias command" routing.
// Commands for the local alias run through the shell executor. Commands for
// other devices or groups are queued until a device transport is attached.
package devices

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/isaac-sh/isaac/internal/router"
	"github.com/isaac-sh/isaac/internal/shell"
	"github.com/isaac-sh/isaac/internal/tier"
)

// Queued is a command waiting for its target to come online.
type Queued struct {
	ID       string
	Request  router.DeviceRequest
	QueuedAt time.Time
}

// Router implements router.DeviceRouter.
type Router struct {
	shell shell.Executor
	now   func() time.Time

	mu      sync.Mutex
	pending []Queued
}

// NewRouter returns a Router that runs local commands through sh.
func NewRouter(sh shell.Executor) *Router {
	return &Router{shell: sh, now: time.Now}
}

// Route executes or queues req. Lockdown-tier commands are refused for
// every target.
func (r *Router) Route(req router.DeviceRequest) router.CommandResult {
	if req.Tier >= tier.Lockdown {
		return shell.Failure(fmt.Sprintf("Isaac > Command blocked (Tier 4 - lockdown) for %s", req.Alias), -1)
	}

	switch req.Kind {
	case router.AliasLocal:
		if r.shell == nil {
			return shell.Failure("Isaac > No local shell available", -1)
		}
		return r.shell.Execute(req.Command)
	case router.AliasGroup, router.AliasDevice:
		id := r.enqueue(req)
		target := req.Alias
		if req.Kind == router.AliasGroup {
			target = "@" + target
		}
		return shell.Ok(fmt.Sprintf("Command queued (#%s) for %s - will sync when online", id, target))
	default:
		return shell.Failure("Isaac > Unknown device alias kind: "+string(req.Kind), 1)
	}
}

func (r *Router) enqueue(req router.DeviceRequest) string {
	id := uuid.NewString()[:8]
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, Queued{ID: id, Request: req, QueuedAt: r.now()})
	return id
}

// Pending returns queued commands, oldest first.
func (r *Router) Pending() []Queued {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Queued, len(r.pending))
	copy(out, r.pending)
	return out
}
