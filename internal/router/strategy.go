package router

import (
	"time"

	"github.com/isaac-sh/isaac/internal/session"
	"github.com/isaac-sh/isaac/internal/shell"
	"github.com/isaac-sh/isaac/internal/tier"
)

// CommandResult is the single record produced for every routed input.
type CommandResult = shell.Result

// Strategy is one handling policy. Strategies are immutable once built:
// they hold only their construction-time collaborators and a fixed priority.
// Lower priorities are consulted first.
type Strategy interface {
	// Name identifies the strategy in logs and audit records.
	Name() string
	CanHandle(input string) bool
	// Execute must always return a result; it never panics on bad input.
	Execute(input string, ctx *Context) CommandResult
	Priority() int
	// Help returns a one-line description, or "" to stay out of the listing.
	Help() string
}

// HelpLister is the only capability strategies get from the router.
type HelpLister interface {
	Help() string
}

// Context is built for each Route call. It shares the router's
// collaborators rather than copying them. Router is a non-owning reference
// limited to HelpLister; strategies must not keep the Context after Execute
// returns.
type Context struct {
	Router     HelpLister
	Classifier *tier.Classifier
	Shell      shell.Executor
	Session    session.Session
}

// ConfigStore is the external key/value store behind /config.
type ConfigStore interface {
	Name() string
	Set(key, value string) error
	Get(key string) (string, bool)
	Keys() []string
}

// AliasKind classifies the target of a device-routing command.
type AliasKind string

const (
	AliasLocal  AliasKind = "local"
	AliasGroup  AliasKind = "group"
	AliasDevice AliasKind = "device"
)

// Balance is the load-balancing strategy requested with !alias:strategy.
type Balance string

const (
	BalanceRoundRobin  Balance = "round_robin"
	BalanceLeastLoad   Balance = "least_load"
	BalanceWeighted    Balance = "weighted"
	BalanceRandom      Balance = "random"
	BalanceResource    Balance = "resource"
	BalancePerformance Balance = "performance"
)

// DeviceRequest is handed to the DeviceRouter for !alias commands.
type DeviceRequest struct {
	Alias    string
	Kind     AliasKind
	Strategy Balance
	Command  string
	Tier     tier.Tier
}

// DeviceRouter is the external multi-device routing backend.
type DeviceRouter interface {
	Route(req DeviceRequest) CommandResult
}

// TaskPlanner turns a task description into a plan.
type TaskPlanner interface {
	Plan(description string) (string, error)
}

// AgentRunner runs an agentic query.
type AgentRunner interface {
	Run(query string) (string, error)
}

// Assistant answers natural-language queries.
type Assistant interface {
	Ask(query string) (string, error)
}

// Event describes one dispatch, reported to the Observer after the
// strategy returns.
type Event struct {
	Input    string
	Strategy string
	Tier     tier.Tier
	Result   CommandResult
	Duration time.Duration
}

// Observer receives an Event for every routed input. It is called
// synchronously and must be safe for concurrent use.
type Observer interface {
	Routed(ev Event)
}

// base carries what every built-in strategy is constructed with.
type base struct {
	session  session.Session
	shell    shell.Executor
	priority int
}

func (b base) Priority() int { return b.priority }
