// Package router decides how each line of user input is handled. A
// priority-ordered list of strategies is consulted and the first one whose
// predicate accepts the input handles it. The catch-all tier strategy
// classifies shell commands into safety tiers before running them.
package router

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/isaac-sh/isaac/internal/session"
	"github.com/isaac-sh/isaac/internal/shell"
	"github.com/isaac-sh/isaac/internal/tier"
)

// Router owns the strategy registry. The registry is built lazily, exactly
// once, on the first Route, Help, Strategies or Match call; after that it is
// read-only and Route may be called from several goroutines, provided the
// shell executor is itself safe for concurrent use.
type Router struct {
	session    session.Session
	shell      shell.Executor
	classifier *tier.Classifier

	config    ConfigStore
	devices   DeviceRouter
	planner   TaskPlanner
	agent     AgentRunner
	assistant Assistant
	observer  Observer
	extra     []Strategy

	once       sync.Once
	loaded     atomic.Bool
	strategies []Strategy
}

// Option configures a Router.
type Option func(*Router)

// WithClassifier sets the tier classifier. The default uses the built-in
// rule table.
func WithClassifier(c *tier.Classifier) Option {
	return func(r *Router) { r.classifier = c }
}

func WithConfigStore(s ConfigStore) Option {
	return func(r *Router) { r.config = s }
}

func WithDeviceRouter(d DeviceRouter) Option {
	return func(r *Router) { r.devices = d }
}

func WithTaskPlanner(p TaskPlanner) Option {
	return func(r *Router) { r.planner = p }
}

func WithAgentRunner(a AgentRunner) Option {
	return func(r *Router) { r.agent = a }
}

func WithAssistant(a Assistant) Option {
	return func(r *Router) { r.assistant = a }
}

// WithObserver registers a callback for every dispatch.
func WithObserver(o Observer) Option {
	return func(r *Router) { r.observer = o }
}

// WithStrategies registers additional strategies. They are sorted together
// with the built-ins; on equal priority the built-ins come first, then the
// extras in the order given.
func WithStrategies(extra ...Strategy) Option {
	return func(r *Router) { r.extra = append(r.extra, extra...) }
}

// New creates a router bound to the given session and shell. No strategy is
// constructed until the router is first used.
func New(sess session.Session, sh shell.Executor, opts ...Option) *Router {
	r := &Router{session: sess, shell: sh}
	for _, opt := range opts {
		opt(r)
	}
	if r.classifier == nil {
		r.classifier = tier.NewClassifier("")
	}
	return r
}

// Classifier returns the classifier shared with strategies.
func (r *Router) Classifier() *tier.Classifier {
	return r.classifier
}

// Loaded reports whether the strategy registry has been built.
func (r *Router) Loaded() bool {
	return r.loaded.Load()
}

func (r *Router) ensureLoaded() {
	r.once.Do(func() {
		r.strategies = r.buildStrategies()
		r.loaded.Store(true)
	})
}

func (r *Router) buildStrategies() []Strategy {
	b := func(priority int) base {
		return base{session: r.session, shell: r.shell, priority: priority}
	}

	list := []Strategy{
		&pipeStrategy{base: b(10)},
		&changeDirectoryStrategy{base: b(15)},
		&forceExecutionStrategy{base: b(20)},
		&exitQuitStrategy{base: b(25)},
		&configStrategy{base: b(35), store: r.config},
		&deviceRoutingStrategy{base: b(40), devices: r.devices},
		&exitBlockerStrategy{base: b(40)},
		&taskModeStrategy{base: b(45), planner: r.planner},
		&agenticModeStrategy{base: b(48), agent: r.agent},
		&metaCommandStrategy{base: b(50)},
		&naturalLanguageStrategy{base: b(55), assistant: r.assistant},
		&unixAliasStrategy{base: b(60)},
		&tierExecutionStrategy{base: b(100)},
	}
	list = append(list, r.extra...)

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority() < list[j].Priority()
	})
	return list
}

func (r *Router) newContext() *Context {
	return &Context{
		Router:     r,
		Classifier: r.classifier,
		Shell:      r.shell,
		Session:    r.session,
	}
}

// Route dispatches input to the first strategy that accepts it and returns
// that strategy's result. It always returns exactly one result.
func (r *Router) Route(input string) CommandResult {
	r.ensureLoaded()
	start := time.Now()
	ctx := r.newContext()

	for _, s := range r.strategies {
		if s.CanHandle(input) {
			result := execute(s, input, ctx)
			r.notify(input, s.Name(), result, start)
			return result
		}
	}

	// Unreachable while the tier strategy accepts everything.
	result := shell.Failure("Isaac > No strategy could handle command", -1)
	r.notify(input, "", result, start)
	return result
}

// execute converts a panicking strategy into a failure result so nothing
// escapes Route.
func execute(s Strategy, input string, ctx *Context) (result CommandResult) {
	defer func() {
		if p := recover(); p != nil {
			result = shell.Failure(fmt.Sprintf("Isaac > %s strategy failed: %v", s.Name(), p), -1)
		}
	}()
	return s.Execute(input, ctx)
}

func (r *Router) notify(input, name string, result CommandResult, start time.Time) {
	if r.observer == nil {
		return
	}
	r.observer.Routed(Event{
		Input:    input,
		Strategy: name,
		Tier:     r.classifier.Classify(input),
		Result:   result,
		Duration: time.Since(start),
	})
}

// Match returns the strategy that would handle input.
func (r *Router) Match(input string) Strategy {
	r.ensureLoaded()
	for _, s := range r.strategies {
		if s.CanHandle(input) {
			return s
		}
	}
	return nil
}

// Strategies returns the registry in dispatch order.
func (r *Router) Strategies() []Strategy {
	r.ensureLoaded()
	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

// Help lists every non-empty strategy help text in dispatch order.
func (r *Router) Help() string {
	r.ensureLoaded()
	var sb strings.Builder
	sb.WriteString("Isaac Command Router - Available command types:\n")
	for _, s := range r.strategies {
		if h := s.Help(); h != "" {
			fmt.Fprintf(&sb, "  • %s\n", h)
		}
	}
	return sb.String()
}
