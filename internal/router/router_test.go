package router

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isaac-sh/isaac/internal/session"
	"github.com/isaac-sh/isaac/internal/settings"
	"github.com/isaac-sh/isaac/internal/shell"
)

// fakeShell records every command it is asked to run.
type fakeShell struct {
	mu     sync.Mutex
	calls  []string
	result *shell.Result
}

func (f *fakeShell) Execute(command string) shell.Result {
	return f.ExecuteWithTimeout(command, shell.DefaultTimeout)
}

func (f *fakeShell) ExecuteWithTimeout(command string, _ time.Duration) shell.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, command)
	if f.result != nil {
		return *f.result
	}
	return shell.Ok("ran: " + command)
}

func (f *fakeShell) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func newTestRouter(opts ...Option) (*Router, *fakeShell) {
	sh := &fakeShell{}
	opts = append([]Option{WithConfigStore(settings.New(nil))}, opts...)
	return New(session.NewWithUser("tester"), sh, opts...), sh
}

func TestRoute_Totality(t *testing.T) {
	r, _ := newTestRouter()

	inputs := []string{
		"", " ", "ls", "|", "!", "/", "/config", "isaac", "isaac task:", "cd",
		"exit", "rm -rf /", "weird \x00 bytes", "ïsaac", strings.Repeat("x", 4096),
	}
	for _, in := range inputs {
		result := r.Route(in)
		if !result.Success {
			assert.NotEmpty(t, result.Output, "input %q: failure must explain itself", in)
			assert.NotZero(t, result.ExitCode, "input %q: failure must carry a non-zero exit code", in)
		}
	}
}

func TestRouter_LazyLoadOnce(t *testing.T) {
	r, _ := newTestRouter()
	assert.False(t, r.Loaded())

	r.Route("ls")
	require.True(t, r.Loaded())

	first := r.Strategies()
	r.Route("pwd")
	second := r.Strategies()
	require.Len(t, second, len(first))
	for i := range first {
		assert.Same(t, first[i], second[i], "strategies must be built once")
	}
}

func TestRouter_HelpTriggersLoad(t *testing.T) {
	r, _ := newTestRouter()
	help := r.Help()
	assert.True(t, r.Loaded())
	assert.True(t, strings.HasPrefix(help, "Isaac Command Router - Available command types:\n"))
	assert.Contains(t, help, "Pipe commands: cmd1 | cmd2")
	assert.Contains(t, help, "Shell commands with safety validation")
	assert.NotContains(t, help, "not implemented")

	// Dispatch order: pipe before cd before the tier default.
	pipe := strings.Index(help, "Pipe commands")
	cd := strings.Index(help, "Change directory")
	def := strings.Index(help, "Shell commands with safety validation")
	assert.Less(t, pipe, cd)
	assert.Less(t, cd, def)
}

func TestRouter_ConcurrentFirstUse(t *testing.T) {
	r, _ := newTestRouter()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Route(fmt.Sprintf("echo %d", i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.Strategies(), 13)
}

func TestRouter_StrategyOrder(t *testing.T) {
	r, _ := newTestRouter()

	var names []string
	var priorities []int
	for _, s := range r.Strategies() {
		names = append(names, s.Name())
		priorities = append(priorities, s.Priority())
	}

	assert.Equal(t, []string{
		"pipe", "cd", "force", "exit", "config", "device", "exit-blocker",
		"task", "agentic", "meta", "natural-language", "unix-alias", "tier",
	}, names)
	assert.Equal(t, []int{10, 15, 20, 25, 35, 40, 40, 45, 48, 50, 55, 60, 100}, priorities)
}

func TestRouter_Match(t *testing.T) {
	r, _ := newTestRouter()

	tests := []struct {
		input string
		want  string
	}{
		{"ls | grep go", "pipe"},
		{"cd | cat", "pipe"},
		{"!ls | wc -l", "pipe"},
		{"/config set a|b c", "pipe"},
		{"isaac task: a | b", "pipe"},
		{"cd", "cd"},
		{"cd /tmp", "cd"},
		{"cdx", "tier"},
		{"!ls", "force"},
		{"!laptop ls", "force"},
		{"EXIT", "exit"},
		{"/q", "exit"},
		{"/config list", "config"},
		{"isaac task: deploy", "task"},
		{"isaac agent: fix", "agentic"},
		{"isaac agentic: fix", "agentic"},
		{"/help", "meta"},
		{"Isaac what is go", "natural-language"},
		{"Isaac task: deploy", "natural-language"},
		{"ls -la", "tier"},
		{"", "tier"},
	}

	for _, tt := range tests {
		s := r.Match(tt.input)
		require.NotNil(t, s, "input %q", tt.input)
		assert.Equal(t, tt.want, s.Name(), "input %q", tt.input)
	}
}

func TestRoute_PipeDelegatesVerbatim(t *testing.T) {
	r, sh := newTestRouter()

	result := r.Route("rm -rf / | cat")
	assert.True(t, result.Success)
	assert.Equal(t, []string{"rm -rf / | cat"}, sh.Calls())
}

func TestRoute_ChangeDirectory(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"cd", "cd ~"},
		{"cd ", "cd ~"},
		{"cd /tmp", "cd /tmp"},
		{"cd   /var/log  ", "cd /var/log"},
		{`cd "my dir"`, `cd 'my dir'`},
		{`cd 'a;b'`, `cd 'a;b'`},
		{`cd "x|y"`, `cd 'x|y'`},
		{`cd 'a&&b'`, `cd 'a&&b'`},
		{`cd "it's"`, `cd 'it'\''s'`},
		{`cd '*'`, `cd '*'`},
		{`cd "~/my dir"`, `cd ~/'my dir'`},
		{"cd ~/src", "cd ~/src"},
		{"cd ../up-1_x.y", "cd ../up-1_x.y"},
	}

	for _, tt := range tests {
		r, sh := newTestRouter()
		r.Route(tt.input)
		assert.Equal(t, []string{tt.want}, sh.Calls(), "input %q", tt.input)
	}
}

func TestRoute_ForceExecutionBypassesTiers(t *testing.T) {
	r, sh := newTestRouter()

	result := r.Route("!  rm -rf /tmp/build")
	assert.True(t, result.Success)
	assert.Equal(t, []string{"rm -rf /tmp/build"}, sh.Calls())

	result = r.Route("!")
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.ExitCode)
	assert.Len(t, sh.Calls(), 1)
}

func TestRoute_ExitDoesNotExecute(t *testing.T) {
	r, sh := newTestRouter()

	for _, in := range []string{"exit", "Quit", "q", "/exit", "/QUIT", "/q"} {
		result := r.Route(in)
		assert.Equal(t, CommandResult{Success: true, Output: "Isaac > Goodbye!", ExitCode: 0}, result, "input %q", in)
	}
	assert.Empty(t, sh.Calls())
}

func TestIsExitCommand(t *testing.T) {
	assert.True(t, IsExitCommand("exit"))
	assert.True(t, IsExitCommand("/Q"))
	assert.False(t, IsExitCommand("exit now"))
	assert.False(t, IsExitCommand(" exit"))
}

func TestRoute_TierExecution(t *testing.T) {
	tests := []struct {
		input    string
		calls    int
		success  bool
		prefix   string
		exitCode int
	}{
		{"ls -la", 1, true, "ran: ls -la", 0},
		{"grep x", 1, true, "ran: grep x", 0},
		{"find .", 1, true, "Isaac > Confirmation required for Tier 2.5 command\n", 0},
		{"git status", 1, true, "Isaac > Warning: Tier 3 command executed\n", 0},
		{"unknown-tool", 1, true, "Isaac > Warning: Tier 3 command executed\n", 0},
		{"rm -rf /", 0, false, "Isaac > Command blocked (Tier 4 - lockdown)", -1},
		{"DD if=/dev/zero", 0, false, "Isaac > Command blocked", -1},
	}

	for _, tt := range tests {
		r, sh := newTestRouter()
		result := r.Route(tt.input)
		assert.Len(t, sh.Calls(), tt.calls, "input %q", tt.input)
		assert.Equal(t, tt.success, result.Success, "input %q", tt.input)
		assert.Equal(t, tt.exitCode, result.ExitCode, "input %q", tt.input)
		assert.True(t, strings.HasPrefix(result.Output, tt.prefix), "input %q: output %q", tt.input, result.Output)
	}
}

func TestRoute_TierAnnotationKeepsShellFailure(t *testing.T) {
	r, sh := newTestRouter()
	sh.result = &shell.Result{Success: false, Output: "fatal: not a git repository", ExitCode: 128}

	result := r.Route("git status")
	assert.False(t, result.Success)
	assert.Equal(t, 128, result.ExitCode)
	assert.Equal(t, "Isaac > Warning: Tier 3 command executed\nfatal: not a git repository", result.Output)
}

func TestRoute_LockdownNeverReachesShell(t *testing.T) {
	r, sh := newTestRouter()
	for _, in := range []string{"rm -rf /", "rm file", "del x", "format c:", "Clear-Disk 1"} {
		result := r.Route(in)
		assert.False(t, result.Success, "input %q", in)
	}
	assert.Empty(t, sh.Calls())
}

func TestRoute_MetaCommands(t *testing.T) {
	r, sh := newTestRouter()

	help := r.Route("/help")
	assert.True(t, help.Success)
	assert.Equal(t, r.Help(), help.Output)

	status := r.Route("/STATUS")
	assert.True(t, status.Success)
	assert.Contains(t, status.Output, "System status")

	unknown := r.Route("/bogus")
	assert.False(t, unknown.Success)
	assert.Equal(t, -1, unknown.ExitCode)
	assert.Contains(t, unknown.Output, "Unknown meta command: bogus")

	assert.Empty(t, sh.Calls())
}

func TestRoute_Idempotent(t *testing.T) {
	r, _ := newTestRouter()

	for _, in := range []string{"ls", "find .", "rm -rf /", "/status", "/config get missing", "isaac task: x"} {
		first := r.Route(in)
		second := r.Route(in)
		assert.Equal(t, first, second, "input %q", in)
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	events []Event
}

func (o *recordingObserver) Routed(ev Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
}

func TestRoute_NotifiesObserver(t *testing.T) {
	obs := &recordingObserver{}
	r, _ := newTestRouter(WithObserver(obs))

	r.Route("rm -rf /")
	r.Route("/status")

	require.Len(t, obs.events, 2)
	assert.Equal(t, "tier", obs.events[0].Strategy)
	assert.EqualValues(t, 4, obs.events[0].Tier)
	assert.False(t, obs.events[0].Result.Success)
	assert.Equal(t, "meta", obs.events[1].Strategy)
}

// stubStrategy is an extension registered through WithStrategies.
type stubStrategy struct {
	name     string
	priority int
	match    string
	panics   bool
}

func (s *stubStrategy) Name() string                { return s.name }
func (s *stubStrategy) CanHandle(input string) bool { return strings.HasPrefix(input, s.match) }
func (s *stubStrategy) Priority() int               { return s.priority }
func (s *stubStrategy) Help() string                { return "" }

func (s *stubStrategy) Execute(input string, _ *Context) CommandResult {
	if s.panics {
		panic(errors.New("boom"))
	}
	return shell.Ok(s.name + " handled " + input)
}

func TestRouter_ExtraStrategies(t *testing.T) {
	early := &stubStrategy{name: "early", priority: 5, match: "deploy"}
	tie := &stubStrategy{name: "tie", priority: 50, match: "/"}
	r, _ := newTestRouter(WithStrategies(early, tie))

	assert.Equal(t, "early handled deploy prod", r.Route("deploy prod").Output)

	// Equal priority: the built-in meta strategy was registered first.
	assert.Equal(t, "meta", r.Match("/status").Name())
}

func TestRouter_StrategyPanicBecomesFailure(t *testing.T) {
	r, _ := newTestRouter(WithStrategies(&stubStrategy{name: "bad", priority: 1, match: "crash", panics: true}))

	result := r.Route("crash now")
	assert.False(t, result.Success)
	assert.Equal(t, -1, result.ExitCode)
	assert.Contains(t, result.Output, "bad strategy failed: boom")
}
