package router

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isaac-sh/isaac/internal/assist"
	"github.com/isaac-sh/isaac/internal/settings"
	"github.com/isaac-sh/isaac/internal/shell"
	"github.com/isaac-sh/isaac/internal/tier"
)

func TestConfigStrategy(t *testing.T) {
	store := settings.New(map[string]any{"theme": "dark"})
	r, sh := newTestRouter(WithConfigStore(store))

	set := r.Route("/config set foo bar")
	require.True(t, set.Success, set.Output)
	assert.Contains(t, set.Output, "foo")
	assert.Contains(t, set.Output, "bar")

	got := r.Route("/config get foo")
	assert.True(t, got.Success)
	assert.Equal(t, "Isaac > foo = bar", got.Output)

	missing := r.Route("/config set foo")
	assert.False(t, missing.Success)
	assert.NotEmpty(t, missing.Output)

	quoted := r.Route(`/config set greeting "hello world"`)
	require.True(t, quoted.Success)
	v, _ := store.Get("greeting")
	assert.Equal(t, "hello world", v)

	list := r.Route("/config list")
	assert.True(t, list.Success)
	assert.Contains(t, list.Output, "Configuration (3 keys)")
	assert.Contains(t, list.Output, "theme = dark")

	status := r.Route("/config")
	assert.True(t, status.Success)
	assert.Contains(t, status.Output, "store=memory")
	assert.Contains(t, status.Output, "user=tester")

	unknown := r.Route("/config frobnicate")
	assert.False(t, unknown.Success)
	assert.Equal(t, 1, unknown.ExitCode)

	notFound := r.Route("/config get nope")
	assert.False(t, notFound.Success)
	assert.Contains(t, notFound.Output, "Config key not found: nope")

	assert.Empty(t, sh.Calls(), "/config must never reach the shell")
}

func TestConfigStrategyRedactsSecrets(t *testing.T) {
	r, _ := newTestRouter()

	set := r.Route("/config set api_key sk-abcdefghijklmnopqrstuvwxyz")
	require.True(t, set.Success)
	assert.NotContains(t, set.Output, "sk-abcdefghijklmnopqrstuvwxyz")

	get := r.Route("/config get api_key")
	require.True(t, get.Success)
	assert.NotContains(t, get.Output, "abcdefghijklmnop")
}

func TestConfigStrategyWithoutStore(t *testing.T) {
	r := New(nil, &fakeShell{})
	result := r.Route("/config list")
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Output)
}

type fakePlanner struct {
	plan string
	err  error
	got  []string
}

func (p *fakePlanner) Plan(description string) (string, error) {
	p.got = append(p.got, description)
	return p.plan, p.err
}

func (p *fakePlanner) Run(query string) (string, error) {
	p.got = append(p.got, query)
	return p.plan, p.err
}

func TestTaskMode(t *testing.T) {
	t.Run("offline backend fails with output", func(t *testing.T) {
		r, sh := newTestRouter(WithTaskPlanner(assist.Offline{}))
		result := r.Route("isaac task: write tests")
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Output)
		assert.Contains(t, result.Output, "write tests")
		assert.Empty(t, sh.Calls())
	})

	t.Run("no planner", func(t *testing.T) {
		r, _ := newTestRouter()
		result := r.Route("isaac task: write tests")
		assert.False(t, result.Success)
		assert.Contains(t, result.Output, "Task mode is not yet available")
	})

	t.Run("empty description", func(t *testing.T) {
		r, _ := newTestRouter()
		result := r.Route("isaac task:   ")
		assert.False(t, result.Success)
		assert.Contains(t, result.Output, "Usage: isaac task:")
	})

	t.Run("planner answers", func(t *testing.T) {
		p := &fakePlanner{plan: "1. write tests\n2. run them"}
		r, _ := newTestRouter(WithTaskPlanner(p))
		result := r.Route("isaac task:   write tests ")
		assert.True(t, result.Success)
		assert.Equal(t, p.plan, result.Output)
		assert.Equal(t, []string{"write tests"}, p.got)
	})
}

func TestAgenticMode(t *testing.T) {
	p := &fakePlanner{plan: "done"}
	r, _ := newTestRouter(WithAgentRunner(p))

	assert.True(t, r.Route("isaac agent: fix build").Success)
	assert.True(t, r.Route("isaac agentic: tidy deps").Success)
	assert.Equal(t, []string{"fix build", "tidy deps"}, p.got)

	empty := r.Route("isaac agent:")
	assert.False(t, empty.Success)
	assert.Contains(t, empty.Output, "Usage: isaac agent:")

	failing, _ := newTestRouter(WithAgentRunner(&fakePlanner{err: errors.New("quota")}))
	result := failing.Route("isaac agent: fix build")
	assert.False(t, result.Success)
	assert.Contains(t, result.Output, "quota")
}

func TestNaturalLanguage(t *testing.T) {
	r, sh := newTestRouter(WithAssistant(assist.Offline{}))

	result := r.Route("ISAAC how do I list files")
	require.True(t, result.Success)
	assert.Contains(t, result.Output, "how do I list files")

	empty := r.Route("isaac")
	assert.False(t, empty.Success)
	assert.Equal(t, "Usage: isaac <question>", empty.Output)

	none, _ := newTestRouter()
	assert.False(t, none.Route("isaac hello").Success)

	assert.Empty(t, sh.Calls())
}

type fakeDevices struct {
	requests []DeviceRequest
}

func (d *fakeDevices) Route(req DeviceRequest) CommandResult {
	d.requests = append(d.requests, req)
	return shell.Ok("routed to " + req.Alias)
}

func TestDeviceStrategyDirect(t *testing.T) {
	devices := &fakeDevices{}
	r, _ := newTestRouter(WithDeviceRouter(devices))

	var device Strategy
	for _, s := range r.Strategies() {
		if s.Name() == "device" {
			device = s
		}
	}
	require.NotNil(t, device)

	// ForceExecution wins the shared "!" trigger.
	assert.Equal(t, "force", r.Match("!laptop ls").Name())

	ctx := r.newContext()
	result := device.Execute("!laptop:round_robin rm -rf /tmp/x", ctx)
	assert.True(t, result.Success)
	require.Len(t, devices.requests, 1)
	assert.Equal(t, DeviceRequest{
		Alias:    "laptop",
		Kind:     AliasDevice,
		Strategy: BalanceRoundRobin,
		Command:  "rm -rf /tmp/x",
		Tier:     tier.Lockdown,
	}, devices.requests[0])

	bad := device.Execute("!laptop", ctx)
	assert.False(t, bad.Success)
	assert.True(t, strings.HasPrefix(bad.Output, "Usage: !device_alias"))
}

func TestParseDeviceCommand(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
		want  DeviceRequest
	}{
		{"!laptop ls", true, DeviceRequest{Alias: "laptop", Kind: AliasDevice, Strategy: BalanceLeastLoad, Command: "ls"}},
		{"!local  git status", true, DeviceRequest{Alias: "local", Kind: AliasLocal, Strategy: BalanceLeastLoad, Command: "git status"}},
		{"!LocalHost pwd", true, DeviceRequest{Alias: "LocalHost", Kind: AliasLocal, Strategy: BalanceLeastLoad, Command: "pwd"}},
		{"!@build:weighted make", true, DeviceRequest{Alias: "build", Kind: AliasGroup, Strategy: BalanceWeighted, Command: "make"}},
		{"!gpu:bogus nvidia-smi", true, DeviceRequest{Alias: "gpu", Kind: AliasDevice, Strategy: BalanceLeastLoad, Command: "nvidia-smi"}},
		{"!gpu:PERFORMANCE top", true, DeviceRequest{Alias: "gpu", Kind: AliasDevice, Strategy: BalancePerformance, Command: "top"}},
		{"!laptop", false, DeviceRequest{}},
		{"!", false, DeviceRequest{}},
		{"!@ ls", false, DeviceRequest{}},
		{"!:random ls", false, DeviceRequest{}},
		{"laptop ls", false, DeviceRequest{}},
	}

	for _, tt := range tests {
		got, ok := ParseDeviceCommand(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
