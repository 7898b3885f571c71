package router

import (
	"strings"
	"unicode"

	"github.com/isaac-sh/isaac/internal/shell"
	"github.com/isaac-sh/isaac/internal/tier"
)

const deviceUsage = "Usage: !device_alias /command\n       !device_alias:strategy /command"

var balanceNames = map[string]Balance{
	"round_robin": BalanceRoundRobin,
	"least_load":  BalanceLeastLoad,
	"weighted":    BalanceWeighted,
	"random":      BalanceRandom,
	"resource":    BalanceResource,
	"performance": BalancePerformance,
}

// deviceRoutingStrategy shares the "!" trigger with forceExecutionStrategy
// and sits behind it (40 vs 20), so Route never reaches it. It stays
// registered and is usable directly.
type deviceRoutingStrategy struct {
	base
	devices DeviceRouter
}

func (s *deviceRoutingStrategy) Name() string { return "device" }

func (s *deviceRoutingStrategy) CanHandle(input string) bool {
	return strings.HasPrefix(input, "!")
}

func (s *deviceRoutingStrategy) Help() string {
	return "Device routing: !device_alias[:strategy] <command>"
}

func (s *deviceRoutingStrategy) Execute(input string, ctx *Context) CommandResult {
	req, ok := ParseDeviceCommand(input)
	if !ok {
		return shell.Failure(deviceUsage, 1)
	}
	if s.devices == nil {
		return shell.Failure("Isaac > Device routing unavailable for "+req.Alias, 1)
	}

	req.Tier = tier.Validate
	if ctx.Classifier != nil {
		req.Tier = ctx.Classifier.Classify(req.Command)
	}
	return s.devices.Route(req)
}

// ParseDeviceCommand parses "!alias[:strategy] command". The command part
// is required.
func ParseDeviceCommand(input string) (DeviceRequest, bool) {
	if !strings.HasPrefix(input, "!") {
		return DeviceRequest{}, false
	}
	rest := strings.TrimSpace(input[1:])
	idx := strings.IndexFunc(rest, unicode.IsSpace)
	if idx <= 0 {
		return DeviceRequest{}, false
	}
	target, command := rest[:idx], strings.TrimSpace(rest[idx:])

	alias, strategy := target, BalanceLeastLoad
	if i := strings.Index(target, ":"); i >= 0 {
		alias = target[:i]
		if b, ok := balanceNames[strings.ToLower(target[i+1:])]; ok {
			strategy = b
		}
	}

	kind := AliasDevice
	switch {
	case strings.EqualFold(alias, "local") || strings.EqualFold(alias, "localhost"):
		kind = AliasLocal
	case strings.HasPrefix(alias, "@"):
		kind = AliasGroup
		alias = alias[1:]
	}
	if alias == "" {
		return DeviceRequest{}, false
	}

	return DeviceRequest{Alias: alias, Kind: kind, Strategy: strategy, Command: command}, true
}
