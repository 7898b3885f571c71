// Package assist provides the backends used for task, agent and
// natural-language input when no AI service is connected.
package assist

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable is returned by Offline for work that needs a live backend.
var ErrUnavailable = errors.New("no AI backend connected")

// Offline answers every request locally. Plan and Run always fail with
// ErrUnavailable; Ask echoes the query back so the caller still gets a
// readable reply.
type Offline struct{}

// Plan implements router.TaskPlanner.
func (Offline) Plan(description string) (string, error) {
	return "", fmt.Errorf("plan %q: %w", description, ErrUnavailable)
}

// Run implements router.AgentRunner.
func (Offline) Run(query string) (string, error) {
	return "", fmt.Errorf("agent %q: %w", query, ErrUnavailable)
}

// Ask implements router.Assistant.
func (Offline) Ask(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("empty query")
	}
	return "Isaac > AI response (offline): " + query, nil
}
