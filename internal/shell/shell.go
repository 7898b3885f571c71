// Package shell runs command lines in the host shell on behalf of the router.
package shell

import (
	"time"
)

// DefaultTimeout bounds every command started through Execute.
const DefaultTimeout = 30 * time.Second

// ExitTimeout is reported when a command is killed for exceeding its timeout.
const ExitTimeout = 124

// Result is the outcome of handling one input line. It is a plain record:
// nothing in it refers back into the router or the executor.
type Result struct {
	Success  bool   `json:"success"`
	Output   string `json:"output"`
	ExitCode int    `json:"exit_code"`
}

// Failure builds an unsuccessful result.
func Failure(output string, exitCode int) Result {
	return Result{Success: false, Output: output, ExitCode: exitCode}
}

// Ok builds a successful result with exit code 0.
func Ok(output string) Result {
	return Result{Success: true, Output: output, ExitCode: 0}
}

// Executor runs command lines. Success holds iff ExitCode is zero.
// Implementations must be safe for concurrent use when shared by a router
// used from several goroutines.
type Executor interface {
	Execute(command string) Result
	ExecuteWithTimeout(command string, timeout time.Duration) Result
}
