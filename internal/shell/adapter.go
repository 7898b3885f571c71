package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/isaac-sh/isaac/internal/normalize"
)

// waitDelay bounds how long output pipes may stay open after the shell
// exits or is killed; descendants still holding them are cut off.
const waitDelay = 2 * time.Second

// Adapter executes command lines through the platform shell. It tracks its
// own working directory so that `cd` persists across calls.
type Adapter struct {
	name    string
	argv    []string
	timeout time.Duration

	mu  sync.Mutex
	dir string
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTimeout sets the timeout used by Execute.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithDir sets the initial working directory.
func WithDir(dir string) Option {
	return func(a *Adapter) {
		a.dir = dir
	}
}

// WithInterpreter overrides shell detection. argv is the interpreter and its
// flags; the command line is appended as the final argument.
func WithInterpreter(name string, argv ...string) Option {
	return func(a *Adapter) {
		a.name = name
		a.argv = argv
	}
}

// NewAdapter detects the host shell and returns an adapter using it.
func NewAdapter(opts ...Option) *Adapter {
	a := &Adapter{timeout: DefaultTimeout}
	a.name, a.argv = detectShell()
	if cwd, err := os.Getwd(); err == nil {
		a.dir = cwd
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func detectShell() (string, []string) {
	if runtime.GOOS == "windows" {
		if _, err := exec.LookPath("pwsh"); err == nil {
			return "PowerShell Core", []string{"pwsh", "-NoProfile", "-Command"}
		}
		return "PowerShell", []string{"powershell.exe", "-NoProfile", "-Command"}
	}
	if _, err := exec.LookPath("bash"); err == nil {
		return "bash", []string{"bash", "-c"}
	}
	return "sh", []string{"sh", "-c"}
}

// Name returns the display name of the shell in use.
func (a *Adapter) Name() string {
	return a.name
}

// IsAvailable reports whether the shell binary can be found.
func (a *Adapter) IsAvailable() bool {
	if len(a.argv) == 0 {
		return false
	}
	_, err := exec.LookPath(a.argv[0])
	return err == nil
}

// Dir returns the current working directory of the adapter.
func (a *Adapter) Dir() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dir
}

// Execute runs command with the adapter's default timeout.
func (a *Adapter) Execute(command string) Result {
	return a.ExecuteWithTimeout(command, a.timeout)
}

// ExecuteWithTimeout runs command, killing it (and its process group where
// supported) once timeout elapses. A non-positive timeout uses the default.
func (a *Adapter) ExecuteWithTimeout(command string, timeout time.Duration) Result {
	if timeout <= 0 {
		timeout = a.timeout
	}

	if target, ok := changeDirTarget(command); ok {
		return a.changeDir(target)
	}

	if len(a.argv) == 0 {
		return Failure("Isaac > Failed to execute command: no shell interpreter configured", -1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	args := append(append([]string{}, a.argv[1:]...), command)
	cmd := exec.CommandContext(ctx, a.argv[0], args...)
	cmd.Dir = a.Dir()
	cmd.WaitDelay = waitDelay

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	configureProcess(cmd)

	err := cmd.Run()
	reapProcess(cmd)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		msg := fmt.Sprintf("Isaac > Command timed out after %s", timeout)
		if out.Len() > 0 {
			msg = out.String() + "\n" + msg
		}
		return Failure(msg, ExitTimeout)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{Success: false, Output: out.String(), ExitCode: exitErr.ExitCode()}
		}
		if errors.Is(err, exec.ErrWaitDelay) {
			return Ok(out.String())
		}
		return Failure(fmt.Sprintf("Isaac > Failed to execute command: %v", err), -1)
	}

	return Ok(out.String())
}

// changeDirTarget recognizes a `cd [dir]` line the adapter can apply
// itself. Anything else, including `cd /tmp;pwd` or `cd $HOME`, is left to
// the shell.
func changeDirTarget(command string) (string, bool) {
	words, ok := normalize.Literal(command)
	if !ok || words[0] != "cd" || len(words) > 2 {
		return "", false
	}
	if len(words) == 1 {
		return "~", true
	}
	return words[1], true
}

func (a *Adapter) changeDir(target string) Result {
	homeDir, _ := os.UserHomeDir()

	a.mu.Lock()
	defer a.mu.Unlock()

	path := normalize.ExpandPath(target, a.dir, homeDir)
	info, err := os.Stat(path)
	if err != nil {
		return Failure(fmt.Sprintf("cd: %s: no such file or directory", target), 1)
	}
	if !info.IsDir() {
		return Failure(fmt.Sprintf("cd: %s: not a directory", target), 1)
	}

	a.dir = path
	return Ok("")
}
