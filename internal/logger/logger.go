package logger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/isaac-sh/isaac/internal/redact"
	"github.com/isaac-sh/isaac/internal/router"
	"github.com/isaac-sh/isaac/internal/tier"
)

// defaultMaxLogBytes is the size at which the log is moved to <path>.1.
const defaultMaxLogBytes = 10 << 20

type AuditEvent struct {
	Timestamp  string     `json:"timestamp"`
	Input      string     `json:"input"`
	Strategy   string     `json:"strategy"`
	Tier       *tier.Tier `json:"tier,omitempty"`
	Success    bool       `json:"success"`
	ExitCode   int        `json:"exit_code"`
	DurationMS int64      `json:"duration_ms"`
	User       string     `json:"user,omitempty"`
	Session    string     `json:"session,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type AuditLogger struct {
	path     string
	maxBytes int64
	user     string
	session  string
	warn     io.Writer

	file *os.File
	mu   sync.Mutex
}

type Option func(*AuditLogger)

// WithIdentity stamps every record with the given user and session.
func WithIdentity(user, session string) Option {
	return func(l *AuditLogger) {
		l.user = user
		l.session = session
	}
}

// WithWarnings sets where Routed reports write failures. Default stderr.
func WithWarnings(w io.Writer) Option {
	return func(l *AuditLogger) { l.warn = w }
}

func New(path string, opts ...Option) (*AuditLogger, error) {
	l := &AuditLogger{path: path, maxBytes: defaultMaxLogBytes, warn: os.Stderr}
	for _, opt := range opts {
		opt(l)
	}

	file, err := openLog(path)
	if err != nil {
		return nil, err
	}
	l.file = file
	return l, nil
}

func openLog(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (l *AuditLogger) Log(event AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return fmt.Errorf("audit log %s is closed", l.path)
	}
	if err := l.rotateIfNeeded(); err != nil {
		return fmt.Errorf("rotate audit log: %w", err)
	}

	// Redact sensitive data before logging
	event.Input = redact.Redact(event.Input)
	if event.Error != "" {
		event.Error = redact.Redact(event.Error)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	data = append(data, '\n')
	_, err = l.file.Write(data)
	return err
}

// rotateIfNeeded moves a full log to <path>.1, replacing any older backup,
// and reopens an empty file. Caller holds l.mu.
func (l *AuditLogger) rotateIfNeeded() error {
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < l.maxBytes {
		return nil
	}

	if err := l.file.Close(); err != nil {
		return err
	}
	l.file = nil
	if err := os.Rename(l.path, l.path+".1"); err != nil {
		// Reopen the current file so later calls retry the rotation.
		if file, openErr := openLog(l.path); openErr == nil {
			l.file = file
		}
		return err
	}
	file, err := openLog(l.path)
	if err != nil {
		return err
	}
	l.file = file
	return nil
}

// Routed implements router.Observer. Write failures are reported as
// warnings and never interrupt routing.
func (l *AuditLogger) Routed(ev router.Event) {
	event := AuditEvent{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Input:      ev.Input,
		Strategy:   ev.Strategy,
		Success:    ev.Result.Success,
		ExitCode:   ev.Result.ExitCode,
		DurationMS: ev.Duration.Milliseconds(),
		User:       l.user,
		Session:    l.session,
	}
	// Only the default path classifies its input.
	if ev.Strategy == "tier" {
		t := ev.Tier
		event.Tier = &t
	}
	if !ev.Result.Success {
		event.Error = firstLine(ev.Result.Output)
	}

	if err := l.Log(event); err != nil {
		fmt.Fprintf(l.warn, "warning: failed to write audit log: %v\n", err)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func (l *AuditLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// ReadEvents loads every record from the log at path. A missing file yields
// no events; malformed lines are skipped.
func ReadEvents(path string) ([]AuditEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var events []AuditEvent
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var event AuditEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, scanner.Err()
}
