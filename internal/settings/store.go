// Package settings is the in-memory key/value store behind /config.
package settings

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// keyDelimiter replaces viper's "." nesting so that "foo" and "foo.bar" are
// independent keys. It cannot appear in a key.
const keyDelimiter = "\x00"

// Store keeps user settings in a private viper instance. Nothing is written
// to disk. Keys are flat and case-insensitive.
type Store struct {
	mu sync.RWMutex
	v  *viper.Viper
}

// New returns a store seeded with initial values. Nested maps are flattened
// into dotted keys.
func New(initial map[string]any) *Store {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	flatten("", initial, v.Set)
	return &Store{v: v}
}

func flatten(prefix string, m map[string]any, set func(string, any)) {
	for k, val := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := val.(map[string]any); ok {
			flatten(key, nested, set)
			continue
		}
		set(key, val)
	}
}

// Name identifies the backend in status output.
func (s *Store) Name() string {
	return "memory"
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("empty key")
	}
	if strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") || strings.Contains(key, keyDelimiter) {
		return fmt.Errorf("invalid key %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, value)
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.v.IsSet(key) {
		return "", false
	}
	return s.v.GetString(key), true
}

// Keys returns every stored key in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := s.v.AllKeys()
	sort.Strings(keys)
	return keys
}
