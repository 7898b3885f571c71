package settings

import (
	"reflect"
	"testing"
)

func TestStore_SetGet(t *testing.T) {
	s := New(nil)

	if err := s.Set("foo", "bar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := s.Get("foo")
	if !ok || got != "bar" {
		t.Errorf("expected (bar, true), got (%q, %v)", got, ok)
	}

	// Keys are case-insensitive.
	got, ok = s.Get("FOO")
	if !ok || got != "bar" {
		t.Errorf("expected case-insensitive lookup, got (%q, %v)", got, ok)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("expected missing key to be absent")
	}
}

func TestStore_SetOverwrites(t *testing.T) {
	s := New(nil)
	_ = s.Set("theme", "light")
	_ = s.Set("theme", "dark")

	if got, _ := s.Get("theme"); got != "dark" {
		t.Errorf("expected dark, got %q", got)
	}
}

func TestStore_SetRejectsBadKeys(t *testing.T) {
	s := New(nil)
	for _, key := range []string{"", "   ", ".foo", "foo."} {
		if err := s.Set(key, "x"); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}

func TestStore_Keys(t *testing.T) {
	s := New(map[string]any{"shell.timeout": "30"})
	_ = s.Set("zeta", "1")
	_ = s.Set("alpha", "2")

	want := []string{"alpha", "shell.timeout", "zeta"}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestStore_DottedKeysAreIndependent(t *testing.T) {
	s := New(nil)
	if err := s.Set("foo", "bar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Set("foo.baz", "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, ok := s.Get("foo"); !ok || got != "bar" {
		t.Errorf("expected foo to keep bar, got (%q, %v)", got, ok)
	}
	if got, ok := s.Get("foo.baz"); !ok || got != "x" {
		t.Errorf("expected foo.baz = x, got (%q, %v)", got, ok)
	}
	if _, ok := s.Get("foo.baz.qux"); ok {
		t.Error("expected unset deeper key to be absent")
	}

	want := []string{"foo", "foo.baz"}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if err := s.Set("a\x00b", "x"); err == nil {
		t.Error("expected error for key containing NUL")
	}
}

func TestStore_NestedSeedIsFlattened(t *testing.T) {
	s := New(map[string]any{
		"ui":     map[string]any{"theme": "dark", "font": map[string]any{"size": 12}},
		"editor": "vim",
	})

	want := []string{"editor", "ui.font.size", "ui.theme"}
	if got := s.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got, _ := s.Get("ui.font.size"); got != "12" {
		t.Errorf("expected 12, got %q", got)
	}
}
