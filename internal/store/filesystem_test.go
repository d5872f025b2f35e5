package store

import (
	"bytes"
	"strings"
	"testing"
)

func TestFileStore(t *testing.T) {
	t.Run("put and get roundtrip", func(t *testing.T) {
		s, err := NewFileStore("test", t.TempDir())
		if err != nil {
			t.Fatalf("NewFileStore() error = %v", err)
		}

		if err := s.Put("abc123", strings.NewReader("file body"), 9); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var buf bytes.Buffer
		if err := s.Get("abc123", &buf); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if buf.String() != "file body" {
			t.Errorf("content = %q, want %q", buf.String(), "file body")
		}
	})

	t.Run("put drains and verifies size when handle exists", func(t *testing.T) {
		s, err := NewFileStore("test", t.TempDir())
		if err != nil {
			t.Fatalf("NewFileStore() error = %v", err)
		}

		if err := s.Put("abc123", strings.NewReader("file body"), 9); err != nil {
			t.Fatalf("first Put() error = %v", err)
		}
		if err := s.Put("abc123", strings.NewReader("file body"), 9); err != nil {
			t.Fatalf("second Put() error = %v", err)
		}
		if err := s.Put("abc123", strings.NewReader("wrong"), 9); err == nil {
			t.Fatal("Put() with mismatched size succeeded")
		}
	})

	t.Run("size mismatch removes the partial file", func(t *testing.T) {
		s, err := NewFileStore("test", t.TempDir())
		if err != nil {
			t.Fatalf("NewFileStore() error = %v", err)
		}

		if err := s.Put("abc123", strings.NewReader("short"), 99); err == nil {
			t.Fatal("Put() with wrong size succeeded")
		}

		var buf bytes.Buffer
		if err := s.Get("abc123", &buf); err == nil {
			t.Fatal("partial content left behind after failed Put()")
		}
	})

	t.Run("validate setup", func(t *testing.T) {
		s, err := NewFileStore("test", t.TempDir())
		if err != nil {
			t.Fatalf("NewFileStore() error = %v", err)
		}
		if err := s.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})
}
