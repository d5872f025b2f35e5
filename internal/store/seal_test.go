package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"paywall-go/internal/config"
)

func newTestSealedStore(t *testing.T) *SealedStore {
	t.Helper()

	dir := t.TempDir()
	keys := config.KeysConfig{
		RecipientPath: filepath.Join(dir, "content.pub"),
		IdentityPath:  filepath.Join(dir, "content.key"),
	}
	s := NewSealedStore(NewMemoryStore("test"), keys)
	if err := s.Setup("correct horse"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	return s
}

func TestSealedStore(t *testing.T) {
	t.Run("seal and unseal roundtrip", func(t *testing.T) {
		s := newTestSealedStore(t)

		plaintext := "the protected body"
		if err := s.Put("handle-1", strings.NewReader(plaintext), int64(len(plaintext))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		// Get returns ciphertext, not the plaintext.
		var sealed bytes.Buffer
		if err := s.Get("handle-1", &sealed); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if bytes.Contains(sealed.Bytes(), []byte(plaintext)) {
			t.Fatal("stored blob contains plaintext")
		}

		unsealer, err := s.Unlock("correct horse")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}

		var out bytes.Buffer
		if err := unsealer.Unseal(&sealed, &out); err != nil {
			t.Fatalf("Unseal() error = %v", err)
		}
		if out.String() != plaintext {
			t.Errorf("unsealed = %q, want %q", out.String(), plaintext)
		}
	})

	t.Run("wrong passphrase fails to unlock", func(t *testing.T) {
		s := newTestSealedStore(t)

		if _, err := s.Unlock("wrong"); err == nil {
			t.Fatal("Unlock() with wrong passphrase succeeded")
		}
	})

	t.Run("key ref is the recipient", func(t *testing.T) {
		s := newTestSealedStore(t)

		ref := s.KeyRef()
		if !strings.HasPrefix(ref, "age1") {
			t.Errorf("KeyRef() = %q, want an age recipient", ref)
		}

		data, err := os.ReadFile(s.recipientPath)
		if err != nil {
			t.Fatalf("reading recipient file: %v", err)
		}
		if ref != strings.TrimSpace(string(data)) {
			t.Errorf("KeyRef() = %q, want recipient file content %q", ref, strings.TrimSpace(string(data)))
		}
	})

	t.Run("validate setup", func(t *testing.T) {
		s := newTestSealedStore(t)
		if err := s.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("validate setup rejects corrupt key material", func(t *testing.T) {
		s := newTestSealedStore(t)

		if err := os.WriteFile(s.recipientPath, []byte("not a recipient\n"), 0644); err != nil {
			t.Fatalf("corrupting recipient file: %v", err)
		}
		if err := s.ValidateSetup(); err == nil {
			t.Fatal("ValidateSetup() accepted an unparseable recipient")
		}
	})
}
