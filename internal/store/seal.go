package store

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"

	"paywall-go/internal/config"
	"paywall-go/internal/paywall"
)

// SealedStore decorates a ContentStore with age encryption at rest: blobs
// are sealed to an X25519 recipient before they reach the inner store, and
// come back as ciphertext on Get. The engine above only ever sees handles
// and the key reference; unsealing happens at the edge via Unlock.
//
// The recipient is stored in plaintext; the identity is encrypted with the
// operator's passphrase using age's scrypt-based passphrase encryption.
type SealedStore struct {
	inner         paywall.ContentStore
	recipientPath string
	identityPath  string
	keyRef        string // cached after the first successful recipient load
}

// NewSealedStore wraps inner with sealing keyed by the configured paths.
func NewSealedStore(inner paywall.ContentStore, keys config.KeysConfig) *SealedStore {
	return &SealedStore{
		inner:         inner,
		recipientPath: keys.RecipientPath,
		identityPath:  keys.IdentityPath,
	}
}

// Setup performs one-time key generation: a fresh X25519 pair, the recipient
// written in plaintext, the identity sealed with the passphrase.
func (s *SealedStore) Setup(passphrase string) error {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.recipientPath), 0700); err != nil {
		return fmt.Errorf("creating recipient directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.identityPath), 0700); err != nil {
		return fmt.Errorf("creating identity directory: %w", err)
	}

	if err := os.WriteFile(s.recipientPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing recipient: %w", err)
	}

	f, err := os.OpenFile(s.identityPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating identity file: %w", err)
	}
	defer f.Close()

	scrypt, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	w, err := age.Encrypt(f, scrypt)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.WriteString(w, identity.String()+"\n"); err != nil {
		return fmt.Errorf("writing encrypted identity: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encrypted identity: %w", err)
	}

	return nil
}

// IsConfigured returns true if both key files exist at their paths.
func (s *SealedStore) IsConfigured() bool {
	if _, err := os.Stat(s.recipientPath); err != nil {
		return false
	}
	if _, err := os.Stat(s.identityPath); err != nil {
		return false
	}
	return true
}

// Put seals the blob to the recipient and stores the ciphertext under the
// same handle. The handle still addresses the plaintext content.
func (s *SealedStore) Put(handle string, r io.Reader, size int64) error {
	recipient, err := s.loadRecipient()
	if err != nil {
		return fmt.Errorf("loading recipient: %w", err)
	}

	var sealed bytes.Buffer
	w, err := age.Encrypt(&sealed, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	written, err := io.Copy(w, r)
	if err != nil {
		return fmt.Errorf("sealing content: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing sealed content: %w", err)
	}
	if written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}

	return s.inner.Put(handle, &sealed, int64(sealed.Len()))
}

// Get retrieves the sealed blob as ciphertext. Unsealing requires the
// identity and happens through Unlock.
func (s *SealedStore) Get(handle string, w io.Writer) error {
	return s.inner.Get(handle, w)
}

// KeyRef returns the recipient public key string, which articles record so
// readers know which key seals their content. Sealing a blob requires the
// same recipient, so Put fails before an article can record an empty
// reference; ValidateSetup surfaces unreadable key material up front.
func (s *SealedStore) KeyRef() string {
	if s.keyRef == "" {
		if _, err := s.loadRecipient(); err != nil {
			return ""
		}
	}
	return s.keyRef
}

// ValidateSetup checks the inner store and the key material. The recipient
// must parse, not merely exist.
func (s *SealedStore) ValidateSetup() error {
	if err := s.inner.ValidateSetup(); err != nil {
		return err
	}
	if !s.IsConfigured() {
		return fmt.Errorf("sealing keys not configured (run setup)")
	}
	if _, err := s.loadRecipient(); err != nil {
		return fmt.Errorf("sealing keys unreadable: %w", err)
	}
	return nil
}

// Unlock decrypts the identity with the passphrase and returns an Unsealer
// for the session. The unlocked identity is held in memory only.
func (s *SealedStore) Unlock(passphrase string) (*Unsealer, error) {
	data, err := os.ReadFile(s.identityPath)
	if err != nil {
		return nil, fmt.Errorf("reading identity file: %w", err)
	}

	scrypt, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	dec, err := age.Decrypt(bytes.NewReader(data), scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypting identity: %w", err)
	}
	keyData, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted identity: %w", err)
	}

	identities, err := age.ParseIdentities(bytes.NewReader(keyData))
	if err != nil {
		return nil, fmt.Errorf("parsing identity: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("no identities found in key file")
	}

	return &Unsealer{identities: identities}, nil
}

// loadRecipient reads and parses the recipient public key.
func (s *SealedStore) loadRecipient() (*age.X25519Recipient, error) {
	data, err := os.ReadFile(s.recipientPath)
	if err != nil {
		return nil, fmt.Errorf("reading recipient file: %w", err)
	}
	recipient, err := age.ParseX25519Recipient(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing recipient: %w", err)
	}
	s.keyRef = recipient.String()
	return recipient, nil
}

// Unsealer holds an unlocked identity for the duration of a read session.
type Unsealer struct {
	identities []age.Identity
}

// Unseal decrypts sealed content read from r and writes plaintext to w.
func (u *Unsealer) Unseal(r io.Reader, w io.Writer) error {
	dec, err := age.Decrypt(r, u.identities...)
	if err != nil {
		return fmt.Errorf("unsealing content: %w", err)
	}
	if _, err := io.Copy(w, dec); err != nil {
		return fmt.Errorf("writing unsealed content: %w", err)
	}
	return nil
}

// Compile-time check that SealedStore implements the ContentStore interface.
var _ paywall.ContentStore = (*SealedStore)(nil)
