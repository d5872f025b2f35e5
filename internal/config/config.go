package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the main configuration for the paywall engine.
type Config struct {
	OperatorID string         `toml:"operator_id"`
	BaseDir    string         `toml:"base_dir"`
	LogDir     string         `toml:"log_dir"`
	Database   DatabaseConfig `toml:"database"`
	Store      StoreConfig    `toml:"store"`
	Keys       KeysConfig     `toml:"keys"`
}

// DatabaseConfig configures the ledger database.
// Tagged union: Type determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// StoreConfig configures the content store backend.
// Tagged union: Type determines which other fields are relevant.
type StoreConfig struct {
	Type   string `toml:"type"` // "memory", "filesystem" or "s3"
	Name   string `toml:"name"`
	Sealed bool   `toml:"sealed"` // wrap the backend with age encryption at rest

	// Filesystem-specific (Type == "filesystem")
	RootDir string `toml:"root_dir,omitempty"`

	// S3-specific (Type == "s3")
	S3Bucket string `toml:"s3_bucket,omitempty"`
	S3Prefix string `toml:"s3_prefix,omitempty"`
	S3Region string `toml:"s3_region,omitempty"`

	// Static credentials for the S3 backend. When empty the default AWS
	// credential chain is used.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
}

// KeysConfig holds paths to the age key pair sealing stored content.
type KeysConfig struct {
	RecipientPath string `toml:"recipient_path"`
	IdentityPath  string `toml:"identity_path"`
}

// NewConfig creates a Config with the provided values and default layout.
func NewConfig(operatorID, baseDir string) *Config {
	return &Config{
		OperatorID: operatorID,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Store: StoreConfig{
			Type:    "filesystem",
			Name:    "local",
			RootDir: filepath.Join(baseDir, "content"),
		},
		Keys: KeysConfig{
			RecipientPath: filepath.Join(baseDir, "keys", "content.pub"),
			IdentityPath:  filepath.Join(baseDir, "keys", "content.key"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path.
// Refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
