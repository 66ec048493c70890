package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL    string
	Identity     string
	IdentityFile string
	Token        string
	Output       string
	Verbose      bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:    getEnvOrDefault("LOBOS_SERVER", "http://localhost:8080"),
		Identity:     os.Getenv("LOBOS_IDENTITY"),
		IdentityFile: getEnvOrDefault("LOBOS_IDENTITY_FILE", defaultIdentityFile()),
		Token:        os.Getenv("LOBOS_TOKEN"),
		Output:       "text",
		Verbose:      false,
	}
}

// LoadIdentity loads the identity token from file if not already set
func (c *Config) LoadIdentity() error {
	if c.Identity != "" {
		return nil
	}

	data, err := os.ReadFile(c.IdentityFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No identity file is fine
		}
		return err
	}

	c.Identity = strings.TrimSpace(string(data))
	return nil
}

// SaveIdentity saves the identity token to the identity file
func (c *Config) SaveIdentity(identity string) error {
	c.Identity = identity

	dir := filepath.Dir(c.IdentityFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.IdentityFile, []byte(identity), 0600)
}

func defaultIdentityFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lobos/identity"
	}
	return filepath.Join(home, ".lobos", "identity")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
