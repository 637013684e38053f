package cli

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds CLI configuration
type Config struct {
	ServerAddr string
	CredsFile  string
	Output     string

	// Credentials, loaded from the creds file unless overridden by flags
	Username string
	Password string
	Role     string
}

// credentials is the on-disk creds file layout
type credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerAddr: getEnvOrDefault("GAMEHUB_SERVER", "localhost:9000"),
		CredsFile:  getEnvOrDefault("GAMEHUB_CREDS_FILE", defaultCredsFile()),
		Output:     "text",
	}
}

// LoadCredentials fills in credentials from the creds file, unless they
// were already provided via flags
func (c *Config) LoadCredentials() error {
	if c.Username != "" {
		return nil
	}

	data, err := os.ReadFile(c.CredsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // no creds file is fine
		}
		return err
	}

	var creds credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return err
	}
	c.Username = creds.Username
	c.Password = creds.Password
	c.Role = creds.Role
	return nil
}

// SaveCredentials writes credentials to the creds file
func (c *Config) SaveCredentials(username, password, role string) error {
	c.Username = username
	c.Password = password
	c.Role = role

	data, err := yaml.Marshal(credentials{
		Username: username,
		Password: password,
		Role:     role,
	})
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.CredsFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(c.CredsFile, data, 0600)
}

// ClearCredentials removes the creds file
func (c *Config) ClearCredentials() error {
	err := os.Remove(c.CredsFile)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func defaultCredsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gamehub/credentials"
	}
	return filepath.Join(home, ".gamehub", "credentials")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
