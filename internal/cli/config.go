package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("G2048_SERVER", "http://localhost:3000"),
		Token:     os.Getenv("G2048_TOKEN"),
		TokenFile: getEnvOrDefault("G2048_TOKEN_FILE", defaultTokenFile()),
		Output:    "text",
		Verbose:   false,
	}
}

// loadTokens reads the game ID to play token map. A missing file is an
// empty map.
func (c *Config) loadTokens() (map[string]string, error) {
	tokens := make(map[string]string)

	data, err := os.ReadFile(c.TokenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return tokens, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return tokens, nil
	}

	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("token file %s is corrupt: %w", c.TokenFile, err)
	}
	return tokens, nil
}

func (c *Config) saveTokens(tokens map[string]string) error {
	dir := filepath.Dir(c.TokenFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, data, 0600)
}

// TokenFor returns the play token for a game. --token wins over the file.
func (c *Config) TokenFor(gameID string) (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}

	tokens, err := c.loadTokens()
	if err != nil {
		return "", err
	}
	token, ok := tokens[gameID]
	if !ok {
		return "", fmt.Errorf("no play token stored for game %s (use --token)", gameID)
	}
	return token, nil
}

// SaveToken stores the play token for a game
func (c *Config) SaveToken(gameID, token string) error {
	tokens, err := c.loadTokens()
	if err != nil {
		return err
	}
	tokens[gameID] = token
	return c.saveTokens(tokens)
}

// ForgetToken removes a game's play token
func (c *Config) ForgetToken(gameID string) error {
	tokens, err := c.loadTokens()
	if err != nil {
		return err
	}
	if _, ok := tokens[gameID]; !ok {
		return nil
	}
	delete(tokens, gameID)
	return c.saveTokens(tokens)
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".g2048/tokens.json"
	}
	return filepath.Join(home, ".g2048", "tokens.json")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
