// Package auth issues and checks the per-game play tokens that guard
// every game mutation.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/game2048/internal/dependencies/random"
)

const (
	tokenPrefix   = "pt_"
	tokenLength   = 32
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Errors
var (
	ErrInvalidToken = errors.New("invalid or missing play token")
)

// Config holds configuration for the auth service
type Config struct {
	// Cost is the bcrypt cost used to hash play tokens
	Cost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		Cost: bcrypt.DefaultCost,
	}
}

// Service handles play-token issue and verification
type Service struct {
	random random.Random
	cost   int
}

// New creates a new auth Service
func New(rnd random.Random, cfg Config) *Service {
	if cfg.Cost < bcrypt.MinCost || cfg.Cost > bcrypt.MaxCost {
		cfg.Cost = DefaultConfig().Cost
	}
	return &Service{
		random: rnd,
		cost:   cfg.Cost,
	}
}

// IssueToken generates a new play token and returns it along with the hash to persist.
// Only the hash is stored; the plain token is handed to the player once.
func (s *Service) IssueToken() (token string, hash string, err error) {
	token = tokenPrefix + s.random.String(tokenLength, tokenAlphabet)
	h, err := bcrypt.GenerateFromPassword([]byte(token), s.cost)
	if err != nil {
		return "", "", fmt.Errorf("hashing play token: %w", err)
	}
	return token, string(h), nil
}

// Verify checks a presented token against a stored hash
func (s *Service) Verify(hash, token string) error {
	if hash == "" || token == "" {
		return ErrInvalidToken
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		return ErrInvalidToken
	}
	return nil
}
