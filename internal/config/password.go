package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig holds configuration for operator password hashing and verification.
type PasswordConfig struct {
	BcryptCost int
	Hash       string // stored operator hash; empty disables token issuance
}

// Password returns the operator password configuration.
func (c *Config) Password() (*PasswordConfig, error) {
	return NewPasswordConfig(c.BcryptCost, c.OperatorPasswordHash)
}

// NewPasswordConfig creates a validated password configuration.
func NewPasswordConfig(cost int, hash string) (*PasswordConfig, error) {
	config := &PasswordConfig{
		BcryptCost: cost,
		Hash:       hash,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	if c.Hash != "" {
		if _, err := bcrypt.Cost([]byte(c.Hash)); err != nil {
			return fmt.Errorf("invalid OPERATOR_PASSWORD_HASH: %w", err)
		}
	}
	return nil
}

// HashPassword hashes a password using bcrypt.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword verifies a password against a stored hash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pw))
	return err == nil
}

// VerifyOperator checks pw against the configured operator hash. It always
// fails when no hash is configured.
func (c *PasswordConfig) VerifyOperator(pw string) bool {
	if c.Hash == "" {
		return false
	}
	return c.VerifyPassword(pw, c.Hash)
}
