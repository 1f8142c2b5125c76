package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// ErrRollNoExhausted signals that every sequence slot for the course/year
// pair is taken. With 9999 slots per pair this is practically unreachable,
// but the allocator must terminate rather than loop forever.
var ErrRollNoExhausted = errors.New("roll number space exhausted")

const (
	rollNoMaxAttempts = 9999

	passwordLength   = 12
	passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"
)

// RollNoChecker probes whether a roll number is already allocated. The
// database-backed implementation queries the student profile table; tests
// inject fakes.
type RollNoChecker interface {
	RollNoExists(ctx context.Context, rollNo string) (bool, error)
}

// GenerateRollNo allocates the first free roll number of the form
// courseCode + year + zero-padded sequence. The probe is best-effort; the
// unique index on the profile table is what actually guarantees uniqueness
// under concurrent allocation, so callers must treat an insert conflict as a
// clean failure rather than trusting this walk alone.
func GenerateRollNo(ctx context.Context, checker RollNoChecker, courseCode string, year int) (string, error) {
	for attempt := 1; attempt <= rollNoMaxAttempts; attempt++ {
		candidate := fmt.Sprintf("%s%d%03d", courseCode, year, attempt)
		exists, err := checker.RollNoExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("roll number lookup failed: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", ErrRollNoExhausted
}

// GenerateSecurePassword returns a 12-character password drawn uniformly from
// a 70-character alphabet using a cryptographically secure source. The value
// is handed to the caller exactly once and never persisted in plaintext.
func GenerateSecurePassword() (string, error) {
	password := make([]byte, passwordLength)
	alphabetSize := big.NewInt(int64(len(passwordAlphabet)))

	for i := range password {
		index, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("secure random source unavailable: %w", err)
		}
		password[i] = passwordAlphabet[index.Int64()]
	}

	return string(password), nil
}
