// Package keychain stores the sudo credential in the platform secret
// store (macOS Keychain), keyed by a fixed service name and the current
// OS user. The secret persists across restarts until explicitly cleared.
package keychain

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"os/user"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
)

// service is the fixed keychain service identifier for dockup.
const service = "dock-app-updater"

// ErrNotSet indicates no credential is stored. It is an expected state,
// not a store failure.
var ErrNotSet = errors.New("no credential stored")

// verifyTimeout bounds the sudo validation run.
const verifyTimeout = 10 * time.Second

// Store wraps the OS secret store for the current user.
type Store struct {
	account string

	// runSudo executes the sudo validation command. Overridable in tests.
	runSudo func(ctx context.Context, stdin string) error
}

// New returns a Store scoped to the current OS user.
func New() (*Store, error) {
	u, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current user: %w", err)
	}
	return &Store{
		account: u.Username,
		runSudo: func(ctx context.Context, stdin string) error {
			cmd := exec.CommandContext(ctx, "sudo", "-S", "-k", "true")
			cmd.Stdin = strings.NewReader(stdin)
			return cmd.Run()
		},
	}, nil
}

// Set stores the secret, silently overwriting any existing entry.
func (s *Store) Set(secret string) error {
	if err := keyring.Set(service, s.account, secret); err != nil {
		return fmt.Errorf("keychain unavailable: %w", err)
	}
	return nil
}

// Get returns the stored secret, or ErrNotSet when no entry exists.
// Store-level failures (locked or denied keychain) are reported as
// distinct errors: privileged commands must not run on a guess.
func (s *Store) Get() (string, error) {
	secret, err := keyring.Get(service, s.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotSet
	}
	if err != nil {
		return "", fmt.Errorf("keychain unavailable: %w", err)
	}
	return secret, nil
}

// Clear removes the stored credential. Clearing an absent entry is not an
// error.
func (s *Store) Clear() error {
	err := keyring.Delete(service, s.account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keychain unavailable: %w", err)
	}
	return nil
}

// Verify checks the candidate secret against sudo before it is saved.
// sudo -k discards any cached timestamp so the check always revalidates.
func (s *Store) Verify(secret string) error {
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	if err := s.runSudo(ctx, secret+"\n"); err != nil {
		return fmt.Errorf("sudo rejected the credential: %w", err)
	}
	return nil
}
