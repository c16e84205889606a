package keychain

import (
	"context"
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func newMockStore(t *testing.T) *Store {
	t.Helper()
	keyring.MockInit()
	return &Store{
		account: "testuser",
		runSudo: func(context.Context, string) error { return nil },
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	s := newMockStore(t)

	if err := s.Set("hunter2"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	secret, err := s.Get()
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if secret != "hunter2" {
		t.Errorf("Get() = %q, want %q", secret, "hunter2")
	}
}

func TestSetOverwritesSilently(t *testing.T) {
	s := newMockStore(t)

	if err := s.Set("first"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s.Set("second"); err != nil {
		t.Fatalf("overwriting Set() failed: %v", err)
	}

	secret, err := s.Get()
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if secret != "second" {
		t.Errorf("Get() = %q, want the overwritten value", secret)
	}
}

func TestGetWhenNotSet(t *testing.T) {
	s := newMockStore(t)

	_, err := s.Get()
	if !errors.Is(err, ErrNotSet) {
		t.Errorf("Get() on empty store error = %v; want ErrNotSet", err)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s := newMockStore(t)

	if err := s.Set("hunter2"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if _, err := s.Get(); !errors.Is(err, ErrNotSet) {
		t.Errorf("Get() after Clear() error = %v; want ErrNotSet", err)
	}

	// Second clear on an absent entry must not fail.
	if err := s.Clear(); err != nil {
		t.Errorf("Clear() on empty store failed: %v", err)
	}
}

func TestVerifyPassesSecretToSudo(t *testing.T) {
	var gotStdin string
	s := newMockStore(t)
	s.runSudo = func(_ context.Context, stdin string) error {
		gotStdin = stdin
		return nil
	}

	if err := s.Verify("hunter2"); err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	if gotStdin != "hunter2\n" {
		t.Errorf("sudo stdin = %q, want secret followed by newline", gotStdin)
	}
}

func TestVerifyRejectedCredential(t *testing.T) {
	s := newMockStore(t)
	s.runSudo = func(context.Context, string) error {
		return errors.New("exit status 1")
	}

	if err := s.Verify("wrong"); err == nil {
		t.Error("Verify() should fail when sudo rejects the credential")
	}
}
