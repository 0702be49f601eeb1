package main

import (
	"bytes"
	"testing"

	"github.com/doerhub/doerhub-backend/internal/security"
	"github.com/google/uuid"
)

func mustSealer(t *testing.T, b byte) *security.Sealer {
	t.Helper()
	s, err := security.NewSealer(bytes.Repeat([]byte{b}, 32))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRekey(t *testing.T) {
	oldSealer, newSealer := mustSealer(t, 1), mustSealer(t, 2)
	user := uuid.New()

	sealed, err := oldSealer.Seal([]byte("123456789012"), user[:])
	if err != nil {
		t.Fatal(err)
	}

	resealed, err := rekey(oldSealer, newSealer, sealed, user[:])
	if err != nil {
		t.Fatalf("rekey: %v", err)
	}
	plain, err := newSealer.Open(resealed, user[:])
	if err != nil || string(plain) != "123456789012" {
		t.Fatalf("open with new key: %q %v", plain, err)
	}

	again, err := rekey(oldSealer, newSealer, resealed, user[:])
	if err != nil || !bytes.Equal(again, resealed) {
		t.Fatal("rows already on the new key should pass through")
	}

	other := uuid.New()
	if _, err := rekey(oldSealer, newSealer, sealed, other[:]); err == nil {
		t.Fatal("a row bound to another user must not open")
	}
}
