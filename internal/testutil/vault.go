package testutil

import (
	"ticktock/internal/vault"
)

// NewTestVault creates a new in-memory backup vault for testing.
func NewTestVault() *vault.MemoryVault {
	return vault.NewMemoryVault()
}
