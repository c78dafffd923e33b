package ports

import (
	"context"
	"time"
)

// Credential is a stored login for the embedded auth backend.
type Credential struct {
	UserID       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// CredentialRepository persists credentials for the embedded auth backend.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*Credential, error)
	Create(ctx context.Context, c *Credential) error
}
