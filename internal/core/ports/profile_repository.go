package ports

import (
	"context"
	"time"
)

// Profile is a row from the profiles table of the data collaborator.
type Profile struct {
	ID            string
	Email         string
	Name          string
	AvatarURL     string
	WalletAddress string
	RoleTag       string
	IsAdmin       bool
	CreatedAt     time.Time
}

// ProfileRepository reads and writes profile rows.
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*Profile, error)
	Insert(ctx context.Context, p *Profile) error
}
