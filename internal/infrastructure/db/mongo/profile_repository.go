package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/R3almCollectibles/session-gateway/internal/core/domain"
	"github.com/R3almCollectibles/session-gateway/internal/core/ports"
)

const profileCollection = "profiles"

// ProfileRepository stores marketplace profiles, one row per account.
type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profileCollection)}
}

type profileDoc struct {
	ID            string `bson:"_id"`
	Email         string `bson:"email"`
	Name          string `bson:"name,omitempty"`
	AvatarURL     string `bson:"avatar_url,omitempty"`
	WalletAddress string `bson:"wallet_address,omitempty"`
	RoleTag       string `bson:"role,omitempty"`
	IsAdmin       bool   `bson:"is_admin,omitempty"`
	CreatedAt     int64  `bson:"created_at"`
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*ports.Profile, error) {
	var doc profileDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	return &ports.Profile{
		ID:            doc.ID,
		Email:         doc.Email,
		Name:          doc.Name,
		AvatarURL:     doc.AvatarURL,
		WalletAddress: doc.WalletAddress,
		RoleTag:       doc.RoleTag,
		IsAdmin:       doc.IsAdmin,
		CreatedAt:     unixToTime(doc.CreatedAt),
	}, nil
}

func (r *ProfileRepository) Insert(ctx context.Context, p *ports.Profile) error {
	doc := profileDoc{
		ID:            p.ID,
		Email:         p.Email,
		Name:          p.Name,
		AvatarURL:     p.AvatarURL,
		WalletAddress: p.WalletAddress,
		RoleTag:       p.RoleTag,
		IsAdmin:       p.IsAdmin,
		CreatedAt:     p.CreatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
