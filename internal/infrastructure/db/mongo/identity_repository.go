package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/studiohub/onboarding-system/internal/core/domain"
)

const identityCollection = "identities"

// IdentityRepository is a Mongo-backed ports.IdentityProvider used when no
// external identity service is configured. Credentials are stored with bcrypt
// hashes; principals are created confirmed, matching the provider contract.
type IdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{coll: db.Collection(identityCollection)}
}

type identityDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Confirmed    bool      `bson:"confirmed"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (r *IdentityRepository) CreateIdentity(ctx context.Context, email, password string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	doc := identityDoc{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Confirmed:    true,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrIdentityExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	return &domain.Identity{
		ID:        doc.ID,
		Email:     doc.Email,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// DeleteIdentity removes a principal. A missing id is not an error.
func (r *IdentityRepository) DeleteIdentity(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique email index on the identities collection.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
