package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studiohub/onboarding-system/internal/core/domain"
	"github.com/studiohub/onboarding-system/internal/core/ports"
)

// RegistrationStore implements ports.RegistrationStore on MongoDB collections.
// Unique indexes on users.email and the per-kind fiscal_id close the race
// between the saga's pre-check and the insert: a duplicate-key error surfaces
// as the same conflict the pre-check would have reported.
type RegistrationStore struct {
	db *mongo.Database
}

func NewRegistrationStore(db *mongo.Database) *RegistrationStore {
	return &RegistrationStore{db: db}
}

type userDoc struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"created_at"`
}

type profileDoc struct {
	ID                 string          `bson:"_id"`
	UserID             string          `bson:"user_id"`
	Name               string          `bson:"name"`
	Email              string          `bson:"email"`
	Phone              string          `bson:"phone"`
	FiscalID           string          `bson:"fiscal_id"`
	LegalName          string          `bson:"legal_name,omitempty"`
	ArtistType         string          `bson:"artist_type,omitempty"`
	ImageURL           string          `bson:"img_url,omitempty"`
	Address            *domain.Address `bson:"address,omitempty"`
	SubscriptionStatus string          `bson:"subscription_status,omitempty"`
	TrialEndsAt        time.Time       `bson:"trial_ends_at,omitempty"`
	CreatedAt          time.Time       `bson:"created_at"`
}

type addressDoc struct {
	ID         string             `bson:"_id"` // identity id
	PostalCode string             `bson:"postal_code"`
	Street     string             `bson:"street"`
	Number     string             `bson:"number,omitempty"`
	Complement string             `bson:"complement,omitempty"`
	District   string             `bson:"district"`
	City       string             `bson:"city"`
	Region     string             `bson:"region"`
	Coords     domain.Coordinates `bson:"coordinates"`
}

// ExistsActive reports whether a non-deleted row matches value on field.
// A query error propagates; it is never collapsed into "not found".
func (s *RegistrationStore) ExistsActive(ctx context.Context, collection, field, value string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{field: value, "deleted_at": nil}
	err := s.db.Collection(collection).FindOne(ctx, filter).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, fmt.Errorf("exists %s.%s: %w", collection, field, err)
	}
	return true, nil
}

func (s *RegistrationStore) InsertUser(ctx context.Context, row ports.UserRow) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		ID:        row.ID,
		Email:     row.Email,
		Role:      row.Role,
		CreatedAt: row.CreatedAt,
	}
	if _, err := s.db.Collection(ports.CollectionUsers).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *RegistrationStore) InsertProfile(ctx context.Context, collection string, row ports.ProfileRow) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := profileDoc{
		ID:                 row.ID,
		UserID:             row.UserID,
		Name:               row.Name,
		Email:              row.Email,
		Phone:              row.Phone,
		FiscalID:           row.FiscalID,
		LegalName:          row.LegalName,
		ArtistType:         row.ArtistType,
		ImageURL:           row.ImageURL,
		Address:            row.Address,
		SubscriptionStatus: row.SubscriptionStatus,
		TrialEndsAt:        row.TrialEndsAt,
		CreatedAt:          row.CreatedAt,
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrFiscalIDTaken
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *RegistrationStore) InsertAddress(ctx context.Context, row ports.AddressRow) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := addressDoc{
		ID:         row.UserID,
		PostalCode: row.Address.PostalCode,
		Street:     row.Address.Street,
		Number:     row.Address.Number,
		Complement: row.Address.Complement,
		District:   row.Address.District,
		City:       row.Address.City,
		Region:     row.Address.Region,
		Coords:     row.Address.Coordinates,
	}
	if _, err := s.db.Collection(ports.CollectionAddresses).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (s *RegistrationStore) AttachBilling(ctx context.Context, collection, profileID string, account domain.BillingAccount) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"customer_id":         account.CustomerID,
		"subscription_id":     account.SubscriptionID,
		"subscription_status": account.Status,
		"payment_link":        account.PaymentLink,
		"next_due_date":       account.NextDueDate.UTC(),
	}}
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": profileID}, update)
	if err != nil {
		return fmt.Errorf("attach billing: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRowNotFound
	}
	return nil
}

// DeleteRow removes a row by id. Deleting an id that no longer exists is not
// an error, so the saga's compensations can run more than once safely.
func (s *RegistrationStore) DeleteRow(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// EnsureIndexes creates the unique indexes backing the uniqueness invariants.
func (s *RegistrationStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	if _, err := s.db.Collection(ports.CollectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("ensure users indexes: %w", err)
	}

	for _, coll := range []string{ports.CollectionClients, ports.CollectionArtists, ports.CollectionStudios} {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "fiscal_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		}); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", coll, err)
		}
	}
	return nil
}
