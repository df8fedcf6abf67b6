package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blogsphere/blog-api/internal/core/domain"
)

const collectionUsers = "users"

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionUsers)}
}

type accountDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	PasswordHash     string             `bson:"password_hash"`
	ProfileImage     string             `bson:"profile_image"`
	Role             domain.Role        `bson:"role"`
	IsSuspended      bool               `bson:"is_suspended"`
	SuspendedAt      *time.Time         `bson:"suspended_at"`
	SuspensionReason string             `bson:"suspension_reason"`
	TokenVersion     int64              `bson:"token_version"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

func (d *accountDocument) toDomain() *domain.Account {
	a := &domain.Account{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Email:            d.Email,
		PasswordHash:     d.PasswordHash,
		ProfileImageURL:  d.ProfileImage,
		Role:             d.Role,
		IsSuspended:      d.IsSuspended,
		SuspensionReason: d.SuspensionReason,
		TokenVersion:     d.TokenVersion,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
	if d.SuspendedAt != nil {
		at := d.SuspendedAt.UTC()
		a.SuspendedAt = &at
	}
	return a
}

// accountID parses a hex id. Malformed ids cannot match any account.
func accountID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrUserNotFound
	}
	return oid, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := accountID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

// IncrementTokenVersion atomically bumps the token version so concurrent
// logouts never lose an increment.
func (r *AccountRepository) IncrementTokenVersion(ctx context.Context, id string) error {
	oid, err := accountID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$inc": bson.M{"token_version": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := accountDocument{
		ID:               primitive.NewObjectID(),
		Name:             account.Name,
		Email:            account.Email,
		PasswordHash:     account.PasswordHash,
		ProfileImage:     account.ProfileImageURL,
		Role:             account.Role,
		IsSuspended:      account.IsSuspended,
		SuspendedAt:      account.SuspendedAt,
		SuspensionReason: account.SuspensionReason,
		TokenVersion:     0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if doc.ProfileImage == "" {
		doc.ProfileImage = domain.DefaultProfileImage
	}
	if doc.Role == "" {
		doc.Role = domain.RoleUser
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return doc.toDomain(), nil
}

// Save writes the profile fields only, so a concurrent suspension or role
// change made since the account was read is never written back. The password
// hash and the token version bump ride on the same update when flagged.
func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	oid, err := accountID(account.ID)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"name":          account.Name,
		"email":         account.Email,
		"profile_image": account.ProfileImageURL,
		"updated_at":    account.UpdatedAt,
	}
	if account.PasswordChanged {
		set["password_hash"] = account.PasswordHash
	}
	update := bson.M{"$set": set}
	if account.RevokeTokens {
		update["$inc"] = bson.M{"token_version": 1}
	}

	doc, err := r.findOneAndUpdate(ctx, oid, update)
	if err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	account.PasswordChanged = false
	account.RevokeTokens = false
	return doc.toDomain(), nil
}

func (r *AccountRepository) SetSuspension(ctx context.Context, id string, suspended bool, reason string, at time.Time) (*domain.Account, error) {
	oid, err := accountID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"is_suspended":      suspended,
		"suspended_at":      nil,
		"suspension_reason": "",
		"updated_at":        at,
	}
	if suspended {
		set["suspended_at"] = at
		set["suspension_reason"] = reason
	}

	doc, err := r.findOneAndUpdate(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("set suspension: %w", err)
	}
	return doc.toDomain(), nil
}

// findOneAndUpdate applies update to one account and returns the stored
// document after the write.
func (r *AccountRepository) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M) (*accountDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDocument
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrUserNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return &doc, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	var docs []accountDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	out := make([]*domain.Account, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := accountID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDocument
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("delete account: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique email index.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}
