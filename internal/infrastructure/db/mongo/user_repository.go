package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

const usersCollection = "users"

// allowedUpdateFields is the column allowlist for Update. A key outside this
// set is a caller bug surfaced as domain.ErrInvalidCriteria.
var allowedUpdateFields = map[string]struct{}{
	ports.FieldHashedPassword: {},
	ports.FieldSessionID:      {},
	ports.FieldResetToken:     {},
}

// UserRepository persists users in MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index the duplicate-registration
// check relies on. Call once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	return nil
}

type userDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Email          string             `bson:"email"`
	HashedPassword string             `bson:"hashed_password"`
	SessionID      string             `bson:"session_id,omitempty"`
	ResetToken     string             `bson:"reset_token,omitempty"`
	CreatedAt      int64              `bson:"created_at"`
	UpdatedAt      int64              `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := userDoc{
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		SessionID:      user.SessionID,
		ResetToken:     user.ResetToken,
		CreatedAt:      user.CreatedAt.Unix(),
		UpdatedAt:      user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindBySessionID(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"session_id": sessionID})
}

func (r *UserRepository) FindByResetToken(ctx context.Context, resetToken string) (*domain.User, error) {
	if resetToken == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"reset_token": resetToken})
}

// Update applies the allowlisted fields in a single write. Empty string
// values unset the column so cleared tokens do not linger as empty strings.
func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	unset := bson.M{}
	for key, value := range fields {
		if _, ok := allowedUpdateFields[key]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrInvalidCriteria, key)
		}
		if str, ok := value.(string); ok && str == "" {
			unset[key] = ""
			continue
		}
		set[key] = value
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &domain.User{
		ID:             doc.ID.Hex(),
		Email:          doc.Email,
		HashedPassword: doc.HashedPassword,
		SessionID:      doc.SessionID,
		ResetToken:     doc.ResetToken,
		CreatedAt:      unixToTime(doc.CreatedAt),
		UpdatedAt:      unixToTime(doc.UpdatedAt),
	}, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
