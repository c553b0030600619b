package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

const usersCollection = "users"

const (
	emailIndex    = "uniq_email"
	usernameIndex = "uniq_username"
	providerIndex = "uniq_provider"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type userDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Email         string             `bson:"email"`
	Username      string             `bson:"username"`
	Name          string             `bson:"name"`
	Bio           string             `bson:"bio,omitempty"`
	Avatar        string             `bson:"avatar,omitempty"`
	PasswordHash  string             `bson:"password_hash,omitempty"`
	AuthProvider  string             `bson:"auth_provider"`
	ProviderID    string             `bson:"provider_id,omitempty"`
	Role          string             `bson:"role"`
	IsActive      bool               `bson:"is_active"`
	FeedbackCount int64              `bson:"feedback_count"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		Email:         u.Email,
		Username:      u.Username,
		Name:          u.Name,
		Bio:           u.Bio,
		Avatar:        u.Avatar,
		PasswordHash:  u.PasswordHash,
		AuthProvider:  string(u.AuthProvider),
		ProviderID:    u.ProviderID,
		Role:          u.Role,
		IsActive:      u.IsActive,
		FeedbackCount: u.FeedbackCount,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:            d.ID.Hex(),
		Email:         d.Email,
		Username:      d.Username,
		Name:          d.Name,
		Bio:           d.Bio,
		Avatar:        d.Avatar,
		PasswordHash:  d.PasswordHash,
		AuthProvider:  domain.AuthProvider(d.AuthProvider),
		ProviderID:    d.ProviderID,
		Role:          d.Role,
		IsActive:      d.IsActive,
		FeedbackCount: d.FeedbackCount,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	res, err := r.coll.InsertOne(ctx, toUserDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyError(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	created := *user
	created.ID = id.Hex()
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByProvider(ctx context.Context, provider domain.AuthProvider, providerID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"auth_provider": string(provider), "provider_id": providerID})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	doc := toUserDoc(user)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyError(err)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var doc userDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("set user active: %w", err)
	}
	return doc.toDomain(), nil
}

// AdjustFeedbackCount applies delta atomically. Decrements below zero are
// clamped by a second conditional update rather than failing.
func (r *UserRepository) AdjustFeedbackCount(ctx context.Context, id string, delta int64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"feedback_count": delta}})
	if err != nil {
		return fmt.Errorf("adjust feedback count: %w", err)
	}

	if delta < 0 {
		_, err = r.coll.UpdateOne(ctx,
			bson.M{"_id": oid, "feedback_count": bson.M{"$lt": 0}},
			bson.M{"$set": bson.M{"feedback_count": int64(0)}},
		)
		if err != nil {
			return fmt.Errorf("clamp feedback count: %w", err)
		}
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) Stats(ctx context.Context) (*ports.UserStats, error) {
	cur, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"total_users":  bson.M{"$sum": 1},
			"active_users": bson.M{"$sum": bson.M{"$cond": bson.A{"$is_active", 1, 0}}},
			"admin_users":  bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$role", domain.RoleAdmin}}, 1, 0}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate user stats: %w", err)
	}
	defer cur.Close(ctx)

	var stats ports.UserStats
	if cur.Next(ctx) {
		var row struct {
			TotalUsers  int64 `bson:"total_users"`
			ActiveUsers int64 `bson:"active_users"`
			AdminUsers  int64 `bson:"admin_users"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode user stats: %w", err)
		}
		stats = ports.UserStats{TotalUsers: row.TotalUsers, ActiveUsers: row.ActiveUsers, AdminUsers: row.AdminUsers}
	}
	return &stats, nil
}

// duplicateKeyError maps a unique-index violation to the conflicting field.
// The server's error message names the violated index.
func duplicateKeyError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, usernameIndex):
		return domain.ErrUsernameTaken
	case strings.Contains(msg, emailIndex):
		return domain.ErrEmailTaken
	default:
		return domain.ErrEmailTaken
	}
}
