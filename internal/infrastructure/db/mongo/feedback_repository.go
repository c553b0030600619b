package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
)

const feedbackCollection = "feedback"

type FeedbackRepository struct {
	coll *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{coll: db.Collection(feedbackCollection)}
}

type feedbackDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	RecipientID primitive.ObjectID `bson:"recipient_id"`
	Message     string             `bson:"message"`
	SenderName  string             `bson:"sender_name"`
	SenderEmail string             `bson:"sender_email,omitempty"`
	IsAnonymous bool               `bson:"is_anonymous"`
	IsRead      bool               `bson:"is_read"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d feedbackDoc) toDomain() *domain.Feedback {
	return &domain.Feedback{
		ID:          d.ID.Hex(),
		RecipientID: d.RecipientID.Hex(),
		Message:     d.Message,
		SenderName:  d.SenderName,
		SenderEmail: d.SenderEmail,
		IsAnonymous: d.IsAnonymous,
		IsRead:      d.IsRead,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *FeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	recipientOID, err := primitive.ObjectIDFromHex(fb.RecipientID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	doc := feedbackDoc{
		RecipientID: recipientOID,
		Message:     fb.Message,
		SenderName:  fb.SenderName,
		SenderEmail: fb.SenderEmail,
		IsAnonymous: fb.IsAnonymous,
		IsRead:      fb.IsRead,
		CreatedAt:   fb.CreatedAt,
		UpdatedAt:   fb.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	created := *fb
	created.ID = id.Hex()
	return &created, nil
}

func (r *FeedbackRepository) List(ctx context.Context, filter ports.ListFeedbackFilter) ([]*domain.Feedback, int64, error) {
	query := bson.M{}
	if filter.RecipientID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.RecipientID)
		if err != nil {
			return nil, 0, domain.ErrUserNotFound
		}
		query["recipient_id"] = oid
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count feedback: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list feedback: %w", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Feedback
	for cur.Next(ctx) {
		var doc feedbackDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode feedback: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate feedback: %w", err)
	}
	return items, total, nil
}

func (r *FeedbackRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return 0, domain.ErrUserNotFound
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"recipient_id": oid, "is_read": false})
	if err != nil {
		return 0, fmt.Errorf("count unread feedback: %w", err)
	}
	return n, nil
}

func (r *FeedbackRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return n, nil
}

func (r *FeedbackRepository) SetRead(ctx context.Context, id, recipientID string, read bool) (*domain.Feedback, error) {
	filter, err := ownedFilter(id, recipientID)
	if err != nil {
		return nil, err
	}

	var doc feedbackDoc
	err = r.coll.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$set": bson.M{"is_read": read, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("set feedback read: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id, recipientID string) error {
	filter, err := ownedFilter(id, recipientID)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrFeedbackNotFound
	}
	return nil
}

func (r *FeedbackRepository) DeleteByID(ctx context.Context, id string) (*domain.Feedback, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrFeedbackNotFound
	}

	var doc feedbackDoc
	err = r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("delete feedback by id: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FeedbackRepository) DeleteByRecipient(ctx context.Context, recipientID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return 0, domain.ErrUserNotFound
	}

	res, err := r.coll.DeleteMany(ctx, bson.M{"recipient_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete feedback by recipient: %w", err)
	}
	return res.DeletedCount, nil
}

// ownedFilter scopes an operation to one message in one inbox; a malformed
// id behaves like a missing document.
func ownedFilter(id, recipientID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrFeedbackNotFound
	}
	recipientOID, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return nil, domain.ErrFeedbackNotFound
	}
	return bson.M{"_id": oid, "recipient_id": recipientOID}, nil
}
