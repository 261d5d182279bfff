package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
)

const (
	reviewsCollection  = "reviews"
	feedbackCollection = "feedback"
)

type MongoReviewRepository struct {
	reviews  *mongo.Collection
	feedback *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *MongoReviewRepository {
	return &MongoReviewRepository{
		reviews:  db.Collection(reviewsCollection),
		feedback: db.Collection(feedbackCollection),
	}
}

type mongoReview struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	TargetKind  string             `bson:"target_type"`
	TargetID    string             `bson:"target_id"`
	Rating      int                `bson:"rating"`
	Text        string             `bson:"text"`
	IsModerated bool               `bson:"is_moderated"`
	CreatedAt   int64              `bson:"created_at"`
}

type mongoFeedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id,omitempty"`
	Name      string             `bson:"name"`
	Phone     string             `bson:"phone,omitempty"`
	Email     string             `bson:"email,omitempty"`
	Subject   string             `bson:"subject,omitempty"`
	Message   string             `bson:"message"`
	Status    string             `bson:"status"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *MongoReviewRepository) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	res, err := r.reviews.InsertOne(ctx, mongoReview{
		UserID:      review.UserID,
		TargetKind:  string(review.TargetKind),
		TargetID:    review.TargetID,
		Rating:      review.Rating,
		Text:        review.Text,
		IsModerated: review.IsModerated,
		CreatedAt:   review.CreatedAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	created := *review
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoReviewRepository) CreateFeedback(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	res, err := r.feedback.InsertOne(ctx, mongoFeedback{
		UserID:    fb.UserID,
		Name:      fb.Name,
		Phone:     fb.Phone,
		Email:     fb.Email,
		Subject:   fb.Subject,
		Message:   fb.Message,
		Status:    fb.Status,
		CreatedAt: fb.CreatedAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}

	created := *fb
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}
