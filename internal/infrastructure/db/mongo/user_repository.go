package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
)

const usersCollection = "users"

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	TelegramID      int64              `bson:"telegram_id"`
	Username        string             `bson:"username,omitempty"`
	FirstName       string             `bson:"first_name,omitempty"`
	LastName        string             `bson:"last_name,omitempty"`
	Role            string             `bson:"role"`
	Phone           string             `bson:"phone,omitempty"`
	Email           string             `bson:"email,omitempty"`
	DeliveryAddress string             `bson:"delivery_address,omitempty"`
	CreatedAt       int64              `bson:"created_at"`
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"telegram_id": telegramID}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		TelegramID:      user.TelegramID,
		Username:        user.Username,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Role:            string(user.Role),
		Phone:           user.Phone,
		Email:           user.Email,
		DeliveryAddress: user.DeliveryAddress,
		CreatedAt:       user.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		// A concurrent first login may have inserted the same telegram_id;
		// the existing record wins.
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByTelegramID(ctx, user.TelegramID)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// Update persists only the mutable profile fields. ID, telegram_id and
// role are deliberately absent from the $set document.
func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"username":         user.Username,
		"first_name":       user.FirstName,
		"last_name":        user.LastName,
		"phone":            user.Phone,
		"email":            user.Email,
		"delivery_address": user.DeliveryAddress,
	}})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:              mu.ID.Hex(),
		TelegramID:      mu.TelegramID,
		Username:        mu.Username,
		FirstName:       mu.FirstName,
		LastName:        mu.LastName,
		Role:            domain.UserRole(mu.Role),
		Phone:           mu.Phone,
		Email:           mu.Email,
		DeliveryAddress: mu.DeliveryAddress,
		CreatedAt:       unixToTime(mu.CreatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
