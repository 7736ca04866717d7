package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agenda/backend/internal/domain"
	"agenda/backend/internal/store"
)

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

type NotificationRepo struct {
	coll *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) *NotificationRepo {
	return &NotificationRepo{coll: db.Collection("notifications")}
}

func (r *NotificationRepo) Append(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) (domain.Notification, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Notification{}, store.ErrNotFound
	}

	var out domain.Notification
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Notification{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Notification{}, err
	}
	return out, nil
}

func (r *NotificationRepo) ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []domain.Notification
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
