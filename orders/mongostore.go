package orders

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thor8126/ProShop/models"
)

// MongoStore stores orders in the orders collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Create(ctx context.Context, order *models.Order) error {
	_, err := s.coll.InsertOne(ctx, order)
	return err
}

func (s *MongoStore) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	cur, err := s.coll.Find(ctx, bson.M{"userid": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var list []models.Order
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *MongoStore) ListAll(ctx context.Context) ([]models.Order, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var list []models.Order
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *MongoStore) MarkPaid(ctx context.Context, orderID string, at time.Time) (*models.Order, error) {
	return s.setFlag(ctx, orderID, bson.M{
		"is_paid":    true,
		"paid_at":    at,
		"updated_at": at,
	})
}

func (s *MongoStore) MarkDelivered(ctx context.Context, orderID string, at time.Time) (*models.Order, error) {
	return s.setFlag(ctx, orderID, bson.M{
		"is_delivered": true,
		"delivered_at": at,
		"updated_at":   at,
	})
}

func (s *MongoStore) setFlag(ctx context.Context, orderID string, set bson.M) (*models.Order, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var order models.Order
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"orderid": orderID}, bson.M{"$set": set}, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
