// Package mongodb archives aggregated stock snapshots. The spreadsheet is
// freely editable by staff, so a nightly snapshot in a real database is the
// only stock history that survives retroactive edits.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/craftline/stockdesk/internal/domain/models"
)

// Repository defines the interface for snapshot storage.
type Repository interface {
	SaveSnapshot(ctx context.Context, snapshot models.StockSnapshot) error
	LatestSnapshot(ctx context.Context) (*models.StockSnapshot, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "stock_snapshots",
	}, nil
}

// SaveSnapshot stores an aggregated snapshot document.
func (r *MongoDBRepository) SaveSnapshot(ctx context.Context, snapshot models.StockSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}

	collection := r.client.Database(r.dbName).Collection(r.collName)
	if _, err := collection.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert stock snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently archived snapshot, or nil when
// nothing has been archived yet.
func (r *MongoDBRepository) LatestSnapshot(ctx context.Context) (*models.StockSnapshot, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var snapshot models.StockSnapshot
	err := collection.FindOne(ctx, bson.D{}, opts).Decode(&snapshot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	return &snapshot, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
