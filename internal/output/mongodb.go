// internal/output/mongodb.go
package output

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dechora/itemscout/pkg/api"
)

// MongoDBWriter writes items to a MongoDB collection.
type MongoDBWriter struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

// NewMongoDBWriter connects to MongoDB and targets the given collection.
func NewMongoDBWriter(connectionString, database, collection string) (*MongoDBWriter, error) {
	if connectionString == "" {
		return nil, fmt.Errorf("MongoDB connection string is required")
	}
	if database == "" {
		return nil, fmt.Errorf("MongoDB database name is required")
	}
	if collection == "" {
		collection = "items"
	}

	timeout := 10 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoDBWriter{
		client:     client,
		collection: client.Database(database).Collection(collection),
		timeout:    timeout,
	}, nil
}

// Write inserts the items as documents. Absent metadata fields are stored as
// nulls so queries can distinguish "not found" from empty strings.
func (w *MongoDBWriter) Write(items []*api.Item) error {
	if len(items) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(items))
	now := time.Now()
	for _, item := range items {
		docs = append(docs, bson.M{
			"image_url":        item.ImageURL,
			"product_name":     item.ProductName,
			"product_category": item.ProductCategory,
			"manufacturer":     item.Manufacturer,
			"page_url":         item.PageURL,
			"product_page_url": item.ProductPageURL,
			"created_at":       now,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if _, err := w.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert items: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (w *MongoDBWriter) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	return w.client.Disconnect(ctx)
}
