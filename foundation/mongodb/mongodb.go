// Package mongodb provides support for using MongoDB.
package mongodb

import (
	"context"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect attempts to connect to a mongo db instance. The credentials are
// optional when the host URI already carries them.
func Connect(ctx context.Context, host string, userName string, password string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(host)

	if userName != "" {
		clientOptions.SetAuth(options.Credential{
			Username: userName,
			Password: password,
		})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}

	return client, nil
}

// CreateCollection will create the specified collection in the specified
// database if it doesn't already exist.
func CreateCollection(ctx context.Context, db *mongo.Database, collectionName string) (*mongo.Collection, error) {
	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("listCollectionNames: %w", err)
	}

	if slices.Contains(names, collectionName) {
		return db.Collection(collectionName), nil
	}

	if err := db.CreateCollection(ctx, collectionName); err != nil {
		return nil, fmt.Errorf("createCollection: %w", err)
	}

	return db.Collection(collectionName), nil
}
