package infra

import (
	"context"
	"fmt"
	"time"

	"formgate/submission/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const defaultConnectTimeout = 5 * time.Second

// MongoStore grava cada registro como um documento numa coleção.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongoStore conecta e faz ping no primário; falha de ping é erro de
// inicialização, não um 500 na primeira submissão.
func OpenMongoStore(ctx context.Context, uri, database, collection string, timeout time.Duration) (*MongoStore, error) {
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Insert(ctx context.Context, rec domain.Record) (string, error) {
	res, err := s.coll.InsertOne(ctx, bson.M(rec))
	if err != nil {
		return "", err
	}
	switch id := res.InsertedID.(type) {
	case bson.ObjectID:
		return id.Hex(), nil
	default:
		return fmt.Sprint(id), nil
	}
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
