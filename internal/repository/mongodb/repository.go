package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/invest-advisor/internal/domain/models"
)

const (
	turnsCollection     = "conversation_turns"
	snapshotsCollection = "ledger_snapshots"
)

// Repository defines the archive operations backed by MongoDB.
type Repository interface {
	SaveTurn(ctx context.Context, sessionID string, turn models.ConversationTurn) error
	SaveLedgerSnapshot(ctx context.Context, snapshot models.LedgerSnapshot) error
}

var _ Repository = (*MongoDBRepository)(nil)

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
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
		client: client,
		dbName: dbName,
	}, nil
}

// SaveTurn archives one conversation turn.
func (r *MongoDBRepository) SaveTurn(ctx context.Context, sessionID string, turn models.ConversationTurn) error {
	doc := models.ArchivedTurn{SessionID: sessionID, ConversationTurn: turn}
	if _, err := r.collection(turnsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert conversation turn: %w", err)
	}
	return nil
}

// SaveLedgerSnapshot archives a point-in-time copy of the accounts.
func (r *MongoDBRepository) SaveLedgerSnapshot(ctx context.Context, snapshot models.LedgerSnapshot) error {
	if _, err := r.collection(snapshotsCollection).InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert ledger snapshot: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}
