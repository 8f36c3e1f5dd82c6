package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDBService struct {
	client                *mongo.Client
	database              *mongo.Database
	usersCollection       *mongo.Collection
	searchesCollection    *mongo.Collection
	transactionCollection *mongo.Collection
	alertCollection       *mongo.Collection
}

var _ Store = (*MongoDBService)(nil)

func NewMongoDBService(ctx context.Context, uri, dbName string, timeout time.Duration) (*MongoDBService, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(dbName)
	s := &MongoDBService{
		client:                client,
		database:              database,
		usersCollection:       database.Collection("users"),
		searchesCollection:    database.Collection("searches"),
		transactionCollection: database.Collection("transactions"),
		alertCollection:       database.Collection("esd_alerts"),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

func (s *MongoDBService) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.searchesCollection, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}}},
		{s.usersCollection, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.transactionCollection, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}}},
		{s.alertCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "category", Value: 1}, {Key: "chatId", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	}

	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

func (s *MongoDBService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// InsertSearch stores a chat query log entry
func (s *MongoDBService) InsertSearch(ctx context.Context, entry *SearchLog) (string, error) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if _, err := s.searchesCollection.InsertOne(ctx, entry); err != nil {
		return "", fmt.Errorf("failed to insert search log: %w", err)
	}
	return entry.ID.Hex(), nil
}

// ListSearches returns chat logs newest first
func (s *MongoDBService) ListSearches(ctx context.Context, filter SearchFilter) ([]SearchLog, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	if !filter.Since.IsZero() {
		query["timestamp"] = bson.M{"$gte": filter.Since}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(searchLimit(filter.Limit)))
	cursor, err := s.searchesCollection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find searches: %w", err)
	}
	defer cursor.Close(ctx)

	results := []SearchLog{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode searches: %w", err)
	}
	return results, nil
}

// RegisterUser creates a user, failing with ErrUserExists on a known email
func (s *MongoDBService) RegisterUser(ctx context.Context, email, name string) (*User, error) {
	var existing User
	err := s.usersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	now := time.Now()
	user := &User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		LastLogin: now,
	}
	if _, err := s.usersCollection.InsertOne(ctx, user); err != nil {
		// unique index catches a concurrent registration
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// LoginUser finds or creates the user and stamps lastLogin
func (s *MongoDBService) LoginUser(ctx context.Context, email, name string) (*User, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"lastLogin": now,
			"name":      loginName(name),
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var user User
	if err := s.usersCollection.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &user, nil
}

// ListUsers returns users by most recent login
func (s *MongoDBService) ListUsers(ctx context.Context, limit int) ([]User, error) {
	opts := options.Find().
		SetProjection(bson.M{"email": 1, "name": 1, "createdAt": 1, "lastLogin": 1}).
		SetSort(bson.D{{Key: "lastLogin", Value: -1}}).
		SetLimit(int64(userLimit(limit)))

	cursor, err := s.usersCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// InsertTransaction appends a transaction
func (s *MongoDBService) InsertTransaction(ctx context.Context, tx *Transaction) (string, error) {
	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	if _, err := s.transactionCollection.InsertOne(ctx, tx); err != nil {
		return "", fmt.Errorf("failed to insert transaction: %w", err)
	}
	return tx.ID.Hex(), nil
}

// ListTransactions returns transactions newest first
func (s *MongoDBService) ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	window := bson.M{}
	if !filter.Since.IsZero() {
		window["$gte"] = filter.Since
	}
	if !filter.Until.IsZero() {
		window["$lt"] = filter.Until
	}
	if len(window) > 0 {
		query["timestamp"] = window
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := s.transactionCollection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", err)
	}
	defer cursor.Close(ctx)

	txs := []Transaction{}
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return txs, nil
}

// SaveAlerts upserts alerts keyed by user, category and triggering chat and
// writes the stored id and createdAt back into the slice
func (s *MongoDBService) SaveAlerts(ctx context.Context, alerts []Alert) error {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	for i := range alerts {
		a := alerts[i]
		filter := bson.M{
			"userId":   a.UserID,
			"category": a.Category,
			"chatId":   a.ChatID,
		}
		update := bson.M{
			"$set": bson.M{
				"trigger":     a.Trigger,
				"keyword":     a.Keyword,
				"windowStart": a.WindowStart,
				"windowEnd":   a.WindowEnd,
				"spend":       a.Spend,
				"expected":    a.Expected,
				"ratio":       a.Ratio,
			},
			"$setOnInsert": bson.M{
				"createdAt": a.CreatedAt,
			},
		}
		if err := s.alertCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&alerts[i]); err != nil {
			return fmt.Errorf("failed to save alert for %s: %w", a.Category, err)
		}
	}
	return nil
}

// ListAlerts returns a user's alerts newest first
func (s *MongoDBService) ListAlerts(ctx context.Context, userID string, limit int) ([]Alert, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "windowStart", Value: -1}}).
		SetLimit(int64(searchLimit(limit)))

	cursor, err := s.alertCollection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find alerts: %w", err)
	}
	defer cursor.Close(ctx)

	alerts := []Alert{}
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}
	return alerts, nil
}

func (s *MongoDBService) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
