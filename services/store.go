package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

const (
	maxSearchResults = 1000
	maxUserResults   = 100
)

// User represents a registered account
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	LastLogin time.Time          `bson:"lastLogin" json:"lastLogin"`
}

// SearchLog is one logged chat query
type SearchLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    *string            `bson:"userId" json:"userId"`
	Query     *string            `bson:"query" json:"query"`
	Income    *float64           `bson:"income" json:"income"`
	Goal      *string            `bson:"goal" json:"goal"`
	Source    string             `bson:"source" json:"source"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Transaction is a single logged expense
type Transaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string             `bson:"userId" json:"userId"`
	Amount    float64            `bson:"amount" json:"amount"`
	Category  string             `bson:"category" json:"category"`
	Merchant  string             `bson:"merchant,omitempty" json:"merchant,omitempty"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Alert is an emotional-spending finding for one category and episode
type Alert struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      string             `bson:"userId" json:"userId"`
	Category    string             `bson:"category" json:"category"`
	ChatID      primitive.ObjectID `bson:"chatId" json:"chatId"`
	Trigger     string             `bson:"trigger" json:"trigger"`
	Keyword     string             `bson:"keyword" json:"keyword"`
	WindowStart time.Time          `bson:"windowStart" json:"windowStart"`
	WindowEnd   time.Time          `bson:"windowEnd" json:"windowEnd"`
	Spend       float64            `bson:"spend" json:"spend"`
	Expected    float64            `bson:"expected" json:"expected"`
	Ratio       float64            `bson:"ratio" json:"ratio"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// SearchFilter narrows ListSearches. Zero values mean "no constraint".
type SearchFilter struct {
	UserID string
	Since  time.Time
	Limit  int
}

// TransactionFilter narrows ListTransactions. Zero values mean "no constraint".
type TransactionFilter struct {
	UserID string
	Since  time.Time
	Until  time.Time
	Limit  int
}

// Store is the persistence boundary used by handlers and services.
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	InsertSearch(ctx context.Context, entry *SearchLog) (string, error)
	ListSearches(ctx context.Context, filter SearchFilter) ([]SearchLog, error)

	RegisterUser(ctx context.Context, email, name string) (*User, error)
	LoginUser(ctx context.Context, email, name string) (*User, error)
	ListUsers(ctx context.Context, limit int) ([]User, error)

	InsertTransaction(ctx context.Context, tx *Transaction) (string, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error)

	// SaveAlerts upserts and fills in each alert's stored ID and CreatedAt
	SaveAlerts(ctx context.Context, alerts []Alert) error
	ListAlerts(ctx context.Context, userID string, limit int) ([]Alert, error)
}

func searchLimit(limit int) int {
	if limit <= 0 || limit > maxSearchResults {
		return maxSearchResults
	}
	return limit
}

func userLimit(limit int) int {
	if limit <= 0 || limit > maxUserResults {
		return maxUserResults
	}
	return limit
}

func loginName(name string) string {
	if name == "" {
		return "User"
	}
	return name
}
