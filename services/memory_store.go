package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps every collection in process memory. It backs
// STORE_DRIVER=memory for local runs and the handler tests.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[string]*User
	searches     []SearchLog
	transactions []Transaction
	alerts       []Alert
	now          func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*User),
		now:   time.Now,
	}
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) InsertSearch(ctx context.Context, entry *SearchLog) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	m.searches = append(m.searches, *entry)
	return entry.ID.Hex(), nil
}

func (m *MemoryStore) ListSearches(ctx context.Context, filter SearchFilter) ([]SearchLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []SearchLog{}
	for _, s := range m.searches {
		if filter.UserID != "" && (s.UserID == nil || *s.UserID != filter.UserID) {
			continue
		}
		if !filter.Since.IsZero() && s.Timestamp.Before(filter.Since) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit := searchLimit(filter.Limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) RegisterUser(ctx context.Context, email, name string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[email]; exists {
		return nil, ErrUserExists
	}

	now := m.now()
	user := &User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		LastLogin: now,
	}
	m.users[email] = user

	copied := *user
	return &copied, nil
}

func (m *MemoryStore) LoginUser(ctx context.Context, email, name string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	user, exists := m.users[email]
	if !exists {
		user = &User{
			ID:        primitive.NewObjectID(),
			Email:     email,
			CreatedAt: now,
		}
		m.users[email] = user
	}
	user.Name = loginName(name)
	user.LastLogin = now

	copied := *user
	return &copied, nil
}

func (m *MemoryStore) ListUsers(ctx context.Context, limit int) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].LastLogin.After(users[j].LastLogin)
	})
	if limit = userLimit(limit); len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (m *MemoryStore) InsertTransaction(ctx context.Context, tx *Transaction) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	m.transactions = append(m.transactions, *tx)
	return tx.ID.Hex(), nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Transaction{}
	for _, tx := range m.transactions {
		if filter.UserID != "" && tx.UserID != filter.UserID {
			continue
		}
		if !filter.Since.IsZero() && tx.Timestamp.Before(filter.Since) {
			continue
		}
		if !filter.Until.IsZero() && !tx.Timestamp.Before(filter.Until) {
			continue
		}
		out = append(out, tx)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MemoryStore) SaveAlerts(ctx context.Context, alerts []Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for n := range alerts {
		a := &alerts[n]
		replaced := false
		for i := range m.alerts {
			existing := &m.alerts[i]
			if existing.UserID == a.UserID && existing.Category == a.Category && existing.ChatID == a.ChatID {
				a.ID = existing.ID
				a.CreatedAt = existing.CreatedAt
				*existing = *a
				replaced = true
				break
			}
		}
		if !replaced {
			if a.ID.IsZero() {
				a.ID = primitive.NewObjectID()
			}
			m.alerts = append(m.alerts, *a)
		}
	}
	return nil
}

func (m *MemoryStore) ListAlerts(ctx context.Context, userID string, limit int) ([]Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Alert{}
	for _, a := range m.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].WindowStart.After(out[j].WindowStart)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit = searchLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
