package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	SourceChat = "chat"
	SourceLine = "line"
)

// ChatLogger records chat queries without ever blocking or failing the
// conversation that produced them.
type ChatLogger struct {
	store   Store
	log     *logrus.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewChatLogger creates a chat logger. store may be nil, in which case
// entries are only written to the process log.
func NewChatLogger(store Store, log *logrus.Logger) *ChatLogger {
	return &ChatLogger{
		store:   store,
		log:     log,
		timeout: 5 * time.Second,
	}
}

// HasStore reports whether entries are persisted
func (l *ChatLogger) HasStore() bool {
	return l.store != nil
}

// Log persists the entry synchronously
func (l *ChatLogger) Log(ctx context.Context, entry *SearchLog) (string, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if l.store == nil {
		l.log.WithFields(entryFields(entry)).Info("Search (no DB)")
		return "", nil
	}
	return l.store.InsertSearch(ctx, entry)
}

// LogAsync persists the entry in the background. Failures are logged.
func (l *ChatLogger) LogAsync(ctx context.Context, entry SearchLog) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		// outlive the request that triggered the write
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()

		id, err := l.Log(ctx, &entry)
		if err != nil {
			l.log.WithError(err).WithFields(entryFields(&entry)).Error("Failed to insert search log")
			return
		}
		if id != "" {
			l.log.WithField("search_id", id).Debug("Search logged to DB")
		}
	}()
}

// Wait blocks until every pending background write has finished
func (l *ChatLogger) Wait() {
	l.wg.Wait()
}

func entryFields(entry *SearchLog) logrus.Fields {
	fields := logrus.Fields{"source": entry.Source}
	if entry.UserID != nil {
		fields["user_id"] = *entry.UserID
	}
	if entry.Query != nil {
		fields["query"] = *entry.Query
	}
	return fields
}
