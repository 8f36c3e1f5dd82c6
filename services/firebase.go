package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// FirebaseService handles Firebase Cloud Storage operations
type FirebaseService struct {
	bucket *storage.BucketHandle
	now    func() time.Time
}

// NewFirebaseService creates a new Firebase service
// credentialsJSON should be the content of the service account JSON file
func NewFirebaseService(ctx context.Context, credentialsJSON string, storageBucket string) (*FirebaseService, error) {
	opt := option.WithCredentialsJSON([]byte(credentialsJSON))
	config := &firebase.Config{
		StorageBucket: storageBucket,
	}

	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting storage client: %w", err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error getting default bucket: %w", err)
	}

	return &FirebaseService{bucket: bucket, now: time.Now}, nil
}

// UploadFile uploads an export and returns its public URL
func (s *FirebaseService) UploadFile(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	// date prefix keeps exports from colliding across days
	objectPath := fmt.Sprintf("exports/%s/%s", s.now().Format("2006-01-02"), filename)

	obj := s.bucket.Object(objectPath)
	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "private, max-age=3600"

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("failed to write to storage: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %w", err)
	}

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get object attrs: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", attrs.Bucket, attrs.Name), nil
}
