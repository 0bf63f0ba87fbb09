package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// SupabaseStore uploads objects into one Supabase Storage bucket.
type SupabaseStore struct {
	baseURL string
	key     string
	bucket  string
}

func NewSupabaseStore(supabaseURL, key, bucket string) *SupabaseStore {
	base := strings.TrimRight(supabaseURL, "/")
	return &SupabaseStore{
		baseURL: base,
		key:     key,
		bucket:  bucket,
	}
}

// client returns a fresh storage client. storage-go keeps per-upload options
// in the client's header map, so clients are not shared between uploads.
func (s *SupabaseStore) client() *storage.Client {
	return storage.NewClient(s.baseURL+"/storage/v1", s.key, nil)
}

// Put uploads data at path inside the bucket and returns its public URL.
// storage-go takes no context, so the upload runs in its own goroutine and
// Put returns ctx.Err() as soon as ctx is done. A completed upload is never
// reported as a failure.
func (s *SupabaseStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	done := make(chan error, 1)
	go func() {
		upsert := false
		_, err := s.client().UploadFile(s.bucket, path, bytes.NewReader(data), storage.FileOptions{
			ContentType: &contentType,
			Upsert:      &upsert,
		})
		done <- err
	}()

	select {
	case err := <-done:
		return s.result(path, err)
	case <-ctx.Done():
		select {
		case err := <-done:
			return s.result(path, err)
		default:
			return "", ctx.Err()
		}
	}
}

func (s *SupabaseStore) result(path string, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("supabase upload %s: %w", path, err)
	}
	return s.PublicURL(path), nil
}

func (s *SupabaseStore) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
}
