package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// LimiterStorage adapts Valkey to fiber's Storage interface so the
// per-IP rate limiter shares its counters across API instances. It uses
// its own client on a dedicated logical database, keeping Reset from
// touching anything else.
type LimiterStorage struct {
	client valkey.Client
}

// NewLimiterStorage connects to Valkey selecting the given logical DB.
func NewLimiterStorage(addr string, db int) (*LimiterStorage, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
		SelectDB:    db,
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &LimiterStorage{client: client}, nil
}

// Get returns the value for key, or nil when the key is absent.
func (s *LimiterStorage) Get(key string) ([]byte, error) {
	ctx := context.Background()
	cmd := s.client.Do(ctx, s.client.B().Get().Key(key).Build())
	if err := cmd.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return cmd.AsBytes()
}

// Set stores a value; exp of zero means no expiry.
func (s *LimiterStorage) Set(key string, val []byte, exp time.Duration) error {
	ctx := context.Background()
	if exp > 0 {
		return s.client.Do(ctx, s.client.B().Set().Key(key).Value(string(val)).Ex(exp).Build()).Error()
	}
	return s.client.Do(ctx, s.client.B().Set().Key(key).Value(string(val)).Build()).Error()
}

// Delete removes a key.
func (s *LimiterStorage) Delete(key string) error {
	return s.client.Do(context.Background(), s.client.B().Del().Key(key).Build()).Error()
}

// Reset flushes the limiter's logical database.
func (s *LimiterStorage) Reset() error {
	return s.client.Do(context.Background(), s.client.B().Flushdb().Build()).Error()
}

// Close releases the client.
func (s *LimiterStorage) Close() error {
	s.client.Close()
	return nil
}
