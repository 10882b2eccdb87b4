package workflows

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/benchpoint/benchpoint/internal/core/ports"
)

// SweepActivities holds the activity implementations for the image
// sweep workflow.
type SweepActivities struct {
	Markers ports.MarkerRepository
	Images  ports.ObjectStore
}

// ListStoredKeys returns every object key currently in the image bucket.
func (a *SweepActivities) ListStoredKeys(ctx context.Context) ([]string, error) {
	keys, err := a.Images.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored objects: %w", err)
	}
	return keys, nil
}

// ListReferencedKeys returns the object keys referenced by marker rows.
// Image URLs are public-base + "/" + key, so the key is the last path
// segment.
func (a *SweepActivities) ListReferencedKeys(ctx context.Context) ([]string, error) {
	urls, err := a.Markers.ListImageURLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list referenced image urls: %w", err)
	}
	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		if idx := strings.LastIndexByte(u, '/'); idx >= 0 && idx < len(u)-1 {
			keys = append(keys, u[idx+1:])
		}
	}
	return keys, nil
}

// DeleteObject removes a single orphaned object from the bucket.
func (a *SweepActivities) DeleteObject(ctx context.Context, key string) error {
	if err := a.Images.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	slog.Info("orphaned image deleted", "key", key)
	return nil
}
