package usecases

import (
	"errors"
	"testing"

	"github.com/benchpoint/benchpoint/internal/core/domain"
)

func TestOwnershipGuard(t *testing.T) {
	var g OwnershipGuard

	if err := g.Allow(42, 42); err != nil {
		t.Errorf("owner denied: %v", err)
	}
	if err := g.Allow(42, 7); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-owner allowed, got %v", err)
	}
}
