package usecases

import "github.com/benchpoint/benchpoint/internal/core/domain"

// OwnershipGuard decides whether an identity may mutate a marker.
// It is stateless: the caller fetches the marker first, so a denial
// here is always Forbidden, never Not-Found.
type OwnershipGuard struct{}

// Allow returns nil when actorID owns the marker.
func (OwnershipGuard) Allow(ownerID, actorID int64) error {
	if ownerID != actorID {
		return domain.ErrForbidden
	}
	return nil
}
