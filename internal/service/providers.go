package service

import (
	"context"

	"github.com/volnyigory/storefront/internal/domain/model"
)

// AuthProvider is the session collaborator. The commerce core only reads
// whether a session exists and which user it belongs to.
type AuthProvider interface {
	CurrentUserID() (string, bool)
}

// PickupPointProvider supplies carrier pickup points for a declared city.
// Implemented by the CDEK proxy client and by the static sample provider.
type PickupPointProvider interface {
	PointsForCity(ctx context.Context, city string) ([]model.PickupPoint, error)
}
