package catalog

import (
	"context"
	"errors"
	"fmt"

	"cockpit-fit-workers/internal/common/logger"
	"cockpit-fit-workers/internal/models"
)

var ErrGeometryUnavailable = errors.New("frame geometry unavailable")

type Store interface {
	GetFrame(ctx context.Context, id string) (*models.Frame, error)
	GetBike(ctx context.Context, bikeID, userID string) (*models.Bike, error)
}

// Resolver loads frames cache-aside and resolves bike geometry. A nil cache
// disables caching; cache failures are logged and otherwise ignored.
type Resolver struct {
	store  Store
	cache  *Cache
	logger logger.Logger
}

func NewResolver(store Store, cache *Cache, log logger.Logger) *Resolver {
	return &Resolver{store: store, cache: cache, logger: log}
}

func (r *Resolver) Frame(ctx context.Context, id string) (*models.Frame, error) {
	if r.cache != nil {
		frame, err := r.cache.GetFrame(ctx, id)
		if err != nil {
			r.logger.Warn("frame cache read failed", map[string]interface{}{
				"frameId": id,
				"error":   err.Error(),
			})
		}
		if frame != nil {
			return frame, nil
		}
	}

	frame, err := r.store.GetFrame(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.SetFrame(ctx, frame); err != nil {
			r.logger.Warn("frame cache write failed", map[string]interface{}{
				"frameId": id,
				"error":   err.Error(),
			})
		}
	}
	return frame, nil
}

// ForFrame resolves a catalog frame directly.
func (r *Resolver) ForFrame(ctx context.Context, frameID string) (ResolvedGeometry, error) {
	frame, err := r.Frame(ctx, frameID)
	if err != nil {
		return ResolvedGeometry{}, err
	}
	resolved, _ := ResolveFrameGeometry(models.Bike{}, frame)
	return resolved, nil
}

// ForBike resolves the geometry of a rider's bike. The catalog is only read
// when the bike has no manual geometry.
func (r *Resolver) ForBike(ctx context.Context, bikeID, userID string) (ResolvedGeometry, *models.Bike, error) {
	bike, err := r.store.GetBike(ctx, bikeID, userID)
	if err != nil {
		return ResolvedGeometry{}, nil, err
	}

	var frame *models.Frame
	if !bike.HasManualGeometry() && bike.FrameID != nil {
		frame, err = r.Frame(ctx, *bike.FrameID)
		if errors.Is(err, ErrFrameNotFound) {
			frame = nil
		} else if err != nil {
			return ResolvedGeometry{}, bike, err
		}
	}

	resolved, ok := ResolveFrameGeometry(*bike, frame)
	if !ok {
		return ResolvedGeometry{}, bike, fmt.Errorf("%w: bike %s", ErrGeometryUnavailable, bikeID)
	}
	return resolved, bike, nil
}
