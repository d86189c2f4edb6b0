package service

import (
	"context"
	"time"

	"garage/internal/domain"
	"garage/internal/dto"
	"garage/internal/store"
)

// GarageService maintains per-user primacy and recency state: exactly one
// primary link while the user has cars, and a last-used pointer that always
// references a currently linked car.
type GarageService struct {
	store  *store.Store
	images *ImageService
}

func NewGarageService(st *store.Store, images *ImageService) *GarageService {
	return &GarageService{store: st, images: images}
}

// ListUserCars returns the user's cars ordered most-recently-used first,
// with the recency head and the primary car called out.
func (s *GarageService) ListUserCars(ctx context.Context, userID domain.UserID) (dto.UserCarsResponse, error) {
	links, err := s.store.Links().ListForUser(ctx, userID)
	if err != nil {
		return dto.UserCarsResponse{}, err
	}

	resp := dto.UserCarsResponse{Cars: make([]dto.CarPayload, 0, len(links))}
	for _, link := range links {
		car, err := s.store.Cars().GetByID(ctx, link.CarID)
		if err != nil {
			return dto.UserCarsResponse{}, err
		}
		payload := s.images.CarPayload(car)
		resp.Cars = append(resp.Cars, payload)
		if link.IsPrimary {
			resp.PrimaryCar = &payload
		}
	}
	if len(resp.Cars) > 0 {
		resp.LastUsedCar = &resp.Cars[0]
	}
	return resp, nil
}

// SetPrimary makes the linked car the user's single primary. Demote and
// promote run in one transaction so readers never observe zero or two
// primaries. Calling it on the current primary is a no-op that succeeds.
func (s *GarageService) SetPrimary(ctx context.Context, userID domain.UserID, carID domain.CarID) (dto.CarResponse, error) {
	var car *domain.Car
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.Links().Get(ctx, userID, carID); err != nil {
			if err == store.ErrRecordNotFound {
				return domain.ErrNotLinked
			}
			return err
		}
		if err := tx.Links().DemoteAll(ctx, userID); err != nil {
			return err
		}
		if err := tx.Links().SetPrimary(ctx, userID, carID, true); err != nil {
			return err
		}
		var err error
		car, err = tx.Cars().GetByID(ctx, carID)
		return err
	})
	if err != nil {
		return dto.CarResponse{}, err
	}
	return dto.CarResponse{Car: s.images.CarPayload(car)}, nil
}

// SetLastUsed stamps the link and mirrors the car into the user's
// denormalized last-used pointer.
func (s *GarageService) SetLastUsed(ctx context.Context, userID domain.UserID, carID domain.CarID) (dto.CarResponse, error) {
	var car *domain.Car
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.Links().Get(ctx, userID, carID); err != nil {
			if err == store.ErrRecordNotFound {
				return domain.ErrNotLinked
			}
			return err
		}
		now := time.Now().UTC()
		if err := tx.Links().StampLastUsed(ctx, userID, carID, now); err != nil {
			return err
		}
		if err := tx.Users().SetLastUsedCar(ctx, userID, &carID); err != nil {
			return err
		}
		var err error
		car, err = tx.Cars().GetByID(ctx, carID)
		return err
	})
	if err != nil {
		return dto.CarResponse{}, err
	}
	return dto.CarResponse{Car: s.images.CarPayload(car)}, nil
}

// Unlink removes the link, refusing to detach the user's only car. When the
// removed link was primary, the most-recently-used remaining link is
// promoted; the candidate read runs after the delete so the removed link can
// never re-elect itself. A stale last-used pointer is nulled out.
func (s *GarageService) Unlink(ctx context.Context, userID domain.UserID, carID domain.CarID) error {
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		link, err := tx.Links().Get(ctx, userID, carID)
		if err != nil {
			if err == store.ErrRecordNotFound {
				return domain.ErrNotLinked
			}
			return err
		}
		count, err := tx.Links().CountForUser(ctx, userID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return domain.ErrSoleCar
		}

		wasPrimary := link.IsPrimary
		if err := tx.Links().Delete(ctx, userID, carID); err != nil {
			return err
		}

		if wasPrimary {
			remaining, err := tx.Links().ListForUser(ctx, userID)
			if err != nil {
				return err
			}
			if len(remaining) > 0 {
				if err := tx.Links().DemoteAll(ctx, userID); err != nil {
					return err
				}
				if err := tx.Links().SetPrimary(ctx, userID, remaining[0].CarID, true); err != nil {
					return err
				}
			}
		}

		usr, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if usr.LastUsedCarID != nil && *usr.LastUsedCarID == carID {
			return tx.Users().SetLastUsedCar(ctx, userID, nil)
		}
		return nil
	})
}
