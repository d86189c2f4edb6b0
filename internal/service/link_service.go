package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"garage/internal/domain"
	"garage/internal/dto"
	"garage/internal/store"
)

// LinkService runs the claim and create protocols that attach a car to a
// user's account.
type LinkService struct {
	store  *store.Store
	hasher *CredentialHasher
	images *ImageService
}

func NewLinkService(st *store.Store, hasher *CredentialHasher, images *ImageService) *LinkService {
	return &LinkService{store: st, hasher: hasher, images: images}
}

// LinkCar claims an existing car by license plate and PIN. The first linked
// car becomes the user's primary; the link is stamped as last used and the
// user's last-used pointer follows it.
func (s *LinkService) LinkCar(ctx context.Context, userID domain.UserID, req dto.LinkCarRequest) (dto.LinkCarResponse, error) {
	plate := domain.NormalizePlate(req.LicensePlate)
	if plate == "" {
		return dto.LinkCarResponse{}, fmt.Errorf("%w: licensePlate required", ErrInvalidRequest)
	}
	if req.PinCode == "" {
		return dto.LinkCarResponse{}, fmt.Errorf("%w: pinCode required", ErrInvalidRequest)
	}

	var (
		car       *domain.Car
		isPrimary bool
	)
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		var err error
		car, err = tx.Cars().GetByPlate(ctx, plate)
		if err != nil {
			if err == store.ErrRecordNotFound {
				return domain.ErrCarNotFound
			}
			return err
		}
		if !s.hasher.Verify(car.PinHash, req.PinCode) {
			return domain.ErrInvalidPIN
		}
		if _, err := tx.Links().Get(ctx, userID, car.ID); err == nil {
			return domain.ErrAlreadyLinked
		} else if err != store.ErrRecordNotFound {
			return err
		}
		isPrimary, err = s.createLink(ctx, tx, userID, car.ID)
		return err
	})
	if err != nil {
		return dto.LinkCarResponse{}, err
	}
	return dto.LinkCarResponse{Car: s.images.CarPayload(car), IsPrimary: isPrimary}, nil
}

// CreateCar registers a brand-new car and links it in one transaction. A
// supplied image is processed best-effort: its failure never aborts the
// creation, but a fatal failure after the blob write cleans the blob up so a
// rolled-back car leaves nothing behind.
func (s *LinkService) CreateCar(ctx context.Context, userID domain.UserID, req dto.CreateCarRequest) (dto.CreateCarResponse, error) {
	plate := domain.NormalizePlate(req.LicensePlate)
	if plate == "" {
		return dto.CreateCarResponse{}, fmt.Errorf("%w: licensePlate required", ErrInvalidRequest)
	}
	if !ValidPIN(req.PinCode) {
		return dto.CreateCarResponse{}, fmt.Errorf("%w: pinCode must be 4-6 digits", ErrInvalidRequest)
	}
	pinHash, err := s.hasher.Hash(req.PinCode)
	if err != nil {
		return dto.CreateCarResponse{}, err
	}

	var vin *string
	if req.VIN != nil {
		if v := strings.ToUpper(strings.TrimSpace(*req.VIN)); v != "" {
			vin = &v
		}
	}

	var (
		car       *domain.Car
		isPrimary bool
		imageRef  string
	)
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.Cars().GetByPlate(ctx, plate); err == nil {
			return domain.ErrDuplicatePlate
		} else if err != store.ErrRecordNotFound {
			return err
		}
		if vin != nil {
			if _, err := tx.Cars().GetByVIN(ctx, *vin); err == nil {
				return domain.ErrDuplicateVIN
			} else if err != store.ErrRecordNotFound {
				return err
			}
		}

		car = &domain.Car{
			LicensePlate: plate,
			PinHash:      pinHash,
			Brand:        req.Brand,
			Model:        req.Model,
			Year:         req.Year,
			Color:        req.Color,
			VIN:          vin,
		}
		if err := tx.Cars().Create(ctx, car); err != nil {
			if store.IsDuplicate(err) {
				// Lost a creation race after the pre-checks passed.
				return domain.ErrDuplicatePlate
			}
			return err
		}

		if req.CarImage != "" {
			if ref, err := s.attachCarFromBase64(ctx, tx, car, req.CarImage); err != nil {
				slog.Warn("car image skipped during creation", "car_id", car.ID, "error", err)
			} else {
				imageRef = ref
				car.ImageRef = &ref
			}
		}

		var err error
		isPrimary, err = s.createLink(ctx, tx, userID, car.ID)
		return err
	})
	if err != nil {
		// The transaction rolled the car back; the blob is outside it.
		if imageRef != "" {
			s.images.blobs.Delete(imageRef)
		}
		return dto.CreateCarResponse{}, err
	}

	payload := s.images.CarPayload(car)
	return dto.CreateCarResponse{Car: payload, IsPrimary: isPrimary, ImageURL: payload.ImageURL}, nil
}

func (s *LinkService) attachCarFromBase64(ctx context.Context, tx *store.Store, car *domain.Car, encoded string) (string, error) {
	data, err := DecodeDataURI(encoded)
	if err != nil {
		return "", err
	}
	ext, err := ValidateImage(data)
	if err != nil {
		return "", err
	}
	return s.images.attachCar(ctx, tx, car, data, ext)
}

// createLink inserts the ownership link, forcing primary for the user's
// first car, and mirrors the car into the user's last-used pointer. A
// concurrent duplicate insert surfaces as AlreadyLinked.
func (s *LinkService) createLink(ctx context.Context, tx *store.Store, userID domain.UserID, carID domain.CarID) (bool, error) {
	count, err := tx.Links().CountForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	isPrimary := count == 0

	now := time.Now().UTC()
	link := &domain.CarLink{
		UserID:     userID,
		CarID:      carID,
		IsPrimary:  isPrimary,
		LastUsedAt: &now,
	}
	if err := tx.Links().Create(ctx, link); err != nil {
		if store.IsDuplicate(err) {
			return false, domain.ErrAlreadyLinked
		}
		return false, err
	}
	if err := tx.Users().SetLastUsedCar(ctx, userID, &carID); err != nil {
		return false, err
	}
	return isPrimary, nil
}
