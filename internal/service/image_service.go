package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"garage/internal/domain"
	"garage/internal/dto"
	"garage/internal/storage"
	"garage/internal/store"
)

const (
	// MaxImageBytes caps uploads at 5 MiB, enforced before any blob write.
	MaxImageBytes = 5 << 20

	carImageWidth    = 600
	carImageHeight   = 400
	profileImageSize = 400
	imageQuality     = 80
)

// ImageService drives the attachment lifecycle: the database ref is the
// durable state, physical blob writes and deletes are best-effort around it.
type ImageService struct {
	store   *store.Store
	blobs   storage.BlobStore
	baseURL string
}

func NewImageService(st *store.Store, blobs storage.BlobStore, publicBaseURL string) *ImageService {
	return &ImageService{
		store:   st,
		blobs:   blobs,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// ResolveURL turns a stored ref into a public URL. Fully-qualified refs pass
// through untouched; relative refs get the configured base prepended.
func (s *ImageService) ResolveURL(ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	if u, err := url.Parse(*ref); err == nil && u.Scheme != "" && u.Host != "" {
		return ref
	}
	full := s.baseURL + "/storage/" + strings.TrimPrefix(*ref, "/")
	return &full
}

func (s *ImageService) CarPayload(car *domain.Car) dto.CarPayload {
	return dto.CarPayload{Car: *car, ImageURL: s.ResolveURL(car.ImageRef)}
}

// AttachCarImage replaces the car's image. Requires an existing link for
// (user, car); the old blob delete and the resize are both tolerated on
// failure, only the new blob write and the ref update can fail the call.
func (s *ImageService) AttachCarImage(ctx context.Context, userID domain.UserID, carID domain.CarID, data []byte) (dto.ImageUploadResponse, error) {
	ext, err := ValidateImage(data)
	if err != nil {
		return dto.ImageUploadResponse{}, err
	}

	var car *domain.Car
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.Links().Get(ctx, userID, carID); err != nil {
			if err == store.ErrRecordNotFound {
				return domain.ErrNotLinked
			}
			return err
		}
		car, err = tx.Cars().GetByID(ctx, carID)
		if err != nil {
			return err
		}
		ref, err := s.attachCar(ctx, tx, car, data, ext)
		if err != nil {
			return err
		}
		car.ImageRef = &ref
		return nil
	})
	if err != nil {
		return dto.ImageUploadResponse{}, err
	}

	payload := s.CarPayload(car)
	return dto.ImageUploadResponse{ImageURL: payload.ImageURL, Car: &payload}, nil
}

// attachCar writes the new blob, best-effort resizes it, and persists the
// ref via tx. Callers own transaction scope and link checks.
func (s *ImageService) attachCar(ctx context.Context, tx *store.Store, car *domain.Car, data []byte, ext string) (string, error) {
	if car.ImageRef != nil && !s.blobs.Delete(*car.ImageRef) {
		slog.Warn("previous car image not removed", "car_id", car.ID, "ref", *car.ImageRef)
	}

	ref := fmt.Sprintf("car_images/car_%s_%d%s", car.ID, time.Now().UnixNano(), ext)
	if err := s.blobs.Put(ref, data); err != nil {
		return "", fmt.Errorf("store car image: %w", err)
	}
	if err := s.blobs.Resize(ref, carImageWidth, carImageHeight, imageQuality); err != nil {
		slog.Warn("car image resize failed", "car_id", car.ID, "ref", ref, "error", err)
	}
	if err := tx.Cars().SetImageRef(ctx, car.ID, &ref); err != nil {
		return "", err
	}
	return ref, nil
}

// DeleteCarImage detaches the car's image. The ref is nulled even when the
// physical blob delete fails; storage cleanup never blocks the detach.
func (s *ImageService) DeleteCarImage(ctx context.Context, userID domain.UserID, carID domain.CarID) (dto.ImageDeleteResponse, error) {
	var (
		car     *domain.Car
		deleted bool
	)
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.Links().Get(ctx, userID, carID); err != nil {
			if err == store.ErrRecordNotFound {
				return domain.ErrNotLinked
			}
			return err
		}
		var err error
		car, err = tx.Cars().GetByID(ctx, carID)
		if err != nil {
			return err
		}
		if car.ImageRef != nil {
			deleted = s.blobs.Delete(*car.ImageRef)
		}
		car.ImageRef = nil
		return tx.Cars().SetImageRef(ctx, car.ID, nil)
	})
	if err != nil {
		return dto.ImageDeleteResponse{}, err
	}
	payload := s.CarPayload(car)
	return dto.ImageDeleteResponse{Deleted: deleted, Car: &payload}, nil
}

func (s *ImageService) AttachProfileImage(ctx context.Context, userID domain.UserID, data []byte) (dto.ImageUploadResponse, error) {
	ext, err := ValidateImage(data)
	if err != nil {
		return dto.ImageUploadResponse{}, err
	}

	var ref string
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		usr, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if usr.ProfileImage != nil && !s.blobs.Delete(*usr.ProfileImage) {
			slog.Warn("previous profile image not removed", "user_id", userID, "ref", *usr.ProfileImage)
		}
		ref = fmt.Sprintf("profile_images/user_%s_%d%s", userID, time.Now().UnixNano(), ext)
		if err := s.blobs.Put(ref, data); err != nil {
			return fmt.Errorf("store profile image: %w", err)
		}
		if err := s.blobs.Resize(ref, profileImageSize, profileImageSize, imageQuality); err != nil {
			slog.Warn("profile image resize failed", "user_id", userID, "ref", ref, "error", err)
		}
		return tx.Users().SetProfileImage(ctx, userID, &ref)
	})
	if err != nil {
		return dto.ImageUploadResponse{}, err
	}
	return dto.ImageUploadResponse{ImageURL: s.ResolveURL(&ref)}, nil
}

func (s *ImageService) DeleteProfileImage(ctx context.Context, userID domain.UserID) (dto.ImageDeleteResponse, error) {
	var deleted bool
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		usr, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if usr.ProfileImage != nil {
			deleted = s.blobs.Delete(*usr.ProfileImage)
		}
		return tx.Users().SetProfileImage(ctx, userID, nil)
	})
	if err != nil {
		return dto.ImageDeleteResponse{}, err
	}
	return dto.ImageDeleteResponse{Deleted: deleted}, nil
}

var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ValidateImage sniffs the payload and returns the file extension for the
// detected type. Only the fixed raster set is accepted, capped at 5 MiB.
func ValidateImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image payload", ErrInvalidRequest)
	}
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("%w: image exceeds 5MB", ErrInvalidRequest)
	}
	ext, ok := imageExts[http.DetectContentType(data)]
	if !ok {
		return "", fmt.Errorf("%w: only JPEG, PNG, GIF or WEBP images are accepted", ErrInvalidRequest)
	}
	return ext, nil
}

var dataURIRe = regexp.MustCompile(`^data:image/\w+;base64,`)

// DecodeDataURI decodes a `data:image/...;base64,` payload, the upload shape
// the React Native client sends when it can't do multipart.
func DecodeDataURI(s string) ([]byte, error) {
	m := dataURIRe.FindString(s)
	if m == "" {
		return nil, fmt.Errorf("%w: not a base64 image", ErrInvalidRequest)
	}
	data, err := base64.StdEncoding.DecodeString(s[len(m):])
	if err != nil {
		return nil, fmt.Errorf("%w: malformed base64 image", ErrInvalidRequest)
	}
	return data, nil
}
