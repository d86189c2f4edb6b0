package store

import (
	"context"

	"garage/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CarStore struct{ db *gorm.DB }

func (s *Store) Cars() *CarStore { return &CarStore{db: s.DB} }

func (c *CarStore) Create(ctx context.Context, car *domain.Car) error {
	if car.ID == uuid.Nil {
		car.ID = uuid.New()
	}
	return c.db.WithContext(ctx).Create(car).Error
}

func (c *CarStore) GetByID(ctx context.Context, id domain.CarID) (*domain.Car, error) {
	var car domain.Car
	if err := c.db.WithContext(ctx).First(&car, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &car, nil
}

// GetByPlate looks up by the normalized license plate. Callers normalize
// before calling; storage only ever holds normalized plates.
func (c *CarStore) GetByPlate(ctx context.Context, plate string) (*domain.Car, error) {
	var car domain.Car
	if err := c.db.WithContext(ctx).First(&car, "license_plate = ?", plate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &car, nil
}

func (c *CarStore) GetByVIN(ctx context.Context, vin string) (*domain.Car, error) {
	var car domain.Car
	if err := c.db.WithContext(ctx).First(&car, "vin = ?", vin).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &car, nil
}

func (c *CarStore) Delete(ctx context.Context, id domain.CarID) error {
	return c.db.WithContext(ctx).Delete(&domain.Car{}, "id = ?", id).Error
}

func (c *CarStore) SetImageRef(ctx context.Context, id domain.CarID, ref *string) error {
	return c.db.WithContext(ctx).Model(&domain.Car{}).
		Where("id = ?", id).
		Update("image_ref", ref).Error
}
