package store

import (
	"context"
	"time"

	"garage/internal/domain"

	"gorm.io/gorm"
)

type LinkStore struct{ db *gorm.DB }

func (s *Store) Links() *LinkStore { return &LinkStore{db: s.DB} }

func (l *LinkStore) Create(ctx context.Context, link *domain.CarLink) error {
	return l.db.WithContext(ctx).Create(link).Error
}

func (l *LinkStore) Get(ctx context.Context, userID domain.UserID, carID domain.CarID) (*domain.CarLink, error) {
	var link domain.CarLink
	err := l.db.WithContext(ctx).
		First(&link, "user_id = ? AND car_id = ?", userID, carID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (l *LinkStore) CountForUser(ctx context.Context, userID domain.UserID) (int64, error) {
	var total int64
	err := l.db.WithContext(ctx).Model(&domain.CarLink{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListForUser returns the user's links ordered most-recently-used first,
// never-used links last.
func (l *LinkStore) ListForUser(ctx context.Context, userID domain.UserID) ([]domain.CarLink, error) {
	var links []domain.CarLink
	err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_used_at IS NULL").
		Order("last_used_at DESC").
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (l *LinkStore) GetPrimary(ctx context.Context, userID domain.UserID) (*domain.CarLink, error) {
	var link domain.CarLink
	err := l.db.WithContext(ctx).
		First(&link, "user_id = ? AND is_primary = ?", userID, true).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &link, nil
}

// DemoteAll clears is_primary on every link of the user. Combined with a
// promote in the same transaction this keeps the one-primary invariant.
func (l *LinkStore) DemoteAll(ctx context.Context, userID domain.UserID) error {
	return l.db.WithContext(ctx).Model(&domain.CarLink{}).
		Where("user_id = ?", userID).
		Update("is_primary", false).Error
}

func (l *LinkStore) SetPrimary(ctx context.Context, userID domain.UserID, carID domain.CarID, primary bool) error {
	return l.db.WithContext(ctx).Model(&domain.CarLink{}).
		Where("user_id = ? AND car_id = ?", userID, carID).
		Update("is_primary", primary).Error
}

func (l *LinkStore) StampLastUsed(ctx context.Context, userID domain.UserID, carID domain.CarID, at time.Time) error {
	return l.db.WithContext(ctx).Model(&domain.CarLink{}).
		Where("user_id = ? AND car_id = ?", userID, carID).
		Update("last_used_at", at).Error
}

func (l *LinkStore) Delete(ctx context.Context, userID domain.UserID, carID domain.CarID) error {
	return l.db.WithContext(ctx).
		Delete(&domain.CarLink{}, "user_id = ? AND car_id = ?", userID, carID).Error
}
