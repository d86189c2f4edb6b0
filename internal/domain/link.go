package domain

import "time"

// CarLink is the join row between a user and a car. Per-pair state lives
// here: whether the car is the user's primary, and when it was last opened.
// A user has at most one link per car, and at most one primary link.
type CarLink struct {
	UserID     UserID     `gorm:"type:uuid;primaryKey;uniqueIndex:ux_user_car;index:ix_user_car_primary" json:"userId"`
	CarID      CarID      `gorm:"type:uuid;primaryKey;uniqueIndex:ux_user_car" json:"carId"`
	IsPrimary  bool       `gorm:"not null;default:false;index:ix_user_car_primary" json:"isPrimary"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (CarLink) TableName() string { return "user_car" }
