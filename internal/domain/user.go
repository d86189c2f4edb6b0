package domain

import "time"

type User struct {
	ID            UserID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"type:text;not null" json:"name"`
	Email         string    `gorm:"type:text;not null;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash  string    `gorm:"type:text;not null" json:"-"`
	ProfileImage  *string   `gorm:"type:text" json:"profileImage"`
	LastUsedCarID *CarID    `gorm:"type:uuid" json:"lastUsedCarId"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
