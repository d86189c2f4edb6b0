package domain

import (
	"strings"
	"time"
)

type Car struct {
	ID           CarID     `gorm:"type:uuid;primaryKey" json:"id"`
	LicensePlate string    `gorm:"type:text;not null;uniqueIndex:ux_cars_license_plate" json:"licensePlate"`
	PinHash      string    `gorm:"type:text;not null" json:"-"`
	Brand        *string   `gorm:"type:text" json:"brand"`
	Model        *string   `gorm:"type:text" json:"model"`
	Year         *int      `json:"year"`
	Color        *string   `gorm:"type:text" json:"color"`
	VIN          *string   `gorm:"type:text;uniqueIndex:ux_cars_vin" json:"vin"`
	ImageRef     *string   `gorm:"type:text" json:"imageRef"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (Car) TableName() string { return "cars" }

// NormalizePlate is the canonical form used for storage and lookup:
// uppercase with all whitespace removed.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}
