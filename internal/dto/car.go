package dto

import "garage/internal/domain"

// CarPayload is a Car as serialized to clients, with the resolved public
// image URL appended. The PIN hash never serializes (json:"-" on the model).
type CarPayload struct {
	domain.Car
	ImageURL *string `json:"imageUrl"`
}

type CreateCarRequest struct {
	LicensePlate string  `json:"licensePlate"`
	PinCode      string  `json:"pinCode"`
	Brand        *string `json:"brand"`
	Model        *string `json:"model"`
	Year         *int    `json:"year"`
	Color        *string `json:"color"`
	VIN          *string `json:"vin"`
	// CarImage optionally carries a base64 data URI; image processing is
	// best-effort and never fails the creation.
	CarImage string `json:"carImage,omitempty"`
}

type CreateCarResponse struct {
	Car       CarPayload `json:"car"`
	IsPrimary bool       `json:"isPrimary"`
	ImageURL  *string    `json:"imageUrl"`
}

type UserCarsResponse struct {
	Cars        []CarPayload `json:"cars"`
	LastUsedCar *CarPayload  `json:"lastUsedCar"`
	PrimaryCar  *CarPayload  `json:"primaryCar"`
}

type CarResponse struct {
	Car CarPayload `json:"car"`
}
