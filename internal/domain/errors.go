package domain

import "errors"

var (
	ErrCarNotFound        = errors.New("car not found")
	ErrInvalidPIN         = errors.New("invalid pin")
	ErrAlreadyLinked      = errors.New("car already linked")
	ErrNotLinked          = errors.New("car not linked to user")
	ErrSoleCar            = errors.New("cannot unlink the only car")
	ErrDuplicatePlate     = errors.New("license plate already registered")
	ErrDuplicateVIN       = errors.New("vin already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)
