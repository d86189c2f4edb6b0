package dto

type LinkCarRequest struct {
	LicensePlate string `json:"licensePlate"`
	PinCode      string `json:"pinCode"`
}

type LinkCarResponse struct {
	Car       CarPayload `json:"car"`
	IsPrimary bool       `json:"isPrimary"`
}
