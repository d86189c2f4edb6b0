package dto

// ImageUploadRequest is the JSON intake path for React Native clients that
// send a base64 data URI instead of a multipart file.
type ImageUploadRequest struct {
	Image string `json:"image"`
}

type ImageUploadResponse struct {
	ImageURL *string     `json:"imageUrl"`
	Car      *CarPayload `json:"car,omitempty"`
}

type ImageDeleteResponse struct {
	Deleted bool        `json:"deleted"`
	Car     *CarPayload `json:"car,omitempty"`
}
