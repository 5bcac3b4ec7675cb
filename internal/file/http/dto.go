package http

import "github.com/nekogravitycat/lodging-reservation-backend/internal/file"

// FileUploadResponse is returned after a successful upload.
type FileUploadResponse struct {
	Message      string  `json:"message"`
	FileID       string  `json:"file_id"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
}

// NewFileUploadResponse builds the public URLs of an uploaded file.
func NewFileUploadResponse(f *file.File) FileUploadResponse {
	var thumbURL *string
	if f.ThumbnailPath != nil {
		t := file.ThumbnailURL(f.ID)
		thumbURL = &t
	}
	return FileUploadResponse{
		Message:      "file uploaded successfully",
		FileID:       f.ID,
		URL:          file.FileURL(f.ID),
		ThumbnailURL: thumbURL,
	}
}
