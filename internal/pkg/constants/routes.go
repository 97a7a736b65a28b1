package constants

// Static route constants
const (
	APIRoute     = "/api"
	UploadsRoute = "/uploads"
	// Upload path without leading slash for directory construction
	UploadsPath = "uploads"
)
