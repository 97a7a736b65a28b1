package storage

// StoredImage describes a persisted upload. ThumbnailURL is empty when no
// thumbnail variant could be generated for the format.
type StoredImage struct {
	URL          string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	ObjectKey    string `json:"-"`
	Path         string `json:"-"`
}

// MediaStore persists uploaded image bytes and returns publicly resolvable
// URLs for them.
type MediaStore interface {
	Save(data []byte, originalName string) (*StoredImage, error)
}
