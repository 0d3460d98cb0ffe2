package models

// MediaRef stores the bucket key alongside the public URL so deletes never
// have to reconstruct the key from the URL.
type MediaRef struct {
	Key string `json:"key"`
	URL string `json:"url"`

	ThumbKey string `json:"thumbKey,omitempty"`
	ThumbURL string `json:"thumbUrl,omitempty"`
}
