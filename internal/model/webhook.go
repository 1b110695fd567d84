package model

// FileRecord is one uploaded file entry in a webhook collection listing.
type FileRecord struct {
	FileHash  string `json:"filehash"`
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	Stamped   bool   `json:"stamped"`
	CreatedAt string `json:"created_at,omitempty"`
}

// UnknownHash is the sentinel content hash used when the webhook's upload
// response carries no hash field. It is a valid success value, not an error.
const UnknownHash = "unknown"
