package domain

import "time"

// Attachment stores metadata for a file associated with a request. The bytes
// themselves live in object storage under StorageKey.
type Attachment struct {
	ID         string
	RequestID  string
	FileName   string
	MimeType   string
	SizeBytes  int64
	StorageKey string
	URL        string
	CreatedAt  time.Time
}
