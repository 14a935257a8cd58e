// AngelaMos | 2026
// dto.go

package document

import (
	"time"
)

type UploadRequest struct {
	FileName    string `json:"file_name"    validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,oneof=application/pdf image/jpeg image/png"`
	SizeBytes   int64  `json:"size_bytes"   validate:"required,gt=0"`
}

// UploadResponse lists the headers the client must replay on the PUT for
// the signature to hold.
type UploadResponse struct {
	Key       string            `json:"document_key"`
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	ExpiresAt time.Time         `json:"expires_at"`
}
