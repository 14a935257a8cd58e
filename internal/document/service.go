// AngelaMos | 2026
// service.go

package document

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oklog/ulid/v2"

	"github.com/carterperez-dev/lifesure-api/internal/config"
	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type Presigner interface {
	PresignPutObject(
		ctx context.Context,
		params *s3.PutObjectInput,
		optFns ...func(*s3.PresignOptions),
	) (*v4.PresignedHTTPRequest, error)
}

const keyPrefix = "claims"

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type Service struct {
	presigner Presigner
	bucket    string
	ttl       time.Duration
	maxBytes  int64
	now       func() time.Time
}

func NewService(presigner Presigner, cfg config.StorageConfig) *Service {
	return &Service{
		presigner: presigner,
		bucket:    cfg.Bucket,
		ttl:       cfg.PresignTTL,
		maxBytes:  int64(cfg.MaxUploadMB) << 20,
		now:       time.Now,
	}
}

// sanitizeName keeps the base name readable in the bucket while stripping
// path separators and anything else that would need URL escaping.
func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "document"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}

// NewUpload returns a presigned PUT for a fresh object key. The key is what
// the client later submits as a claim's document_key.
func (s *Service) NewUpload(
	ctx context.Context,
	ownerEmail string,
	req UploadRequest,
) (*UploadResponse, error) {
	if s.bucket == "" {
		return nil, fmt.Errorf("document storage: no bucket configured")
	}
	if req.SizeBytes > s.maxBytes {
		return nil, core.ValidationError(fmt.Sprintf(
			"file exceeds %d MB limit",
			s.maxBytes>>20,
		))
	}

	key := fmt.Sprintf(
		"%s/%s/%s",
		keyPrefix,
		ulid.Make().String(),
		sanitizeName(req.FileName),
	)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(req.ContentType),
		ContentLength: aws.Int64(req.SizeBytes),
		Metadata: map[string]string{
			"owner": strings.ToLower(ownerEmail),
		},
	}

	signed, err := s.presigner.PresignPutObject(ctx, input,
		func(o *s3.PresignOptions) { o.Expires = s.ttl },
	)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	headers := make(map[string]string, len(signed.SignedHeader))
	for name, values := range signed.SignedHeader {
		if strings.EqualFold(name, "host") || len(values) == 0 {
			continue
		}
		headers[name] = values[0]
	}

	return &UploadResponse{
		Key:       key,
		UploadURL: signed.URL,
		Method:    signed.Method,
		Headers:   headers,
		ExpiresAt: s.now().Add(s.ttl),
	}, nil
}
