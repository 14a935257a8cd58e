// AngelaMos | 2026
// service_test.go

package document

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/lifesure-api/internal/config"
	"github.com/carterperez-dev/lifesure-api/internal/core"
)

type fakePresigner struct {
	input   *s3.PutObjectInput
	expires time.Duration
	err     error
}

func (f *fakePresigner) PresignPutObject(
	_ context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.PresignOptions),
) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params

	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires

	return &v4.PresignedHTTPRequest{
		URL:    "https://bucket.s3.amazonaws.com/" + *params.Key + "?X-Amz-Signature=abc",
		Method: http.MethodPut,
		SignedHeader: http.Header{
			"Host":         {"bucket.s3.amazonaws.com"},
			"Content-Type": {*params.ContentType},
		},
	}, nil
}

func testStorage() config.StorageConfig {
	return config.StorageConfig{
		Region:      "us-east-1",
		Bucket:      "lifesure-claims",
		PresignTTL:  5 * time.Minute,
		MaxUploadMB: 10,
	}
}

func TestNewUpload(t *testing.T) {
	p := &fakePresigner{}
	svc := NewService(p, testStorage())

	up, err := svc.NewUpload(context.Background(), "Alice@LifeSure.test", UploadRequest{
		FileName:    "../../etc/hospital report.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(up.Key, "claims/"))
	assert.True(t, strings.HasSuffix(up.Key, "/hospital_report.pdf"))
	assert.Len(t, strings.Split(up.Key, "/"), 3)

	assert.Equal(t, http.MethodPut, up.Method)
	assert.Equal(t, "application/pdf", up.Headers["Content-Type"])
	assert.NotContains(t, up.Headers, "Host")

	assert.Equal(t, "lifesure-claims", *p.input.Bucket)
	assert.Equal(t, int64(2048), *p.input.ContentLength)
	assert.Equal(t, "alice@lifesure.test", p.input.Metadata["owner"])
	assert.Equal(t, 5*time.Minute, p.expires)
}

func TestNewUploadKeysAreUnique(t *testing.T) {
	svc := NewService(&fakePresigner{}, testStorage())
	req := UploadRequest{FileName: "a.png", ContentType: "image/png", SizeBytes: 1}

	seen := map[string]bool{}
	for range 20 {
		up, err := svc.NewUpload(context.Background(), "a@lifesure.test", req)
		require.NoError(t, err)
		assert.False(t, seen[up.Key])
		seen[up.Key] = true
	}
}

func TestNewUploadRejectsOversizedFile(t *testing.T) {
	svc := NewService(&fakePresigner{}, testStorage())

	_, err := svc.NewUpload(context.Background(), "a@lifesure.test", UploadRequest{
		FileName:    "scan.jpg",
		ContentType: "image/jpeg",
		SizeBytes:   11 << 20,
	})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestNewUploadPresignFailure(t *testing.T) {
	svc := NewService(&fakePresigner{err: errors.New("no credentials")}, testStorage())

	_, err := svc.NewUpload(context.Background(), "a@lifesure.test", UploadRequest{
		FileName: "scan.jpg", ContentType: "image/jpeg", SizeBytes: 10,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrInvalidInput)
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"report.pdf":          "report.pdf",
		`C:\Users\a\scan.png`: "scan.png",
		"  ":                  "document",
		"..":                  "document",
		"x y z.pdf":           "x_y_z.pdf",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeName(in), in)
	}
}
