// AngelaMos | 2026
// s3.go

package document

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/carterperez-dev/lifesure-api/internal/config"
)

// NewS3Client loads the default AWS credential chain. A configured endpoint
// (LocalStack, MinIO) switches the client to path-style addressing.
func NewS3Client(ctx context.Context, cfg config.StorageConfig) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	}), nil
}

type bucketHeader interface {
	HeadBucket(
		ctx context.Context,
		params *s3.HeadBucketInput,
		optFns ...func(*s3.Options),
	) (*s3.HeadBucketOutput, error)
}

// BucketChecker reports whether the document bucket is reachable with the
// current credentials.
type BucketChecker struct {
	client bucketHeader
	bucket string
}

func NewBucketChecker(client bucketHeader, bucket string) *BucketChecker {
	return &BucketChecker{client: client, bucket: bucket}
}

func (c *BucketChecker) Ping(ctx context.Context) error {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return fmt.Errorf("head bucket %s: %w", c.bucket, err)
	}
	return nil
}
