package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client implements ports.BlobStore on top of an S3 bucket. Attachment
// payloads live under object keys chosen by the caller; the locator stored
// in the database is the object URL.
type Client struct {
	bucket  string
	s3      *awss3.Client
	presign *awss3.PresignClient
	log     *slog.Logger
}

// NewClient builds an S3-backed blob store using the default AWS credential
// chain. An empty bucket is allowed: every operation then fails softly,
// which matches the tool's policy of never letting storage problems block a
// demand save.
func NewClient(ctx context.Context, bucket, region string, log *slog.Logger) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	cli := awss3.NewFromConfig(cfg)
	return &Client{
		bucket:  bucket,
		s3:      cli,
		presign: awss3.NewPresignClient(cli),
		log:     log,
	}, nil
}

// Upload stores the body under key and returns the object URL used as the
// attachment locator.
func (c *Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if c.bucket == "" {
		return "", errors.New("s3: bucket not configured")
	}
	input := &awss3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3: uploading %s: %w", key, err)
	}
	c.log.Debug("object uploaded", slog.String("bucket", c.bucket), slog.String("key", key))
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, key), nil
}

// PresignDownload turns a stored locator back into a time-limited GET URL.
func (c *Client) PresignDownload(ctx context.Context, locator string, expires time.Duration) (string, error) {
	if c.bucket == "" {
		return "", errors.New("s3: bucket not configured")
	}
	key, err := c.objectKey(locator)
	if err != nil {
		return "", err
	}
	out, err := c.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("s3: presigning %s: %w", key, err)
	}
	return out.URL, nil
}

// objectKey extracts the object key from a stored locator URL, e.g.
// https://bucket.s3.amazonaws.com/demands/1/file.pdf -> demands/1/file.pdf.
func (c *Client) objectKey(locator string) (string, error) {
	marker := c.bucket + ".s3.amazonaws.com/"
	i := strings.Index(locator, marker)
	if i < 0 {
		return "", fmt.Errorf("s3: locator %q does not belong to bucket %s", locator, c.bucket)
	}
	return locator[i+len(marker):], nil
}
