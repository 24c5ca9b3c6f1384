package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/rizkyfm/invoice-manager-service/internal/domain"
)

// invoiceFolder is the fixed namespace all invoice attachments live under
const invoiceFolder = "invoice"

// S3Storage implements BlobStorage using S3-compatible object storage
type S3Storage struct {
	s3Client *s3.S3
	bucket   string
	endpoint string
}

// Config holds configuration for the S3 storage client
type Config struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Region          string
}

// NewS3Storage creates a new S3 storage client
func NewS3Storage(config *Config) (*S3Storage, error) {
	if config.Endpoint == "" || config.AccessKeyID == "" || config.AccessKeySecret == "" {
		return nil, fmt.Errorf("S3 configuration is incomplete")
	}

	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	sess := session.Must(session.NewSession(&aws.Config{
		Region:           aws.String(config.Region),
		Endpoint:         aws.String(config.Endpoint),
		Credentials:      credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKeySecret, ""),
		S3ForcePathStyle: aws.Bool(true),
	}))

	return &S3Storage{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		endpoint: strings.TrimRight(config.Endpoint, "/"),
	}, nil
}

// Upload stores a payload under the invoice namespace and returns its public
// URL and remote identifier. Objects are keyed by a generated id without an
// extension so the id stays derivable from the URL; the content type is
// detected from the original filename instead.
func (s *S3Storage) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	remoteID := uuid.NewString()
	key := invoiceFolder + "/" + remoteID

	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(detectContentType(filename)),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}

	return &UploadResult{
		URL:      fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key),
		RemoteID: remoteID,
	}, nil
}

// Delete removes the blob identified by remoteID from the invoice namespace
func (s *S3Storage) Delete(ctx context.Context, remoteID string) error {
	key := invoiceFolder + "/" + remoteID

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteDelete, err)
	}

	return nil
}

// detectContentType guesses a MIME type from the filename extension
func detectContentType(filename string) string {
	if ct := mime.TypeByExtension(path.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
