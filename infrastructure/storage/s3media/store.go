package s3media

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	apperrors "contentforge-backend/pkg/errors"
)

// ObjectAPI is the subset of the object storage client the store uses
type ObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// PresignAPI issues pre-signed URLs for direct client transfers
type PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// ObjectMeta describes a stored object without fetching its body
type ObjectMeta struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Store hands out pre-signed URLs so media bytes never flow through the
// service itself
type Store struct {
	client  ObjectAPI
	presign PresignAPI
	bucket  string
	expiry  time.Duration
	logger  *zap.Logger
}

// NewStore creates an object store bound to one bucket
func NewStore(client ObjectAPI, presign PresignAPI, bucket string, expiry time.Duration, logger *zap.Logger) *Store {
	return &Store{
		client:  client,
		presign: presign,
		bucket:  bucket,
		expiry:  expiry,
		logger:  logger,
	}
}

// Expiry reports how long issued URLs stay valid
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// PresignUpload returns a URL the client can PUT the object to directly.
// The signed content type binds the upload to what was declared.
func (s *Store) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		s.logger.Error("Failed to presign upload", zap.Error(err), zap.String("key", key))
		return "", apperrors.NewInternalError("failed to prepare upload").WithCause(err)
	}
	return req.URL, nil
}

// PresignDownload returns a URL the client can GET the object from directly
func (s *Store) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		s.logger.Error("Failed to presign download", zap.Error(err), zap.String("key", key))
		return "", apperrors.NewInternalError("failed to prepare download").WithCause(err)
	}
	return req.URL, nil
}

// Exists reports whether the object has actually been stored. Used to
// confirm an upload completed before the pipeline advances.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, apperrors.NewInternalError("failed to check object").WithCause(err)
	}
	return true, nil
}

// Metadata fetches object size and type without the body
func (s *Store) Metadata(ctx context.Context, key string) (*ObjectMeta, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return nil, apperrors.NewNotFoundError("object " + key)
		}
		return nil, apperrors.NewInternalError("failed to read object metadata").WithCause(err)
	}

	meta := &ObjectMeta{
		Key:         key,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
	}
	if out.LastModified != nil {
		meta.LastModified = *out.LastModified
	}
	return meta, nil
}

// Delete removes the object; deleting a missing object is success
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		s.logger.Error("Failed to delete object", zap.Error(err), zap.String("key", key))
		return apperrors.NewInternalError("failed to delete object").WithCause(err)
	}
	return nil
}
