package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/config"
	"github.com/PranavReddyGaddam/GitBridge/domain"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
)

type s3StorageBackend struct {
	s3Svc    *s3.S3
	s3Config *config.S3Config
	logger   outbound.LoggerPort
}

// NewS3StorageBackend stores artifacts as objects in the configured bucket.
// Refs are s3://bucket/key URIs; URLFor returns presigned GET URLs.
func NewS3StorageBackend(s3Svc *s3.S3, s3Config *config.S3Config, logger outbound.LoggerPort) outbound.StorageBackendPort {
	return &s3StorageBackend{
		s3Svc:    s3Svc,
		s3Config: s3Config,
		logger:   logger,
	}
}

func (s *s3StorageBackend) Put(ctx context.Context, ref string, data []byte, contentType string) error {
	key, err := s.RelativeKey(ref)
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.s3Svc.PutObjectWithContext(ctx, input); err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload object to S3", map[string]interface{}{
			"bucket": s.s3Config.BucketName,
			"key":    key,
		})
		return &domain.PersistenceError{Ref: ref, Err: err}
	}
	return nil
}

func (s *s3StorageBackend) Get(ctx context.Context, ref string) ([]byte, error) {
	key, err := s.RelativeKey(ref)
	if err != nil {
		return nil, err
	}

	out, err := s.s3Svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, domain.ErrRefNotFound
		}
		return nil, &domain.PersistenceError{Ref: ref, Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &domain.PersistenceError{Ref: ref, Err: err}
	}
	return data, nil
}

func (s *s3StorageBackend) Exists(ctx context.Context, ref string) (bool, error) {
	key, err := s.RelativeKey(ref)
	if err != nil {
		return false, err
	}

	_, err = s.s3Svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, &domain.PersistenceError{Ref: ref, Err: err}
	}
	return true, nil
}

func (s *s3StorageBackend) ListByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var refs []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.s3Config.BucketName),
		Prefix: aws.String(prefix),
	}
	err := s.s3Svc.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			refs = append(refs, s.BuildRef(aws.StringValue(obj.Key)))
		}
		return true
	})
	if err != nil {
		return nil, &domain.PersistenceError{Ref: prefix, Err: err}
	}
	return refs, nil
}

func (s *s3StorageBackend) Delete(ctx context.Context, ref string) error {
	key, err := s.RelativeKey(ref)
	if err != nil {
		return err
	}

	if _, err := s.s3Svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	}); err != nil {
		return &domain.PersistenceError{Ref: ref, Err: err}
	}
	return nil
}

func (s *s3StorageBackend) URLFor(_ context.Context, ref string, ttl time.Duration) (string, error) {
	key, err := s.RelativeKey(ref)
	if err != nil {
		return "", err
	}

	req, _ := s.s3Svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	url, err := req.Presign(ttl)
	if err != nil {
		return "", &domain.PersistenceError{Ref: ref, Err: err}
	}
	return url, nil
}

func (s *s3StorageBackend) BuildRef(parts ...string) string {
	return fmt.Sprintf("s3://%s/%s", s.s3Config.BucketName, path.Join(parts...))
}

func (s *s3StorageBackend) RelativeKey(ref string) (string, error) {
	prefix := fmt.Sprintf("s3://%s/", s.s3Config.BucketName)
	if !strings.HasPrefix(ref, prefix) {
		return "", &domain.PersistenceError{Ref: ref, Err: fmt.Errorf("ref not in bucket %s", s.s3Config.BucketName)}
	}
	return strings.TrimPrefix(ref, prefix), nil
}

func isS3NotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}
