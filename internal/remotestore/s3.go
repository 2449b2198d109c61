package remotestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"tonearm/internal/config"
)

// presignExpiry bounds how long resolver-issued URLs stay valid.
const presignExpiry = 6 * time.Hour

// S3 implements Store against any S3-compatible endpoint.
type S3 struct {
	client *minio.Client
	bucket string
}

// NewS3 creates an S3-backed store from the remote configuration.
func NewS3(remote config.Remote) (*S3, error) {
	client, err := minio.New(remote.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(remote.AccessKey, remote.SecretKey, ""),
		Secure: remote.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 store: connect %q: %w", remote.Endpoint, err)
	}
	return &S3{client: client, bucket: remote.Bucket}, nil
}

// UploadDocument writes data to key, replacing any existing object.
func (s *S3) UploadDocument(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("s3 store: put %q: %w", key, err)
	}
	return nil
}

// DownloadDocument fetches the object at key; absent keys report (nil, false, nil).
func (s *S3) DownloadDocument(ctx context.Context, key string) ([]byte, bool, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("s3 store: get %q: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("s3 store: read %q: %w", key, err)
	}
	return data, true, nil
}

// ListObjects returns every object under prefix.
func (s *S3) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("s3 store: list %q: %w", prefix, obj.Err)
		}
		objects = append(objects, ObjectInfo{Key: obj.Key, Size: obj.Size, Modified: obj.LastModified})
	}
	return objects, nil
}

// DeleteObject removes the object at key; missing keys are not an error.
func (s *S3) DeleteObject(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("s3 store: delete %q: %w", key, err)
	}
	return nil
}

// ObjectExists stats the object at key.
func (s *S3) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("s3 store: stat %q: %w", key, err)
	}
	return true, nil
}

// ObjectURL returns a presigned GET URL for key. Signing is local; no network
// round-trip happens here.
func (s *S3) ObjectURL(key string) (string, error) {
	url, err := s.client.PresignedGetObject(context.Background(), s.bucket, key, presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("s3 store: presign %q: %w", key, err)
	}
	return url.String(), nil
}

func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
	}
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
