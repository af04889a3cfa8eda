package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram-project/backend/config"
)

const imagePrefix = "recipes/images"

// ImageStore persists a decoded image and returns its public reference.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ImageService turns inline base64 recipe images into stored blobs.
type ImageService struct {
	store ImageStore
}

func NewImageService(store ImageStore) *ImageService {
	return &ImageService{store: store}
}

// Ingest accepts either a pre-stored reference (returned unchanged) or a
// data:image/<ext>;base64,<payload> URI, which is decoded and written to the
// store under the recipe images namespace.
func (s *ImageService) Ingest(ctx context.Context, image string) (string, error) {
	if !strings.HasPrefix(image, "data:image") {
		return image, nil
	}

	header, payload, found := strings.Cut(image, ";base64,")
	if !found {
		return "", validationf("image data URI is malformed")
	}
	ext := strings.TrimPrefix(header, "data:image/")
	if ext == "" || strings.ContainsAny(ext, "/\\.") {
		return "", validationf("image data URI has an invalid type")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", validationf("image payload is not valid base64")
	}

	key := fmt.Sprintf("%s/%s.%s", imagePrefix, uuid.New().String(), ext)
	return s.store.Save(ctx, key, data, "image/"+ext)
}

// S3ImageStore stores images in an S3 bucket with public-read access.
type S3ImageStore struct {
	s3Config *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

func (s *S3ImageStore) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[ImageService] Uploaded image to S3: %s", publicURL)
	return publicURL, nil
}

// LocalImageStore writes images under a media directory and serves them by
// URL path.
type LocalImageStore struct {
	root    string
	baseURL string
}

func NewLocalImageStore(root, baseURL string) *LocalImageStore {
	return &LocalImageStore{root: root, baseURL: baseURL}
}

func (s *LocalImageStore) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path.Join(s.baseURL, key), nil
}
