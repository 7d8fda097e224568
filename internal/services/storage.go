package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const signedURLTTL = time.Hour

// ErrInvalidImage signale un contenu base64 illisible
var ErrInvalidImage = errors.New("invalid base64 image")

// ImageStore conserve les octets des images ; seules les clés vivent dans ScyllaDB
type ImageStore interface {
	PutBase64(ctx context.Context, prefix, encoded string) (string, error)
	URL(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
}

type MinIOStore struct {
	client *minio.Client
	bucket string
}

func NewMinIOStore(client *minio.Client, bucket string) *MinIOStore {
	return &MinIOStore{client: client, bucket: bucket}
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DecodeImage accepte du base64 brut ou une data URI (data:image/png;base64,...)
func DecodeImage(encoded string) ([]byte, string, error) {
	encoded = strings.TrimSpace(encoded)
	contentType := ""
	if strings.HasPrefix(encoded, "data:") {
		header, payload, ok := strings.Cut(encoded, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, "", ErrInvalidImage
		}
		contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		encoded = payload
	}
	if encoded == "" {
		return nil, "", ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(encoded); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// PutBase64 décode l'image et l'envoie dans le bucket sous prefix/<uuid><ext>
func (s *MinIOStore) PutBase64(ctx context.Context, prefix, encoded string) (string, error) {
	data, contentType, err := DecodeImage(encoded)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), extensions[contentType])
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	log.Printf("🪣 Image envoyée dans MinIO : %s (%d octets)", key, len(data))
	return key, nil
}

// URL génère une URL signée valable une heure
func (s *MinIOStore) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, signedURLTTL, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *MinIOStore) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
