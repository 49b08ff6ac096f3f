package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	pkgerrors "github.com/evergreenlabs/plantcare-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxUploadBytes = 10 * 1024 * 1024

var allowedPhotoMimeTypes = []string{"image/png", "image/jpeg", "image/webp", "image/heic"}

type plantsRepository interface {
	FindByID(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error)
	Update(ctx context.Context, plant *models.Plant) error
}

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

// Service exposes plant photo upload semantics. Uploads go straight to GCS
// through a short-lived signed PUT URL; the API never proxies image bytes.
type Service interface {
	PresignPhotoUpload(ctx context.Context, userID, plantID uuid.UUID, input PresignInput) (*PresignOutput, error)
	ConfirmPhotoUpload(ctx context.Context, userID, plantID uuid.UUID, objectKey string) error
	PhotoReadURL(ctx context.Context, userID, plantID uuid.UUID) (string, error)
}

type service struct {
	plants    plantsRepository
	gcs       gcsClient
	bucket    string
	uploadTTL time.Duration
	readTTL   time.Duration
}

// NewService constructs a media service backed by the plant repository and
// the GCS signer.
func NewService(plants plantsRepository, gcs gcsClient, bucket string, uploadTTL, readTTL time.Duration) (Service, error) {
	if plants == nil {
		return nil, fmt.Errorf("plant repository required")
	}
	if gcs == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if uploadTTL <= 0 || readTTL <= 0 {
		return nil, fmt.Errorf("url ttls must be positive")
	}
	return &service{
		plants:    plants,
		gcs:       gcs,
		bucket:    bucket,
		uploadTTL: uploadTTL,
		readTTL:   readTTL,
	}, nil
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	MimeType  string `json:"mime_type" validate:"required"`
	FileName  string `json:"file_name" validate:"required,max=255"`
	SizeBytes int64  `json:"size_bytes" validate:"required,min=1"`
}

// PresignOutput contains the signed upload target.
type PresignOutput struct {
	ObjectKey    string    `json:"object_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *service) PresignPhotoUpload(ctx context.Context, userID, plantID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	if userID == uuid.Nil || plantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user and plant ids required")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be at most %d", maxUploadBytes))
	}
	mimeType := strings.TrimSpace(input.MimeType)
	if !isAllowedMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed for plant photos")
	}

	if _, err := s.findOwnedPlant(ctx, userID, plantID); err != nil {
		return nil, err
	}

	objectKey := buildObjectKey(plantID, fileName)
	signedURL, err := s.gcs.SignedURL(s.bucket, objectKey, mimeType, s.uploadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		ObjectKey:    objectKey,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    time.Now().Add(s.uploadTTL),
	}, nil
}

// ConfirmPhotoUpload records the uploaded object as the plant's photo.
func (s *service) ConfirmPhotoUpload(ctx context.Context, userID, plantID uuid.UUID, objectKey string) error {
	objectKey = strings.TrimSpace(objectKey)
	prefix := fmt.Sprintf("plants/%s/", plantID)
	if objectKey == "" || !strings.HasPrefix(objectKey, prefix) {
		return pkgerrors.New(pkgerrors.CodeValidation, "object_key does not belong to this plant")
	}

	plant, err := s.findOwnedPlant(ctx, userID, plantID)
	if err != nil {
		return err
	}
	plant.PhotoURL = &objectKey
	if err := s.plants.Update(ctx, plant); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save photo reference")
	}
	return nil
}

// PhotoReadURL signs a short-lived GET URL for the plant's stored photo.
func (s *service) PhotoReadURL(ctx context.Context, userID, plantID uuid.UUID) (string, error) {
	plant, err := s.findOwnedPlant(ctx, userID, plantID)
	if err != nil {
		return "", err
	}
	if plant.PhotoURL == nil || *plant.PhotoURL == "" {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "plant has no photo")
	}
	url, err := s.gcs.SignedReadURL(s.bucket, *plant.PhotoURL, s.readTTL)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign read url")
	}
	return url, nil
}

func (s *service) findOwnedPlant(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error) {
	plant, err := s.plants.FindByID(ctx, userID, plantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plant")
	}
	return plant, nil
}

func isAllowedMime(mimeType string) bool {
	for _, candidate := range allowedPhotoMimeTypes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

func buildObjectKey(plantID uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	photoID := uuid.New()
	if cleanName == "" {
		cleanName = photoID.String()
	}
	return fmt.Sprintf("plants/%s/%s-%s", plantID, photoID, cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
