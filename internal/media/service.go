// AngelaMos | 2026
// service.go

package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/carterperez-dev/safehaven/internal/config"
	"github.com/carterperez-dev/safehaven/internal/core"
	"github.com/carterperez-dev/safehaven/internal/user"
)

const keyPrefix = "profile-images"

type UserReader interface {
	GetUser(ctx context.Context, id int64) (*user.User, error)
}

type Service struct {
	presigner Presigner
	users     UserReader
	bucket    string
	ttl       time.Duration
	now       func() time.Time
}

func NewService(presigner Presigner, users UserReader, cfg config.StorageConfig) *Service {
	return &Service{
		presigner: presigner,
		users:     users,
		bucket:    cfg.Bucket,
		ttl:       cfg.PresignTTL,
		now:       time.Now,
	}
}

type Upload struct {
	URL       string
	Key       string
	ExpiresAt time.Time
}

// UploadURL signs a PUT for a fresh key under the caller's prefix. The
// key is not stored; the client saves it through the user update.
func (s *Service) UploadURL(ctx context.Context, userID int64) (*Upload, error) {
	key := ObjectKey(userID, uuid.NewString())
	issued := s.now()

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &Upload{
		URL:       req.URL,
		Key:       key,
		ExpiresAt: issued.Add(s.ttl).UTC(),
	}, nil
}

// DownloadURL signs a GET for the user's stored profile image. A stored
// path outside the user's own prefix is treated as no image.
func (s *Service) DownloadURL(ctx context.Context, userID int64) (string, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	if !u.HasProfileImage() || !OwnsKey(userID, *u.ProfileImagePath) {
		return "", fmt.Errorf("profile image: %w", core.ErrNotFound)
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    u.ProfileImagePath,
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}

	return req.URL, nil
}

func ObjectKey(userID int64, name string) string {
	return fmt.Sprintf("%s/%d/%s", keyPrefix, userID, name)
}

// OwnsKey reports whether key was issued under userID's prefix.
func OwnsKey(userID int64, key string) bool {
	name, ok := strings.CutPrefix(key, ObjectKey(userID, ""))
	return ok && name != "" && !strings.Contains(name, "..")
}
