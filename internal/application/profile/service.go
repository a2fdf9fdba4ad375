package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/otp-auth-api/internal/domain"
)

// MaxImageSize is the profile image upload limit.
const MaxImageSize = 5 << 20 // 5 MB

// UploadImageInput carries one multipart image upload.
type UploadImageInput struct {
	UserID      string
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type Service interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	// UploadImage replaces the user's profile image. Any previous object is
	// deleted first; a delete failure aborts the whole update so the old
	// reference stays intact.
	UploadImage(ctx context.Context, in UploadImageInput) (*domain.User, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByMobile(ctx context.Context, mobile string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	DeleteByURL(ctx context.Context, objectURL string) error
}

type service struct {
	users   userStore
	objects objectStore
}

type ServiceDeps struct {
	UserRepo    userStore
	ObjectStore objectStore
}

func NewService(deps ServiceDeps) Service {
	return &service{users: deps.UserRepo, objects: deps.ObjectStore}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	if req.Name == nil && req.Email == nil && req.Mobile == nil {
		return nil, fmt.Errorf("at least one field is required: %w", domain.ErrValidation)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		other, err := s.users.GetByEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if err == nil && other.UserID != userID {
			return nil, fmt.Errorf("email already in use: %w", domain.ErrConflict)
		}
		updates["email"] = *req.Email
	}
	if req.Mobile != nil {
		other, err := s.users.GetByMobile(ctx, *req.Mobile)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if err == nil && other.UserID != userID {
			return nil, fmt.Errorf("mobile already in use: %w", domain.ErrConflict)
		}
		updates["mobile"] = *req.Mobile
	}

	if err := s.users.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, userID)
}

func (s *service) UploadImage(ctx context.Context, in UploadImageInput) (*domain.User, error) {
	if !strings.HasPrefix(in.ContentType, "image/") {
		return nil, fmt.Errorf("invalid file type, only images are allowed: %w", domain.ErrValidation)
	}
	if in.Size > MaxImageSize {
		return nil, fmt.Errorf("image exceeds the %d byte limit: %w", MaxImageSize, domain.ErrValidation)
	}

	u, err := s.users.Get(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if u.ProfileImage != "" {
		if err := s.objects.DeleteByURL(ctx, u.ProfileImage); err != nil {
			return nil, fmt.Errorf("delete previous profile image: %w", domain.ErrStorage)
		}
	}

	key := fmt.Sprintf("users/%s/%d-%s", u.UserID, time.Now().UnixMilli(), sanitizeFilename(in.Filename))
	objectURL, err := s.objects.Upload(ctx, key, in.Reader, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload profile image: %w", domain.ErrStorage)
	}

	if err := s.users.Update(ctx, u.UserID, map[string]interface{}{"profile_image": objectURL}); err != nil {
		return nil, err
	}
	u.ProfileImage = objectURL
	return u, nil
}

// sanitizeFilename strips any path component and replaces characters that
// are awkward in S3 keys.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)
}
