package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Hameed1117/User-Management/internal/store"
	"github.com/Hameed1117/User-Management/types"
	"github.com/google/uuid"
)

// ProfileStorage is the object-storage contract the profile service
// needs for picture uploads.
type ProfileStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

// ProfileRepository is the persistence subset used by profile operations.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	SetProfilePictureURL(ctx context.Context, id, url string) error
}

// ProfileService handles self-service profile reads, updates, and
// picture uploads. It never touches role, lock, or verification state.
type ProfileService struct {
	repo    ProfileRepository
	storage ProfileStorage
}

func NewProfileService(repo ProfileRepository, storage ProfileStorage) *ProfileService {
	return &ProfileService{repo: repo, storage: storage}
}

// Get returns the account's profile view.
func (s *ProfileService) Get(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a self-service profile patch to the account.
func (s *ProfileService) Update(ctx context.Context, id string, patch types.ProfilePatch) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}
	patch.Apply(&user)
	if user.Nickname == "" {
		return types.User{}, ErrInvalidInput
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.User{}, ErrAlreadyExists
		}
		return types.User{}, err
	}
	return updated, nil
}

// UploadPicture streams a profile picture to object storage and records
// the resulting URL on the account.
func (s *ProfileService) UploadPicture(ctx context.Context, id, filename string, r io.Reader, size int64, contentType string) (string, error) {
	if s.storage == nil {
		return "", errors.New("object storage is not configured")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return "", err
	}

	key := pictureKey(id, filename)
	if err := s.storage.Put(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("upload picture: %w", err)
	}

	url := s.storage.PublicURL(key)
	if err := s.repo.SetProfilePictureURL(ctx, id, url); err != nil {
		return "", err
	}
	return url, nil
}

// pictureKey namespaces objects per account and keeps keys unique so a
// re-upload never collides with a cached predecessor.
func pictureKey(id, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%d-%s%s", id, time.Now().Unix(), uuid.NewString(), ext)
}
