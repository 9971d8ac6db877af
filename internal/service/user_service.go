package service

import (
	"bytes"
	"context"
	"strings"

	"taskmanager/internal/domain"
	"taskmanager/internal/logger"
	"taskmanager/internal/storage"

	"github.com/gabriel-vasile/mimetype"
)

const avatarDir = "avatars"

type UserService struct {
	users UserStore
	blobs storage.BlobStore
}

func NewUserService(users UserStore, blobs storage.BlobStore) *UserService {
	return &UserService{users: users, blobs: blobs}
}

func (s *UserService) Profile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return s.users.GetByID(ctx, actor.ID)
}

// UpdateProfile applies the non-nil fields of upd. A new avatar replaces the
// previous one, whose blob is removed after the profile row is saved.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, upd domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	v := domain.ValidationErrors{}
	if upd.Name != nil {
		user.Name = validateName(v, *upd.Name)
	}
	if upd.Email != nil {
		user.Email = validateEmail(v, *upd.Email)
	}
	if upd.Avatar != nil {
		switch {
		case upd.Avatar.Size() == 0:
			v.Add("avatar", "required")
		case upd.Avatar.Size() > domain.MaxAvatarSize:
			v.Add("avatar", "max")
		case !strings.HasPrefix(mimetype.Detect(upd.Avatar.Content).String(), "image/"):
			v.Add("avatar", "image")
		}
	}
	if err := v.Err("user"); err != nil {
		return nil, err
	}

	previous := user.Avatar
	var uploaded string
	if upd.Avatar != nil {
		uploaded = storage.NewKey(avatarDir, upd.Avatar.Name)
		if err := s.blobs.Put(ctx, uploaded, bytes.NewReader(upd.Avatar.Content)); err != nil {
			return nil, domain.Storage("user", err)
		}
		user.Avatar = &uploaded
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if uploaded != "" {
			s.removeBlob(ctx, uploaded)
		}
		return nil, err
	}
	if uploaded != "" && previous != nil && *previous != "" {
		s.removeBlob(ctx, *previous)
	}
	return user, nil
}

// Search pages through users matching search by name or email.
func (s *UserService) Search(ctx context.Context, search string, page int) (domain.Page[domain.User], error) {
	return s.users.Search(ctx, search, domain.NewPageRequest(page, domain.UserPageSize))
}

func (s *UserService) removeBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		logger.Warn("failed to remove avatar blob", "key", key, "error", err)
	}
}
