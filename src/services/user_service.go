package services

import (
	"context"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/theleywin/talentnest/src/media"
	"github.com/theleywin/talentnest/src/models"
)

const suggestionLimit = 3

type UserService struct {
	deps
}

// Profile returns the public profile of username
func (s *UserService) Profile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if isNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, dependency("Error fetching user profile", err)
	}
	return user, nil
}

// Suggestions returns a few users actor is not connected to yet
func (s *UserService) Suggestions(ctx context.Context, actor *models.User) ([]models.UserDto, error) {
	exclude := mapset.NewThreadUnsafeSet(actor.Connections...)
	exclude.Add(actor.Id)

	users, err := s.store.ListUsersExcluding(ctx, exclude.ToSlice(), suggestionLimit)
	if err != nil {
		return nil, dependency("Error fetching suggestions", err)
	}

	out := make([]models.UserDto, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out, nil
}

// UpdateProfile applies the set fields of update to actor's profile. New
// profile or banner images are uploaded and replaced by their hosted URL.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, update models.ProfileUpdate) (*models.User, error) {
	if update.IsEmpty() {
		return nil, ErrNothingToUpdate
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		update.Name = &name
	}
	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if username == "" {
			return nil, ErrEmptyUsername
		}
		update.Username = &username
	}

	var err error
	if update.ProfilePicture, err = s.hostImage(ctx, update.ProfilePicture, actor.ProfilePicture); err != nil {
		return nil, err
	}
	if update.BannerImg, err = s.hostImage(ctx, update.BannerImg, actor.BannerImg); err != nil {
		return nil, err
	}

	user, err := s.store.UpdateUserProfile(ctx, actor.Id, update)
	switch {
	case err == nil:
		return user, nil
	case isNotFound(err):
		return nil, ErrUserNotFound
	case isDuplicate(err):
		return nil, ErrUsernameTaken
	default:
		return nil, dependency("Error updating profile", err)
	}
}

// hostImage uploads a changed, non empty image field. Clearing the field or
// sending back the current URL leaves it as is.
func (s *UserService) hostImage(ctx context.Context, field *string, current string) (*string, error) {
	if field == nil || *field == "" || *field == current {
		return field, nil
	}

	if err := media.ValidatePayload(*field); err != nil {
		return nil, ErrInvalidImage
	}

	url, err := s.assets.Upload(ctx, *field)
	if err != nil {
		return nil, dependency("Error uploading image", err)
	}
	return &url, nil
}
