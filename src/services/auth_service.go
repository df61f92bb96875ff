package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/theleywin/talentnest/src/lib"
	mailer "github.com/theleywin/talentnest/src/mail"
	"github.com/theleywin/talentnest/src/models"
)

const minPasswordLength = 6

type AuthService struct {
	deps
	tokens *lib.TokenManager
}

type SignupInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup registers a new account and returns it with a fresh session token
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, "", ErrMissingFields
	}
	// bare addresses only, no display name or angle brackets
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return nil, "", ErrInvalidEmail
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, "", dependency("Error creating user", err)
	}
	if _, err := s.store.GetUserByUsername(ctx, in.Username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !isNotFound(err) {
		return nil, "", dependency("Error creating user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", dependency("Error hashing password", err)
	}

	user := &models.User{
		Name:     in.Name,
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Headline: models.DefaultHeadline,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", dependency("Error creating user", err)
	}

	token, err := s.tokens.Generate(user.Id)
	if err != nil {
		return nil, "", dependency("Error generating token", err)
	}

	s.sendEmail(ctx, func() (mailer.Message, error) {
		return mailer.WelcomeEmail(user.Email, user.Name, s.cfg.ProfileURL(user.Username))
	})

	logrus.WithField("user", user.Id.Hex()).Info("user signed up")

	user.Password = ""
	return user, token, nil
}

// Login checks the credentials and returns the account with a fresh session token
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, "", ErrMissingFields
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if isNotFound(err) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", dependency("Error logging in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", dependency("Error logging in", err)
	}

	token, err := s.tokens.Generate(user.Id)
	if err != nil {
		return nil, "", dependency("Error generating token", err)
	}

	user.Password = ""
	return user, token, nil
}

// Authenticate resolves a session token to the account it was issued for
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	id, err := s.tokens.Verify(token)
	if err != nil {
		logrus.WithError(err).Debug("rejected session token")
		return nil, ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, id)
	if isNotFound(err) {
		return nil, ErrUnknownTokenUser
	}
	if err != nil {
		return nil, dependency("Error authenticating user", err)
	}

	user.Password = ""
	return user, nil
}

// Tokens exposes the token manager so the transport can size the session cookie
func (s *AuthService) Tokens() *lib.TokenManager {
	return s.tokens
}
