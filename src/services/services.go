package services

import (
	"context"
	"errors"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/talentnest/src/config"
	"github.com/theleywin/talentnest/src/lib"
	"github.com/theleywin/talentnest/src/mail"
	"github.com/theleywin/talentnest/src/media"
	"github.com/theleywin/talentnest/src/models"
	"github.com/theleywin/talentnest/src/store"
)

const defaultEmailTimeout = 10 * time.Second

// Services groups the operations exposed by the API. Every operation that acts
// on behalf of someone takes the authenticated user explicitly.
type Services struct {
	Auth          *AuthService
	Users         *UserService
	Connections   *ConnectionService
	Posts         *PostService
	Notifications *NotificationService
}

type deps struct {
	store  store.Store
	mailer mail.Mailer
	assets media.AssetStore
	cfg    *config.Config
}

func New(st store.Store, mailer mail.Mailer, assets media.AssetStore, tokens *lib.TokenManager, cfg *config.Config) *Services {
	if cfg.EmailTimeout <= 0 {
		cfg.EmailTimeout = defaultEmailTimeout
	}

	d := deps{store: st, mailer: mailer, assets: assets, cfg: cfg}
	notifications := &NotificationService{deps: d}

	return &Services{
		Auth:          &AuthService{deps: d, tokens: tokens},
		Users:         &UserService{deps: d},
		Connections:   &ConnectionService{deps: d, notifications: notifications},
		Posts:         &PostService{deps: d, notifications: notifications},
		Notifications: notifications,
	}
}

// sendEmail renders and delivers a message without ever failing the caller
func (d deps) sendEmail(ctx context.Context, build func() (mail.Message, error)) {
	msg, err := build()
	if err != nil {
		logrus.WithError(err).Error("failed to render email")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.cfg.EmailTimeout)
	defer cancel()

	if err := d.mailer.Send(ctx, msg); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"to":       msg.ToEmail,
			"category": msg.Category,
		}).Warn("failed to send email")
	}
}

// summaries loads the public fields of the given users keyed by ID
func (d deps) summaries(ctx context.Context, ids mapset.Set[primitive.ObjectID]) (map[primitive.ObjectID]models.UserDto, error) {
	out := make(map[primitive.ObjectID]models.UserDto, ids.Cardinality())
	if ids.Cardinality() == 0 {
		return out, nil
	}

	users, err := d.store.ListUsersByIDs(ctx, ids.ToSlice())
	if err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].Id] = users[i].Summary()
	}
	return out, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, store.ErrDuplicateKey)
}
