package services

import (
	"context"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/talentnest/src/models"
)

type NotificationService struct {
	deps
}

// Notify records an event for recipient caused by actor. Self notifications are
// skipped and a failed insert is only logged.
func (s *NotificationService) Notify(ctx context.Context, recipient primitive.ObjectID, kind models.NotificationType, actor, post primitive.ObjectID) {
	if recipient == actor {
		return
	}

	now := time.Now()
	n := &models.Notification{
		Recipient:   recipient,
		Type:        kind,
		RelatedUser: actor,
		RelatedPost: post,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateNotification(ctx, n); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"recipient": recipient.Hex(),
			"type":      kind,
		}).Error("failed to create notification")
	}
}

// List returns the actor's notifications, newest first, with the related user
// and post resolved. References that no longer resolve are returned as null.
func (s *NotificationService) List(ctx context.Context, actor *models.User) ([]models.NotificationDto, error) {
	notifications, err := s.store.ListNotifications(ctx, actor.Id)
	if err != nil {
		return nil, dependency("Error fetching notifications", err)
	}

	userIDs := mapset.NewThreadUnsafeSet[primitive.ObjectID]()
	postIDs := mapset.NewThreadUnsafeSet[primitive.ObjectID]()
	for _, n := range notifications {
		if !n.RelatedUser.IsZero() {
			userIDs.Add(n.RelatedUser)
		}
		if !n.RelatedPost.IsZero() {
			postIDs.Add(n.RelatedPost)
		}
	}

	users, err := s.summaries(ctx, userIDs)
	if err != nil {
		return nil, dependency("Error fetching notifications", err)
	}

	posts := make(map[primitive.ObjectID]models.PostSummary, postIDs.Cardinality())
	if postIDs.Cardinality() > 0 {
		found, err := s.store.ListPostsByIDs(ctx, postIDs.ToSlice())
		if err != nil {
			return nil, dependency("Error fetching notifications", err)
		}
		for _, p := range found {
			posts[p.Id] = models.PostSummary{ID: p.Id, Content: p.Content, Image: p.Image}
		}
	}

	out := make([]models.NotificationDto, 0, len(notifications))
	for _, n := range notifications {
		dto := models.NotificationDto{
			ID:        n.Id,
			Recipient: n.Recipient,
			Type:      n.Type,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		}
		if u, ok := users[n.RelatedUser]; ok {
			u.Headline = ""
			dto.RelatedUser = &u
		}
		if p, ok := posts[n.RelatedPost]; ok {
			dto.RelatedPost = &p
		}
		out = append(out, dto)
	}

	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.Notification, error) {
	n, err := s.store.MarkNotificationRead(ctx, id, actor.Id)
	if isNotFound(err) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, dependency("Error updating notification", err)
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	err := s.store.DeleteNotification(ctx, id, actor.Id)
	if isNotFound(err) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return dependency("Error deleting notification", err)
	}
	return nil
}
