package services

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/talentnest/src/mail"
	"github.com/theleywin/talentnest/src/models"
)

type ConnectionService struct {
	deps
	notifications *NotificationService
}

// SendRequest creates a pending request from actor to recipientID
func (s *ConnectionService) SendRequest(ctx context.Context, actor *models.User, recipientID primitive.ObjectID) (*models.ConnectionRequest, error) {
	if actor.Id == recipientID {
		return nil, ErrSelfRequest
	}

	if _, err := s.store.GetUserByID(ctx, recipientID); err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, dependency("Error sending connection request", err)
	}

	if actor.IsConnectedTo(recipientID) {
		return nil, ErrAlreadyConnected
	}

	if err := s.pendingConflict(ctx, actor, recipientID); err != nil {
		return nil, err
	}

	req := &models.ConnectionRequest{
		Sender:    actor.Id,
		Recipient: recipientID,
		Status:    models.ConnectionStatusPending,
	}
	if err := s.store.CreateConnectionRequest(ctx, req); err != nil {
		if isDuplicate(err) {
			// a request for the pair landed after the check above
			if conflict := s.pendingConflict(ctx, actor, recipientID); conflict != nil {
				return nil, conflict
			}
			return nil, ErrDuplicatePending
		}
		return nil, dependency("Error sending connection request", err)
	}

	logrus.WithFields(logrus.Fields{
		"request":   req.Id.Hex(),
		"sender":    actor.Id.Hex(),
		"recipient": recipientID.Hex(),
	}).Debug("connection request sent")

	return req, nil
}

// pendingConflict reports which pending request, if any, already links actor and other
func (s *ConnectionService) pendingConflict(ctx context.Context, actor *models.User, other primitive.ObjectID) error {
	existing, err := s.store.FindPendingBetween(ctx, actor.Id, other)
	switch {
	case err == nil && existing.Sender == actor.Id:
		return ErrDuplicatePending
	case err == nil:
		return ErrReversePending
	case isNotFound(err):
		return nil
	default:
		return dependency("Error sending connection request", err)
	}
}

// pendingForRecipient loads a request the actor may still respond to
func (s *ConnectionService) pendingForRecipient(ctx context.Context, actor *models.User, requestID primitive.ObjectID) (*models.ConnectionRequest, error) {
	req, err := s.store.GetConnectionRequest(ctx, requestID)
	if isNotFound(err) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, dependency("Error loading connection request", err)
	}

	if req.Recipient != actor.Id {
		return nil, ErrNotRequestRecipient
	}
	if req.Status != models.ConnectionStatusPending {
		return nil, ErrAlreadyProcessed
	}
	return req, nil
}

func (s *ConnectionService) transition(ctx context.Context, req *models.ConnectionRequest, to models.ConnectionStatus) (*models.ConnectionRequest, error) {
	updated, err := s.store.TransitionConnectionRequest(ctx, req.Id, models.ConnectionStatusPending, to)
	if isNotFound(err) {
		// another response won the race
		return nil, ErrAlreadyProcessed
	}
	if err != nil {
		return nil, dependency("Error updating connection request", err)
	}
	return updated, nil
}

// Accept connects the two users of a pending request addressed to actor, then
// notifies and emails the sender
func (s *ConnectionService) Accept(ctx context.Context, actor *models.User, requestID primitive.ObjectID) (*models.ConnectionRequest, error) {
	req, err := s.pendingForRecipient(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}

	updated, err := s.transition(ctx, req, models.ConnectionStatusAccepted)
	if err != nil {
		return nil, err
	}

	if err := s.store.AddConnection(ctx, actor.Id, req.Sender); err != nil {
		return nil, dependency("Error accepting connection request", err)
	}
	if err := s.store.AddConnection(ctx, req.Sender, actor.Id); err != nil {
		return nil, dependency("Error accepting connection request", err)
	}

	s.notifications.Notify(ctx, req.Sender, models.NotificationTypeConnectionAccepted, actor.Id, primitive.NilObjectID)

	sender, err := s.store.GetUserByID(ctx, req.Sender)
	if err != nil {
		logrus.WithError(err).WithField("user", req.Sender.Hex()).Warn("could not load sender for acceptance email")
		return updated, nil
	}

	s.sendEmail(ctx, func() (mail.Message, error) {
		return mail.ConnectionAcceptedEmail(sender.Email, sender.Name, actor.Name, s.cfg.ProfileURL(actor.Username))
	})

	return updated, nil
}

// Reject closes a pending request addressed to actor without side effects
func (s *ConnectionService) Reject(ctx context.Context, actor *models.User, requestID primitive.ObjectID) (*models.ConnectionRequest, error) {
	req, err := s.pendingForRecipient(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, req, models.ConnectionStatusRejected)
}

// ListIncoming returns the pending requests addressed to actor, newest first
func (s *ConnectionService) ListIncoming(ctx context.Context, actor *models.User) ([]models.ConnectionRequestDto, error) {
	requests, err := s.store.ListPendingRequests(ctx, actor.Id)
	if err != nil {
		return nil, dependency("Error fetching connection requests", err)
	}

	senders := mapset.NewThreadUnsafeSet[primitive.ObjectID]()
	for _, r := range requests {
		senders.Add(r.Sender)
	}

	users, err := s.summaries(ctx, senders)
	if err != nil {
		return nil, dependency("Error fetching connection requests", err)
	}

	out := make([]models.ConnectionRequestDto, 0, len(requests))
	for _, r := range requests {
		sender, ok := users[r.Sender]
		if !ok {
			continue
		}
		out = append(out, models.ConnectionRequestDto{
			ID:        r.Id,
			Sender:    sender,
			Recipient: r.Recipient,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out, nil
}

// ListConnections resolves actor's connection set to public profiles
func (s *ConnectionService) ListConnections(ctx context.Context, actor *models.User) ([]models.UserDto, error) {
	out := []models.UserDto{}
	if len(actor.Connections) == 0 {
		return out, nil
	}

	users, err := s.store.ListUsersByIDs(ctx, actor.Connections)
	if err != nil {
		return nil, dependency("Error fetching connections", err)
	}
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out, nil
}

// RemoveConnection drops the connection in both directions. Removing a
// connection that does not exist is not an error.
func (s *ConnectionService) RemoveConnection(ctx context.Context, actor *models.User, targetID primitive.ObjectID) error {
	if actor.Id == targetID {
		return ErrSelfRemoval
	}

	if err := s.store.RemoveConnection(ctx, actor.Id, targetID); err != nil {
		return dependency("Error removing connection", err)
	}
	if err := s.store.RemoveConnection(ctx, targetID, actor.Id); err != nil {
		return dependency("Error removing connection", err)
	}
	return nil
}

// Status describes how actor relates to targetID
func (s *ConnectionService) Status(ctx context.Context, actor *models.User, targetID primitive.ObjectID) (*models.ConnectionStatusDto, error) {
	if actor.Id == targetID {
		return nil, ErrSelfStatus
	}

	if actor.IsConnectedTo(targetID) {
		return &models.ConnectionStatusDto{Status: models.RelationConnected}, nil
	}

	req, err := s.store.FindPendingBetween(ctx, actor.Id, targetID)
	if isNotFound(err) {
		return &models.ConnectionStatusDto{Status: models.RelationNotConnected}, nil
	}
	if err != nil {
		return nil, dependency("Error checking connection status", err)
	}

	id := req.Id
	if req.Sender == actor.Id {
		return &models.ConnectionStatusDto{Status: models.RelationPending, RequestID: &id}, nil
	}
	return &models.ConnectionStatusDto{Status: models.RelationReceived, RequestID: &id}, nil
}
