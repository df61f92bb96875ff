package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/talentnest/src/models"
	"github.com/theleywin/talentnest/src/services"
	"github.com/theleywin/talentnest/src/tester"
)

func TestNotifySkipsSelf(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	ada := tester.NewUser(t, f.st)
	f.svc.Notifications.Notify(ctx, ada.Id, models.NotificationTypeLike, ada.Id, tester.ObjectID())

	list, err := f.svc.Notifications.List(ctx, ada)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListNotifications(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	ada := tester.NewUser(t, f.st)
	bob := tester.NewUser(t, f.st)

	post, err := f.svc.Posts.Create(ctx, ada, "notify me", "")
	require.NoError(t, err)

	f.svc.Notifications.Notify(ctx, ada.Id, models.NotificationTypeConnectionAccepted, bob.Id, primitive.NilObjectID)
	f.svc.Notifications.Notify(ctx, ada.Id, models.NotificationTypeLike, bob.Id, post.ID)
	f.svc.Notifications.Notify(ctx, ada.Id, models.NotificationTypeComment, bob.Id, tester.ObjectID())

	list, err := f.svc.Notifications.List(ctx, ada)
	require.NoError(t, err)
	require.Len(t, list, 3)

	// newest first; the last one points at a post that no longer exists
	assert.Equal(t, models.NotificationTypeComment, list[0].Type)
	assert.Nil(t, list[0].RelatedPost)
	require.NotNil(t, list[0].RelatedUser)
	assert.Equal(t, bob.Username, list[0].RelatedUser.Username)

	assert.Equal(t, models.NotificationTypeLike, list[1].Type)
	require.NotNil(t, list[1].RelatedPost)
	assert.Equal(t, "notify me", list[1].RelatedPost.Content)

	assert.Equal(t, models.NotificationTypeConnectionAccepted, list[2].Type)
	assert.Nil(t, list[2].RelatedPost)
	assert.False(t, list[2].Read)

	others, err := f.svc.Notifications.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestMarkReadAndDelete(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	ada := tester.NewUser(t, f.st)
	bob := tester.NewUser(t, f.st)

	f.svc.Notifications.Notify(ctx, ada.Id, models.NotificationTypeConnectionAccepted, bob.Id, primitive.NilObjectID)
	list, err := f.svc.Notifications.List(ctx, ada)
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	_, err = f.svc.Notifications.MarkRead(ctx, bob, id)
	assert.ErrorIs(t, err, services.ErrNotificationNotFound)

	read, err := f.svc.Notifications.MarkRead(ctx, ada, id)
	require.NoError(t, err)
	assert.True(t, read.Read)

	assert.ErrorIs(t, f.svc.Notifications.Delete(ctx, bob, id), services.ErrNotificationNotFound)
	require.NoError(t, f.svc.Notifications.Delete(ctx, ada, id))
	assert.ErrorIs(t, f.svc.Notifications.Delete(ctx, ada, id), services.ErrNotificationNotFound)
}
