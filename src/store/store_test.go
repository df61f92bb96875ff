package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/talentnest/src/models"
	"github.com/theleywin/talentnest/src/store"
	"github.com/theleywin/talentnest/src/tester"
)

// eachStore runs the same cases against every backend. The mongo run needs
// MONGO_URI and is skipped without it.
func eachStore(t *testing.T, run func(t *testing.T, st store.Store)) {
	t.Run("gorm", func(t *testing.T) { run(t, tester.NewStore(t)) })
	t.Run("mongo", func(t *testing.T) { run(t, tester.NewMongoStore(t)) })
}

func TestUsers(t *testing.T) {
	eachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()

		ada := tester.NewUser(t, st)
		assert.False(t, ada.Id.IsZero())

		byName, err := st.GetUserByUsername(ctx, ada.Username)
		require.NoError(t, err)
		assert.Equal(t, ada.Id, byName.Id)
		assert.NotEmpty(t, byName.Password)

		byEmail, err := st.GetUserByEmail(ctx, ada.Email)
		require.NoError(t, err)
		assert.Equal(t, ada.Id, byEmail.Id)

		_, err = st.GetUserByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, store.ErrNotFound)

		dup := &models.User{Name: "x", Username: ada.Username, Email: "other@example.com"}
		assert.ErrorIs(t, st.CreateUser(ctx, dup), store.ErrDuplicateKey)
	})
}

func TestUpdateUserProfile(t *testing.T) {
	eachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()

		ada := tester.NewUser(t, st)
		bob := tester.NewUser(t, st)

		about := "Distributed systems"
		skills := []string{"go", "mongo"}
		updated, err := st.UpdateUserProfile(ctx, ada.Id, models.ProfileUpdate{About: &about, Skills: &skills})
		require.NoError(t, err)
		assert.Equal(t, about, updated.About)
		assert.Equal(t, skills, updated.Skills)
		assert.Equal(t, ada.Name, updated.Name)
		assert.Empty(t, updated.Password)

		// the password survives a profile update
		reloaded, err := st.GetUserByUsername(ctx, ada.Username)
		require.NoError(t, err)
		assert.NotEmpty(t, reloaded.Password)

		taken := bob.Username
		_, err = st.UpdateUserProfile(ctx, ada.Id, models.ProfileUpdate{Username: &taken})
		assert.ErrorIs(t, err, store.ErrDuplicateKey)

		_, err = st.UpdateUserProfile(ctx, primitive.NewObjectID(), models.ProfileUpdate{About: &about})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestConnectionSets(t *testing.T) {
	eachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()

		ada := tester.NewUser(t, st)
		bob := tester.NewUser(t, st)

		require.NoError(t, st.AddConnection(ctx, ada.Id, bob.Id))
		require.NoError(t, st.AddConnection(ctx, ada.Id, bob.Id))
		assert.Equal(t, []primitive.ObjectID{bob.Id}, tester.Reload(t, st, ada).Connections)

		assert.ErrorIs(t, st.AddConnection(ctx, primitive.NewObjectID(), bob.Id), store.ErrNotFound)

		require.NoError(t, st.RemoveConnection(ctx, ada.Id, bob.Id))
		require.NoError(t, st.RemoveConnection(ctx, ada.Id, bob.Id))
		assert.Empty(t, tester.Reload(t, st, ada).Connections)
	})
}

func TestListUsersExcluding(t *testing.T) {
	eachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()

		users := make([]*models.User, 5)
		for i := range users {
			users[i] = tester.NewUser(t, st)
		}

		found, err := st.ListUsersExcluding(ctx, []primitive.ObjectID{users[0].Id, users[1].Id}, 10)
		require.NoError(t, err)
		assert.Len(t, found, 3)
		for _, u := range found {
			assert.NotEqual(t, users[0].Id, u.Id)
			assert.NotEqual(t, users[1].Id, u.Id)
			assert.Empty(t, u.Password)
		}

		limited, err := st.ListUsersExcluding(ctx, nil, 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})
}

func TestConnectionRequests(t *testing.T) {
	eachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()

		ada := tester.NewUser(t, st)
		bob := tester.NewUser(t, st)

		req := &models.ConnectionRequest{Sender: ada.Id, Recipient: bob.Id}
		require.NoError(t, st.CreateConnectionRequest(ctx, req))
		assert.Equal(t, models.ConnectionStatusPending, req.Status)

		assert.Equal(t, models.PairKey(ada.Id, bob.Id), req.PairKey)

		// only one pending request per pair, whichever side sends it
		again := &models.ConnectionRequest{Sender: ada.Id, Recipient: bob.Id}
		assert.ErrorIs(t, st.CreateConnectionRequest(ctx, again), store.ErrDuplicateKey)
		reverse := &models.ConnectionRequest{Sender: bob.Id, Recipient: ada.Id}
		assert.ErrorIs(t, st.CreateConnectionRequest(ctx, reverse), store.ErrDuplicateKey)

		between, err := st.FindPendingBetween(ctx, bob.Id, ada.Id)
		require.NoError(t, err)
		assert.Equal(t, req.Id, between.Id)
		assert.Equal(t, ada.Id, between.Sender)

		_, err = st.FindPendingBetween(ctx, ada.Id, tester.NewUser(t, st).Id)
		assert.ErrorIs(t, err, store.ErrNotFound)

		pending, err := st.ListPendingRequests(ctx, bob.Id)
		require.NoError(t, err)
		require.Len(t, pending, 1)

		rejected, err := st.TransitionConnectionRequest(ctx, req.Id, models.ConnectionStatusPending, models.ConnectionStatusRejected)
		require.NoError(t, err)
		assert.Equal(t, models.ConnectionStatusRejected, rejected.Status)

		// a second transition out of pending finds nothing
		_, err = st.TransitionConnectionRequest(ctx, req.Id, models.ConnectionStatusPending, models.ConnectionStatusAccepted)
		assert.ErrorIs(t, err, store.ErrNotFound)

		// a rejected request no longer blocks a new one
		retry := &models.ConnectionRequest{Sender: ada.Id, Recipient: bob.Id}
		require.NoError(t, st.CreateConnectionRequest(ctx, retry))

		pending, err = st.ListPendingRequests(ctx, bob.Id)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, retry.Id, pending[0].Id)
	})
}

func TestPosts(t *testing.T) {
	eachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()

		ada := tester.NewUser(t, st)
		bob := tester.NewUser(t, st)

		first := &models.Post{Author: ada.Id, Content: "first"}
		require.NoError(t, st.CreatePost(ctx, first))
		second := &models.Post{Author: bob.Id, Content: "second"}
		require.NoError(t, st.CreatePost(ctx, second))
		other := &models.Post{Author: tester.NewUser(t, st).Id, Content: "elsewhere"}
		require.NoError(t, st.CreatePost(ctx, other))

		feed, err := st.ListPostsByAuthors(ctx, []primitive.ObjectID{ada.Id, bob.Id})
		require.NoError(t, err)
		require.Len(t, feed, 2)
		assert.Equal(t, second.Id, feed[0].Id)
		assert.Equal(t, first.Id, feed[1].Id)

		post, err := st.AddComment(ctx, first.Id, models.Comment{User: bob.Id, Content: "nice"})
		require.NoError(t, err)
		post, err = st.AddComment(ctx, first.Id, models.Comment{User: ada.Id, Content: "thanks"})
		require.NoError(t, err)
		require.Len(t, post.Comments, 2)
		assert.Equal(t, "nice", post.Comments[0].Content)
		assert.Equal(t, "thanks", post.Comments[1].Content)

		_, err = st.AddComment(ctx, primitive.NewObjectID(), models.Comment{User: ada.Id, Content: "lost"})
		assert.ErrorIs(t, err, store.ErrNotFound)

		liked, err := st.ToggleLike(ctx, first.Id, bob.Id)
		require.NoError(t, err)
		assert.True(t, liked)

		post, err = st.GetPost(ctx, first.Id)
		require.NoError(t, err)
		assert.True(t, post.IsLikedBy(bob.Id))

		liked, err = st.ToggleLike(ctx, first.Id, bob.Id)
		require.NoError(t, err)
		assert.False(t, liked)

		post, err = st.GetPost(ctx, first.Id)
		require.NoError(t, err)
		assert.Empty(t, post.Likes)

		_, err = st.ToggleLike(ctx, primitive.NewObjectID(), bob.Id)
		assert.ErrorIs(t, err, store.ErrNotFound)

		byID, err := st.ListPostsByIDs(ctx, []primitive.ObjectID{first.Id, primitive.NewObjectID()})
		require.NoError(t, err)
		assert.Len(t, byID, 1)

		require.NoError(t, st.DeletePost(ctx, first.Id))
		_, err = st.GetPost(ctx, first.Id)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, st.DeletePost(ctx, first.Id), store.ErrNotFound)
	})
}

func TestNotifications(t *testing.T) {
	eachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()

		ada := tester.NewUser(t, st)
		bob := tester.NewUser(t, st)

		older := &models.Notification{Recipient: ada.Id, Type: models.NotificationTypeConnectionAccepted, RelatedUser: bob.Id}
		require.NoError(t, st.CreateNotification(ctx, older))
		newer := &models.Notification{Recipient: ada.Id, Type: models.NotificationTypeLike, RelatedUser: bob.Id, RelatedPost: primitive.NewObjectID()}
		require.NoError(t, st.CreateNotification(ctx, newer))

		list, err := st.ListNotifications(ctx, ada.Id)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.Id, list[0].Id)
		assert.True(t, list[1].RelatedPost.IsZero())

		_, err = st.MarkNotificationRead(ctx, newer.Id, bob.Id)
		assert.ErrorIs(t, err, store.ErrNotFound)

		read, err := st.MarkNotificationRead(ctx, newer.Id, ada.Id)
		require.NoError(t, err)
		assert.True(t, read.Read)

		assert.ErrorIs(t, st.DeleteNotification(ctx, older.Id, bob.Id), store.ErrNotFound)
		require.NoError(t, st.DeleteNotification(ctx, older.Id, ada.Id))

		list, err = st.ListNotifications(ctx, ada.Id)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}
