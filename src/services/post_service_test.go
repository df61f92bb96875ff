package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theleywin/talentnest/src/mail"
	"github.com/theleywin/talentnest/src/models"
	"github.com/theleywin/talentnest/src/services"
	"github.com/theleywin/talentnest/src/tester"
)

const pixel = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	posts := f.svc.Posts

	ada := tester.NewUser(t, f.st)

	_, err := posts.Create(ctx, ada, "   ", "")
	assert.ErrorIs(t, err, services.ErrEmptyPost)

	_, err = posts.Create(ctx, ada, "hello", "/etc/passwd")
	assert.ErrorIs(t, err, services.ErrInvalidImage)

	post, err := posts.Create(ctx, ada, "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Content)
	assert.Equal(t, ada.Username, post.Author.Username)
	assert.Empty(t, post.Image)
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)

	withImage, err := posts.Create(ctx, ada, "", pixel)
	require.NoError(t, err)
	assert.NotEqual(t, pixel, withImage.Image)
	assert.True(t, f.assets.Stored(withImage.Image))

	f.assets.UploadErr = assert.AnError
	_, err = posts.Create(ctx, ada, "again", pixel)
	require.Error(t, err)
	assert.Equal(t, services.KindDependency, services.KindOf(err))
}

func TestFeed(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	posts := f.svc.Posts

	ada := tester.NewUser(t, f.st)
	bob := tester.NewUser(t, f.st)
	eve := tester.NewUser(t, f.st)
	tester.Connect(t, f.st, ada, bob)

	own, err := posts.Create(ctx, ada, "mine", "")
	require.NoError(t, err)
	friend, err := posts.Create(ctx, bob, "from a connection", "")
	require.NoError(t, err)
	_, err = posts.Create(ctx, eve, "stranger", "")
	require.NoError(t, err)

	_, err = posts.Comment(ctx, eve, own.ID, "hi from outside")
	require.NoError(t, err)

	feed, err := posts.Feed(ctx, tester.Reload(t, f.st, ada))
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, friend.ID, feed[0].ID)
	assert.Equal(t, bob.Name, feed[0].Author.Name)
	assert.Equal(t, own.ID, feed[1].ID)
	require.Len(t, feed[1].Comments, 1)
	assert.Equal(t, eve.Username, feed[1].Comments[0].User.Username)

	lonely, err := posts.Feed(ctx, eve)
	require.NoError(t, err)
	require.Len(t, lonely, 1)
	assert.Equal(t, "stranger", lonely[0].Content)
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	posts := f.svc.Posts

	ada := tester.NewUser(t, f.st)
	bob := tester.NewUser(t, f.st)

	post, err := posts.Create(ctx, ada, "with a picture", pixel)
	require.NoError(t, err)

	assert.ErrorIs(t, posts.Delete(ctx, bob, post.ID), services.ErrNotPostAuthor)
	assert.ErrorIs(t, posts.Delete(ctx, ada, tester.ObjectID()), services.ErrPostNotFound)

	require.NoError(t, posts.Delete(ctx, ada, post.ID))
	assert.Equal(t, []string{post.Image}, f.assets.Deleted())

	_, err = posts.Get(ctx, ada, post.ID)
	assert.ErrorIs(t, err, services.ErrPostNotFound)
}

func TestDeletePostImageFailure(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	ada := tester.NewUser(t, f.st)
	post := &models.Post{Author: ada.Id, Content: "legacy", Image: "https://res.cloudinary.test/image/upload/v1/unknown.png"}
	require.NoError(t, f.st.CreatePost(ctx, post))

	require.NoError(t, f.svc.Posts.Delete(ctx, ada, post.Id))
	_, err := f.st.GetPost(ctx, post.Id)
	assert.Error(t, err)
}

func TestComment(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	posts := f.svc.Posts

	ada := tester.NewUser(t, f.st)
	bob := tester.NewUser(t, f.st)

	post, err := posts.Create(ctx, ada, "thoughts?", "")
	require.NoError(t, err)

	_, err = posts.Comment(ctx, bob, post.ID, " \n\t ")
	assert.ErrorIs(t, err, services.ErrEmptyComment)

	_, err = posts.Comment(ctx, bob, tester.ObjectID(), "hello")
	assert.ErrorIs(t, err, services.ErrPostNotFound)

	updated, err := posts.Comment(ctx, bob, post.ID, "  great post  ")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "great post", updated.Comments[0].Content)
	assert.Equal(t, bob.Username, updated.Comments[0].User.Username)

	notifications, err := f.st.ListNotifications(ctx, ada.Id)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeComment, notifications[0].Type)
	assert.Equal(t, bob.Id, notifications[0].RelatedUser)
	assert.Equal(t, post.ID, notifications[0].RelatedPost)

	emails := f.mailer.SentTo(ada.Email, mail.CategoryComment)
	require.Len(t, emails, 1)
	assert.Contains(t, emails[0].HTML, "http://localhost:5173/post/"+post.ID.Hex())

	// the author commenting on their own post creates nothing
	updated, err = posts.Comment(ctx, ada, post.ID, "thanks")
	require.NoError(t, err)
	assert.Len(t, updated.Comments, 2)
	assert.Equal(t, "thanks", updated.Comments[1].Content)

	notifications, err = f.st.ListNotifications(ctx, ada.Id)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
	assert.Len(t, f.mailer.SentTo(ada.Email, mail.CategoryComment), 1)
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	posts := f.svc.Posts

	ada := tester.NewUser(t, f.st)
	bob := tester.NewUser(t, f.st)

	post, err := posts.Create(ctx, ada, "like me", "")
	require.NoError(t, err)

	liked, isLiked, err := posts.ToggleLike(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.True(t, isLiked)
	assert.Contains(t, liked.Likes, bob.Id)

	unliked, isLiked, err := posts.ToggleLike(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.False(t, isLiked)
	assert.NotContains(t, unliked.Likes, bob.Id)

	notifications, err := f.st.ListNotifications(ctx, ada.Id)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeLike, notifications[0].Type)

	// self likes count but never notify
	_, isLiked, err = posts.ToggleLike(ctx, ada, post.ID)
	require.NoError(t, err)
	assert.True(t, isLiked)

	notifications, err = f.st.ListNotifications(ctx, ada.Id)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)

	_, _, err = posts.ToggleLike(ctx, bob, tester.ObjectID())
	assert.ErrorIs(t, err, services.ErrPostNotFound)
}
