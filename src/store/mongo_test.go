package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/theleywin/talentnest/src/models"
	"github.com/theleywin/talentnest/src/store"
	"github.com/theleywin/talentnest/src/tester"
)

func updateReply(n, modified int32) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: n},
		bson.E{Key: "nModified", Value: modified},
	)
}

func TestMongoToggleLike(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	postID, userID := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("unlike", func(mt *mtest.T) {
		st := store.NewMongoStore(mt.DB)
		mt.AddMockResponses(updateReply(1, 1))

		liked, err := st.ToggleLike(ctx, postID, userID)
		require.NoError(mt, err)
		assert.False(mt, liked)
		assert.Equal(mt, "update", mt.GetStartedEvent().CommandName)
	})

	mt.Run("like", func(mt *mtest.T) {
		st := store.NewMongoStore(mt.DB)
		mt.AddMockResponses(updateReply(0, 0), updateReply(1, 1))

		liked, err := st.ToggleLike(ctx, postID, userID)
		require.NoError(mt, err)
		assert.True(mt, liked)
	})

	// both filters miss when another request liked the post in between
	mt.Run("liked concurrently", func(mt *mtest.T) {
		st := store.NewMongoStore(mt.DB)
		mt.AddMockResponses(
			updateReply(0, 0),
			updateReply(0, 0),
			mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch, bson.D{{Key: "n", Value: int64(1)}}),
		)

		liked, err := st.ToggleLike(ctx, postID, userID)
		require.NoError(mt, err)
		assert.True(mt, liked)
	})

	mt.Run("missing post", func(mt *mtest.T) {
		st := store.NewMongoStore(mt.DB)
		mt.AddMockResponses(
			updateReply(0, 0),
			updateReply(0, 0),
			mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch),
		)

		_, err := st.ToggleLike(ctx, postID, userID)
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})
}

func TestMongoConnectionRequests(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ada, bob := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("create sets the pair key", func(mt *mtest.T) {
		st := store.NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		req := &models.ConnectionRequest{Sender: bob, Recipient: ada}
		require.NoError(mt, st.CreateConnectionRequest(ctx, req))
		assert.Equal(mt, models.PairKey(ada, bob), req.PairKey)

		sent := mt.GetStartedEvent().Command.Lookup("documents", "0", "pairKey")
		assert.Equal(mt, req.PairKey, sent.StringValue())
	})

	mt.Run("duplicate pending", func(mt *mtest.T) {
		st := store.NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.connection_requests index: pending_pair_key",
		}))

		err := st.CreateConnectionRequest(ctx, &models.ConnectionRequest{Sender: ada, Recipient: bob})
		assert.ErrorIs(mt, err, store.ErrDuplicateKey)
	})

	mt.Run("find between either direction", func(mt *mtest.T) {
		st := store.NewMongoStore(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.connection_requests", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "sender", Value: ada},
			{Key: "recipient", Value: bob},
			{Key: "status", Value: string(models.ConnectionStatusPending)},
			{Key: "pairKey", Value: models.PairKey(ada, bob)},
		}))

		req, err := st.FindPendingBetween(ctx, bob, ada)
		require.NoError(mt, err)
		assert.Equal(mt, id, req.Id)

		filter := mt.GetStartedEvent().Command.Lookup("filter").Document()
		assert.Equal(mt, models.PairKey(ada, bob), filter.Lookup("pairKey").StringValue())
		assert.Equal(mt, string(models.ConnectionStatusPending), filter.Lookup("status").StringValue())
	})

	// the conditional update matches nothing once the request left pending
	mt.Run("transition lost", func(mt *mtest.T) {
		st := store.NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := st.TransitionConnectionRequest(ctx, primitive.NewObjectID(),
			models.ConnectionStatusPending, models.ConnectionStatusAccepted)
		assert.ErrorIs(mt, err, store.ErrNotFound)

		filter := mt.GetStartedEvent().Command.Lookup("query").Document()
		assert.Equal(mt, string(models.ConnectionStatusPending), filter.Lookup("status").StringValue())
	})
}

func TestMongoNotificationOwnership(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	id, owner := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("mark read by someone else", func(mt *mtest.T) {
		st := store.NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := st.MarkNotificationRead(ctx, id, primitive.NewObjectID())
		assert.ErrorIs(mt, err, store.ErrNotFound)
	})

	mt.Run("delete filters on recipient", func(mt *mtest.T) {
		st := store.NewMongoStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}))

		assert.ErrorIs(mt, st.DeleteNotification(ctx, id, owner), store.ErrNotFound)

		recipient := mt.GetStartedEvent().Command.Lookup("deletes", "0", "q", "recipient")
		assert.Equal(mt, owner, recipient.ObjectID())
	})
}

func TestMongoTransitionRace(t *testing.T) {
	ctx := context.Background()
	st := tester.NewMongoStore(t)

	ada := tester.NewUser(t, st)
	bob := tester.NewUser(t, st)

	req := &models.ConnectionRequest{Sender: ada.Id, Recipient: bob.Id}
	require.NoError(t, st.CreateConnectionRequest(ctx, req))

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = st.TransitionConnectionRequest(ctx, req.Id, models.ConnectionStatusPending, models.ConnectionStatusAccepted)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, store.ErrNotFound)
	}
	assert.Equal(t, 1, won)
}
