package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProfileUpdateApply(t *testing.T) {
	user := &User{Name: "Ada", Headline: DefaultHeadline, Skills: []string{"math"}}

	assert.True(t, ProfileUpdate{}.IsEmpty())

	headline := "Analyst"
	skills := []string{}
	update := ProfileUpdate{Headline: &headline, Skills: &skills}
	assert.False(t, update.IsEmpty())

	update.Apply(user)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "Analyst", user.Headline)
	assert.Empty(t, user.Skills)
}

func TestConnectionsAndLikes(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	user := User{Id: a, Connections: []primitive.ObjectID{b}}
	assert.True(t, user.IsConnectedTo(b))
	assert.False(t, user.IsConnectedTo(a))

	post := Post{Likes: []primitive.ObjectID{a}}
	assert.True(t, post.IsLikedBy(a))
	assert.False(t, post.IsLikedBy(b))

	summary := user.Summary()
	assert.Equal(t, a, summary.ID)
}

func TestConnectionStatusTerminal(t *testing.T) {
	assert.False(t, ConnectionStatusPending.IsTerminal())
	assert.True(t, ConnectionStatusAccepted.IsTerminal())
	assert.True(t, ConnectionStatusRejected.IsTerminal())
}

func TestPairKey(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	assert.Equal(t, PairKey(a, b), PairKey(b, a))
	assert.NotEqual(t, PairKey(a, b), PairKey(a, primitive.NewObjectID()))
	assert.Contains(t, PairKey(a, b), a.Hex())
}
