package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConnectionRequest struct {
	Id        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	Status    ConnectionStatus   `json:"status" bson:"status"`
	// PairKey names the unordered pair, so one pending request covers both directions
	PairKey   string             `json:"-" bson:"pairKey"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PairKey returns the same key for (a, b) and (b, a)
func PairKey(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed from s
func (s ConnectionStatus) IsTerminal() bool {
	return s == ConnectionStatusAccepted || s == ConnectionStatusRejected
}

// ConnectionRequestDto is an incoming request with the sender populated
type ConnectionRequestDto struct {
	ID        primitive.ObjectID `json:"_id"`
	Sender    UserDto            `json:"sender"`
	Recipient primitive.ObjectID `json:"recipient"`
	Status    ConnectionStatus   `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// RelationState describes how the viewer relates to another user
type RelationState string

const (
	RelationConnected    RelationState = "connected"
	RelationPending      RelationState = "pending"
	RelationReceived     RelationState = "received"
	RelationNotConnected RelationState = "not_connected"
)

type ConnectionStatusDto struct {
	Status    RelationState       `json:"status"`
	RequestID *primitive.ObjectID `json:"requestId,omitempty"`
}
