package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	Id          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Recipient   primitive.ObjectID `json:"recipient" bson:"recipient"`
	Type        NotificationType   `json:"type" bson:"type"`
	RelatedUser primitive.ObjectID `json:"relatedUser,omitempty" bson:"relatedUser,omitempty"`
	RelatedPost primitive.ObjectID `json:"relatedPost,omitempty" bson:"relatedPost,omitempty"`
	Read        bool               `json:"read" bson:"read"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type NotificationType string

const (
	NotificationTypeLike               NotificationType = "like"
	NotificationTypeComment            NotificationType = "comment"
	NotificationTypeConnectionAccepted NotificationType = "connectionAccepted"
)

// PostSummary is the part of a post shown inside a notification
type PostSummary struct {
	ID      primitive.ObjectID `json:"_id"`
	Content string             `json:"content"`
	Image   string             `json:"image,omitempty"`
}

type NotificationDto struct {
	ID          primitive.ObjectID `json:"_id"`
	Recipient   primitive.ObjectID `json:"recipient"`
	Type        NotificationType   `json:"type"`
	Read        bool               `json:"read"`
	RelatedUser *UserDto           `json:"relatedUser"`
	RelatedPost *PostSummary       `json:"relatedPost"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
