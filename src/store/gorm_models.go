package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/talentnest/src/models"
)

// Relational rows keep document ids as their 24 character hex form so both
// backends hand out the same identifiers.

type userRecord struct {
	ID             string `gorm:"primaryKey;size:24"`
	Name           string
	Username       string `gorm:"uniqueIndex;size:64"`
	Email          string `gorm:"uniqueIndex;size:255"`
	Password       string
	ProfilePicture string
	BannerImg      string
	Headline       string
	About          string              `gorm:"type:text"`
	Location       string
	Skills         []string            `gorm:"serializer:json"`
	Experience     []models.Experience `gorm:"serializer:json"`
	Education      []models.Education  `gorm:"serializer:json"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userRecord) TableName() string { return "users" }

// connectionEdge is one direction of a connection; an accepted request writes both
type connectionEdge struct {
	UserID       string `gorm:"primaryKey;size:24"`
	ConnectionID string `gorm:"primaryKey;size:24"`
	CreatedAt    time.Time
}

func (connectionEdge) TableName() string { return "user_connections" }

type connectionRequestRecord struct {
	ID          string `gorm:"primaryKey;size:24"`
	SenderID    string `gorm:"size:24"`
	RecipientID string `gorm:"size:24;index"`
	PairKey     string `gorm:"size:49;uniqueIndex:idx_pending_pair,where:status = 'pending'"`
	Status      string `gorm:"size:20;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (connectionRequestRecord) TableName() string { return "connection_requests" }

type postRecord struct {
	ID        string `gorm:"primaryKey;size:24"`
	AuthorID  string `gorm:"size:24;index"`
	Content   string `gorm:"type:text"`
	Image     string
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (postRecord) TableName() string { return "posts" }

type commentRecord struct {
	ID        string `gorm:"primaryKey;size:24"`
	PostID    string `gorm:"size:24;index"`
	UserID    string `gorm:"size:24"`
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
}

func (commentRecord) TableName() string { return "comments" }

type likeRecord struct {
	PostID    string `gorm:"primaryKey;size:24"`
	UserID    string `gorm:"primaryKey;size:24"`
	CreatedAt time.Time
}

func (likeRecord) TableName() string { return "post_likes" }

type notificationRecord struct {
	ID            string `gorm:"primaryKey;size:24"`
	RecipientID   string `gorm:"size:24;index"`
	Type          string `gorm:"size:32"`
	RelatedUserID string `gorm:"size:24"`
	RelatedPostID string `gorm:"size:24"`
	Read          bool
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

func (notificationRecord) TableName() string { return "notifications" }

func hexOf(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

func oid(hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

func toUserRecord(u *models.User) userRecord {
	return userRecord{
		ID:             hexOf(u.Id),
		Name:           u.Name,
		Username:       u.Username,
		Email:          u.Email,
		Password:       u.Password,
		ProfilePicture: u.ProfilePicture,
		BannerImg:      u.BannerImg,
		Headline:       u.Headline,
		About:          u.About,
		Location:       u.Location,
		Skills:         u.Skills,
		Experience:     u.Experience,
		Education:      u.Education,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (r userRecord) toModel(connections []primitive.ObjectID) models.User {
	if connections == nil {
		connections = []primitive.ObjectID{}
	}
	skills := r.Skills
	if skills == nil {
		skills = []string{}
	}
	experience := r.Experience
	if experience == nil {
		experience = []models.Experience{}
	}
	education := r.Education
	if education == nil {
		education = []models.Education{}
	}

	return models.User{
		Id:             oid(r.ID),
		Name:           r.Name,
		Username:       r.Username,
		Email:          r.Email,
		Password:       r.Password,
		ProfilePicture: r.ProfilePicture,
		BannerImg:      r.BannerImg,
		Headline:       r.Headline,
		About:          r.About,
		Location:       r.Location,
		Skills:         skills,
		Experience:     experience,
		Education:      education,
		Connections:    connections,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r connectionRequestRecord) toModel() models.ConnectionRequest {
	return models.ConnectionRequest{
		Id:        oid(r.ID),
		Sender:    oid(r.SenderID),
		Recipient: oid(r.RecipientID),
		Status:    models.ConnectionStatus(r.Status),
		PairKey:   r.PairKey,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r postRecord) toModel(comments []commentRecord, likes []likeRecord) models.Post {
	post := models.Post{
		Id:        oid(r.ID),
		Author:    oid(r.AuthorID),
		Content:   r.Content,
		Image:     r.Image,
		Likes:     make([]primitive.ObjectID, 0, len(likes)),
		Comments:  make([]models.Comment, 0, len(comments)),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	for _, like := range likes {
		post.Likes = append(post.Likes, oid(like.UserID))
	}
	for _, c := range comments {
		post.Comments = append(post.Comments, models.Comment{
			Id:        oid(c.ID),
			Content:   c.Content,
			User:      oid(c.UserID),
			CreatedAt: c.CreatedAt,
		})
	}
	return post
}

func (r notificationRecord) toModel() models.Notification {
	return models.Notification{
		Id:          oid(r.ID),
		Recipient:   oid(r.RecipientID),
		Type:        models.NotificationType(r.Type),
		RelatedUser: oid(r.RelatedUserID),
		RelatedPost: oid(r.RelatedPostID),
		Read:        r.Read,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
