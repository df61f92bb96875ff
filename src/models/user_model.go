package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultHeadline is shown for users that never filled in their profile
const DefaultHeadline = "TalentNest User"

type User struct {
	Id             primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name           string               `json:"name" bson:"name"`
	Username       string               `json:"username" bson:"username"`
	Email          string               `json:"email" bson:"email"`
	Password       string               `json:"-" bson:"password"`
	ProfilePicture string               `json:"profilePicture" bson:"profilePicture"`
	BannerImg      string               `json:"bannerImg" bson:"bannerImg"`
	Headline       string               `json:"headline" bson:"headline"`
	About          string               `json:"about" bson:"about"`
	Location       string               `json:"location" bson:"location"`
	Skills         []string             `json:"skills" bson:"skills"`
	Experience     []Experience         `json:"experience" bson:"experience"`
	Education      []Education          `json:"education" bson:"education"`
	Connections    []primitive.ObjectID `json:"connections" bson:"connections"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// IsConnectedTo reports whether other is in the user's connection set
func (u *User) IsConnectedTo(other primitive.ObjectID) bool {
	for _, id := range u.Connections {
		if id == other {
			return true
		}
	}
	return false
}

// Summary returns the public fields shown next to posts, requests and notifications
func (u *User) Summary() UserDto {
	return UserDto{
		ID:             u.Id,
		Name:           u.Name,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		Headline:       u.Headline,
	}
}

type UserDto struct {
	ID             primitive.ObjectID `json:"_id"`
	Name           string             `json:"name"`
	Username       string             `json:"username"`
	ProfilePicture string             `json:"profilePicture"`
	Headline       string             `json:"headline,omitempty"`
}

type Experience struct {
	Title       string    `json:"title" bson:"title"`
	Company     string    `json:"company" bson:"company"`
	From        time.Time `json:"from" bson:"from"`
	To          time.Time `json:"to" bson:"to"`
	Description string    `json:"description" bson:"description"`
}

type Education struct {
	School string `json:"school" bson:"school"`
	Degree string `json:"degree" bson:"degree"`
	From   int    `json:"from" bson:"from"`
	To     int    `json:"to" bson:"to"`
}

// ProfileUpdate lists every field a user may change on their own profile.
// A nil field is left untouched.
type ProfileUpdate struct {
	Name           *string       `json:"name"`
	Username       *string       `json:"username"`
	Headline       *string       `json:"headline"`
	About          *string       `json:"about"`
	Location       *string       `json:"location"`
	ProfilePicture *string       `json:"profilePicture"`
	BannerImg      *string       `json:"bannerImg"`
	Skills         *[]string     `json:"skills"`
	Experience     *[]Experience `json:"experience"`
	Education      *[]Education  `json:"education"`
}

// Apply copies the set fields of the update onto u
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Headline != nil {
		u.Headline = *p.Headline
	}
	if p.About != nil {
		u.About = *p.About
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
	if p.BannerImg != nil {
		u.BannerImg = *p.BannerImg
	}
	if p.Skills != nil {
		u.Skills = *p.Skills
	}
	if p.Experience != nil {
		u.Experience = *p.Experience
	}
	if p.Education != nil {
		u.Education = *p.Education
	}
}

// IsEmpty reports whether the update would change nothing
func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Username == nil && p.Headline == nil && p.About == nil &&
		p.Location == nil && p.ProfilePicture == nil && p.BannerImg == nil &&
		p.Skills == nil && p.Experience == nil && p.Education == nil
}
