package services

import (
	"context"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/talentnest/src/mail"
	"github.com/theleywin/talentnest/src/media"
	"github.com/theleywin/talentnest/src/models"
)

type PostService struct {
	deps
	notifications *NotificationService
}

// populate resolves authors and comment users of posts to their public fields
func (s *PostService) populate(ctx context.Context, posts []models.Post) ([]models.PostDto, error) {
	ids := mapset.NewThreadUnsafeSet[primitive.ObjectID]()
	for _, p := range posts {
		ids.Add(p.Author)
		for _, c := range p.Comments {
			ids.Add(c.User)
		}
	}

	users, err := s.summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	lookup := func(id primitive.ObjectID) models.UserDto {
		if u, ok := users[id]; ok {
			return u
		}
		return models.UserDto{ID: id}
	}

	out := make([]models.PostDto, 0, len(posts))
	for _, p := range posts {
		comments := make([]models.CommentDto, 0, len(p.Comments))
		for _, c := range p.Comments {
			comments = append(comments, models.CommentDto{
				ID:        c.Id,
				Content:   c.Content,
				User:      lookup(c.User),
				CreatedAt: c.CreatedAt,
			})
		}

		likes := p.Likes
		if likes == nil {
			likes = []primitive.ObjectID{}
		}

		out = append(out, models.PostDto{
			ID:        p.Id,
			Author:    lookup(p.Author),
			Content:   p.Content,
			Image:     p.Image,
			Likes:     likes,
			Comments:  comments,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return out, nil
}

func (s *PostService) populateOne(ctx context.Context, post *models.Post) (*models.PostDto, error) {
	dtos, err := s.populate(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *PostService) load(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if isNotFound(err) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, dependency("Error fetching post", err)
	}
	return post, nil
}

// Feed returns the posts of viewer and viewer's connections, newest first
func (s *PostService) Feed(ctx context.Context, viewer *models.User) ([]models.PostDto, error) {
	authors := mapset.NewThreadUnsafeSet(viewer.Connections...)
	authors.Add(viewer.Id)

	posts, err := s.store.ListPostsByAuthors(ctx, authors.ToSlice())
	if err != nil {
		return nil, dependency("Error fetching posts", err)
	}

	dtos, err := s.populate(ctx, posts)
	if err != nil {
		return nil, dependency("Error fetching posts", err)
	}
	return dtos, nil
}

// Create stores a post for author. An image payload is uploaded first and only
// the hosted URL is kept.
func (s *PostService) Create(ctx context.Context, author *models.User, content, image string) (*models.PostDto, error) {
	if strings.TrimSpace(content) == "" && image == "" {
		return nil, ErrEmptyPost
	}

	var imageURL string
	if image != "" {
		if err := media.ValidatePayload(image); err != nil {
			return nil, ErrInvalidImage
		}

		url, err := s.assets.Upload(ctx, image)
		if err != nil {
			return nil, dependency("Error uploading image", err)
		}
		imageURL = url
	}

	post := &models.Post{
		Author:  author.Id,
		Content: content,
		Image:   imageURL,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, dependency("Error creating post", err)
	}

	dto, err := s.populateOne(ctx, post)
	if err != nil {
		return nil, dependency("Error creating post", err)
	}
	return dto, nil
}

func (s *PostService) Get(ctx context.Context, viewer *models.User, id primitive.ObjectID) (*models.PostDto, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	dto, err := s.populateOne(ctx, post)
	if err != nil {
		return nil, dependency("Error fetching post", err)
	}
	return dto, nil
}

// Delete removes a post written by actor together with its hosted image
func (s *PostService) Delete(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	post, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if post.Author != actor.Id {
		return ErrNotPostAuthor
	}

	if post.Image != "" {
		if err := s.assets.Delete(ctx, post.Image); err != nil {
			logrus.WithError(err).WithField("post", id.Hex()).Warn("failed to delete post image")
		}
	}

	if err := s.store.DeletePost(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrPostNotFound
		}
		return dependency("Error deleting post", err)
	}
	return nil
}

// Comment appends a comment by actor and lets the author know about it
func (s *PostService) Comment(ctx context.Context, actor *models.User, postID primitive.ObjectID, content string) (*models.PostDto, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	comment := models.Comment{
		Id:        primitive.NewObjectID(),
		Content:   content,
		User:      actor.Id,
		CreatedAt: time.Now(),
	}

	post, err := s.store.AddComment(ctx, postID, comment)
	if isNotFound(err) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, dependency("Error adding comment", err)
	}

	if post.Author != actor.Id {
		s.notifications.Notify(ctx, post.Author, models.NotificationTypeComment, actor.Id, post.Id)
		s.emailAuthor(ctx, post, actor, content)
	}

	dto, err := s.populateOne(ctx, post)
	if err != nil {
		return nil, dependency("Error adding comment", err)
	}
	return dto, nil
}

func (s *PostService) emailAuthor(ctx context.Context, post *models.Post, commenter *models.User, content string) {
	author, err := s.store.GetUserByID(ctx, post.Author)
	if err != nil {
		logrus.WithError(err).WithField("user", post.Author.Hex()).Warn("could not load post author for comment email")
		return
	}

	s.sendEmail(ctx, func() (mail.Message, error) {
		return mail.CommentEmail(author.Email, author.Name, commenter.Name, content, s.cfg.PostURL(post.Id.Hex()))
	})
}

// ToggleLike likes the post for actor, or removes an existing like. Only a new
// like by someone other than the author creates a notification.
func (s *PostService) ToggleLike(ctx context.Context, actor *models.User, postID primitive.ObjectID) (*models.PostDto, bool, error) {
	liked, err := s.store.ToggleLike(ctx, postID, actor.Id)
	if isNotFound(err) {
		return nil, false, ErrPostNotFound
	}
	if err != nil {
		return nil, false, dependency("Error liking post", err)
	}

	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, false, err
	}

	if liked {
		s.notifications.Notify(ctx, post.Author, models.NotificationTypeLike, actor.Id, post.Id)
	}

	dto, err := s.populateOne(ctx, post)
	if err != nil {
		return nil, false, dependency("Error liking post", err)
	}
	return dto, liked, nil
}
