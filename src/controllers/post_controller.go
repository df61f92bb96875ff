package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/talentnest/src/lib"
)

// GetFeedPosts returns posts by the caller and their connections, newest first
func (h *Handler) GetFeedPosts(c *fiber.Ctx) error {
	posts, err := h.svc.Posts.Feed(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// CreatePost creates a post for the caller, uploading the image if one is given
func (h *Handler) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
		Image   string `json:"image,omitempty"` // data URI or URL
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	post, err := h.svc.Posts.Create(c.UserContext(), currentUser(c), req.Content, req.Image)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *Handler) DeletePost(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.svc.Posts.Delete(c.UserContext(), currentUser(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(lib.MessageResponse("Post deleted successfully"))
}

func (h *Handler) GetPostByID(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	post, err := h.svc.Posts.Get(c.UserContext(), currentUser(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// CreateComment adds a comment to a post and notifies its author
func (h *Handler) CreateComment(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	post, err := h.svc.Posts.Comment(c.UserContext(), currentUser(c), postID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// LikePost toggles the caller's like on a post
func (h *Handler) LikePost(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	post, _, err := h.svc.Posts.ToggleLike(c.UserContext(), currentUser(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}
