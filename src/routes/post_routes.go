package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theleywin/talentnest/src/controllers"
)

// PostRoutes sets up feed, creation, deletion, details, comments and likes
func PostRoutes(api fiber.Router, h *controllers.Handler, protect fiber.Handler) {
	post := api.Group("/posts", protect)

	post.Get("/", h.GetFeedPosts)
	post.Post("/create", h.CreatePost)
	post.Delete("/delete/:id", h.DeletePost)
	post.Get("/:id", h.GetPostByID)
	post.Post("/:id/comment", h.CreateComment)
	post.Post("/:id/like", h.LikePost)
}
