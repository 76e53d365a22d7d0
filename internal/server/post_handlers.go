package server

import (
	"unfake/internal/middleware"
	"unfake/internal/models"
	"unfake/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List approved posts newest first
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListApproved(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	posts, err := s.postService.SearchApproved(c.UserContext(), searchQuery(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
// @Summary Submit a post for review
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body service.CreatePostInput true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.CreatePostInput
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postService.Create(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// VotePost handles POST /api/posts/:id/vote
// @Summary Vote a post true or false
// @Tags posts
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/vote [post]
func (s *Server) VotePost(c *fiber.Ctx) error {
	var req struct {
		VoteType any `json:"voteType"`
	}
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, err)
	}
	// non-string values fall through as "" and are rejected after the post lookup
	voteType, _ := req.VoteType.(string)

	post, err := s.postService.Vote(c.UserContext(), c.Params("id"), middleware.CurrentUserID(c), voteType)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}
