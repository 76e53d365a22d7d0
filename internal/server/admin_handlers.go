package server

import (
	"unfake/internal/middleware"
	"unfake/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetStats handles GET /api/admin/stats
func (s *Server) GetStats(c *fiber.Ctx) error {
	stats, err := s.moderationService.Stats(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(stats)
}

// GetPendingPosts handles GET /api/admin/pending-posts?q=...
func (s *Server) GetPendingPosts(c *fiber.Ctx) error {
	posts, err := s.moderationService.PendingPosts(c.UserContext(), searchQuery(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// GetAllPosts handles GET /api/admin/posts?q=...
func (s *Server) GetAllPosts(c *fiber.Ctx) error {
	posts, err := s.moderationService.AllPosts(c.UserContext(), searchQuery(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// ModeratePost handles PUT /api/admin/posts/:id/moderate
// @Summary Moderate a post
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param body body models.ModerationUpdate true "Fields to change"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/posts/{id}/moderate [put]
func (s *Server) ModeratePost(c *fiber.Ctx) error {
	var req models.ModerationUpdate
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.moderationService.Moderate(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/admin/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.moderationService.DeletePost(c.UserContext(), middleware.CurrentUserID(c), c.Params("id")); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// GetUsers handles GET /api/admin/users?q=...
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.moderationService.Users(c.UserContext(), searchQuery(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(users)
}

// UpdateUserStatus handles PUT /api/admin/users/:id/status
func (s *Server) UpdateUserStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, err)
	}

	user, err := s.moderationService.ManageUserStatus(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"), req.Status)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// GetUserChartStats handles GET /api/admin/user-chart-stats
func (s *Server) GetUserChartStats(c *fiber.Ctx) error {
	stats, err := s.moderationService.UserChartStats(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(stats)
}

// GetLogs handles GET /api/admin/logs
func (s *Server) GetLogs(c *fiber.Ctx) error {
	logs, err := s.moderationService.Logs(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(logs)
}
