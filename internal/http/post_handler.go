package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chniak97436/blog-api/internal/domain"
	"github.com/chniak97436/blog-api/internal/service"
)

// PostHandler mantiene dependencias para endpoints de posts.
type PostHandler struct {
	logger   *zap.Logger
	postServ *service.PostService
}

// NewPostHandler crea una instancia de PostHandler con dependencias necesarias.
func NewPostHandler(logger *zap.Logger, postServ *service.PostService) *PostHandler {
	return &PostHandler{
		logger:   logger,
		postServ: postServ,
	}
}

// ListPosts maneja GET /api/posts.
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.postServ.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list posts failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost maneja GET /api/posts/:id.
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postServ.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		h.logger.Error("get post failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost maneja POST /api/posts.
func (h *PostHandler) CreatePost(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Title     string `json:"title" binding:"required"`
		Content   string `json:"content" binding:"required"`
		Published bool   `json:"published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create post request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
		return
	}

	post, err := h.postServ.Create(c.Request.Context(), claims.UserID, service.CreatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrMissingTitle):
			c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
		default:
			h.logger.Error("create post failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost maneja PUT /api/posts/:id.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Title     string `json:"title" binding:"required"`
		Content   string `json:"content" binding:"required"`
		Published bool   `json:"published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update post request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
		return
	}

	post, err := h.postServ.Update(c.Request.Context(), c.Param("id"), claims.UserID, service.UpdatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		h.respondPostMutationError(c, "update", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost maneja DELETE /api/posts/:id.
func (h *PostHandler) DeletePost(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	if err := h.postServ.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		h.respondPostMutationError(c, "delete", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// Un post inexistente es 404 aun para terceros; un post ajeno existente es 403.
func (h *PostHandler) respondPostMutationError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case errors.Is(err, service.ErrNotPostAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only " + action + " your own posts"})
	case errors.Is(err, service.ErrMissingTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and content are required"})
	default:
		h.logger.Error(action+" post failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
