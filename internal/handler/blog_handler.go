package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/service"
	"github.com/rs/zerolog/log"
)

type createBlogRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Body        string   `json:"body"`
	State       string   `json:"state"`
}

type updateBlogRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	Body        *string   `json:"body"`
	State       *string   `json:"state"`
}

type updateBlogStateRequest struct {
	State string `json:"state"`
}

// publishedBlogResponse decorates a blog with its body rendered to
// sanitized HTML for the public detail view.
type publishedBlogResponse struct {
	*db.Blog
	HTML string `json:"html"`
}

// CreateBlog creates a blog owned by the authenticated caller.
func (a *API) CreateBlog(c *gin.Context) {
	var req createBlogRequest
	if !bindJSON(c, &req, "invalid blog payload") {
		return
	}

	blog, err := a.blogs.Create(service.BlogInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Body:        req.Body,
		State:       req.State,
		AuthorID:    callerID(c),
	})
	if err != nil {
		respondBlogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, blog)
}

// ListPublishedBlogs returns one page of published blogs for any caller.
func (a *API) ListPublishedBlogs(c *gin.Context) {
	filter := service.PublicFilter{
		Title:   c.Query("title"),
		Author:  c.Query("author"),
		Tags:    c.Query("tags"),
		OrderBy: c.Query("order_by"),
		Page:    parseIntQuery(c, "page", 1),
		Limit:   parseIntQuery(c, "limit", 0),
	}

	result, err := a.blogs.ListPublished(filter)
	if err != nil {
		log.Error().Err(err).Msg("list published blogs failed")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blogs":       result.Blogs,
		"totalPages":  result.TotalPages,
		"currentPage": result.Page,
	})
}

// GetPublishedBlog returns a single published blog and counts the read.
// Drafts are served as 404 so their existence never leaks.
func (a *API) GetPublishedBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, service.ErrBlogNotFound.Error())
		return
	}

	blog, err := a.blogs.GetPublished(id)
	if err != nil {
		respondBlogError(c, err)
		return
	}

	html, err := service.RenderMarkdown(blog.Body)
	if err != nil {
		log.Error().Err(err).Uint("blog_id", blog.ID).Msg("render blog body failed")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, publishedBlogResponse{Blog: blog, HTML: html})
}

// ListMyBlogs returns one page of the caller's blogs in any state.
func (a *API) ListMyBlogs(c *gin.Context) {
	filter := service.OwnerFilter{
		State: c.Query("state"),
		Page:  parseIntQuery(c, "page", 1),
		Limit: parseIntQuery(c, "limit", 0),
	}

	result, err := a.blogs.ListMine(callerID(c), filter)
	if err != nil {
		log.Error().Err(err).Msg("list own blogs failed")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blogs":       result.Blogs,
		"totalPages":  result.TotalPages,
		"currentPage": result.Page,
	})
}

// UpdateBlog applies a partial update to a blog owned by the caller.
func (a *API) UpdateBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, service.ErrBlogNotFound.Error())
		return
	}

	var req updateBlogRequest
	if !bindJSON(c, &req, "invalid blog payload") {
		return
	}

	blog, err := a.blogs.Update(id, callerID(c), service.BlogUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Body:        req.Body,
		State:       req.State,
	})
	if err != nil {
		respondBlogError(c, err)
		return
	}

	c.JSON(http.StatusOK, blog)
}

// UpdateBlogState changes only the publication state of a blog.
func (a *API) UpdateBlogState(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, service.ErrBlogNotFound.Error())
		return
	}

	var req updateBlogStateRequest
	if !bindJSON(c, &req, "invalid state payload") {
		return
	}

	blog, err := a.blogs.UpdateState(id, callerID(c), req.State)
	if err != nil {
		respondBlogError(c, err)
		return
	}

	c.JSON(http.StatusOK, blog)
}

// DeleteBlog permanently removes a blog owned by the caller.
func (a *API) DeleteBlog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, service.ErrBlogNotFound.Error())
		return
	}

	if err := a.blogs.Delete(id, callerID(c)); err != nil {
		respondBlogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "blog deleted"})
}

// respondBlogError maps blog service errors onto HTTP statuses so the
// mutation paths stay consistent with each other.
func respondBlogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBlogNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotBlogOwner):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrDuplicateTitle):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrBodyRequired),
		errors.Is(err, service.ErrInvalidState):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("blog operation failed")
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
