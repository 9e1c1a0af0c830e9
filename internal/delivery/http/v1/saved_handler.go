package v1

import (
	"errors"
	"net/http"
	"strconv"

	"go-candidate-scout/internal/delivery/http/response"
	"go-candidate-scout/internal/domain"
	"go-candidate-scout/pkg/apperror"
	"go-candidate-scout/pkg/imaging"
	"go-candidate-scout/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	defaultThumbnailSize = 96
	maxThumbnailSize     = 460
	thumbnailQuality     = 85
)

type SavedHandler struct {
	savedUC domain.SavedCandidateUsecase
	avatars *imaging.Prober
}

func NewSavedHandler(r *gin.RouterGroup, savedUC domain.SavedCandidateUsecase, avatars *imaging.Prober) {
	handler := &SavedHandler{savedUC: savedUC, avatars: avatars}

	saved := r.Group("/saved")
	{
		saved.GET("", handler.List)
		saved.POST("", handler.Accept)
		saved.POST("/sort", handler.Sort)
		saved.GET("/export", handler.Export)
		saved.POST("/archive", handler.Archive)
		saved.DELETE("/:id", handler.Remove)
		saved.GET("/:id/avatar", handler.Avatar)
	}
}

// List godoc
// @Summary      List saved candidates
// @Description  Returns the saved table. q filters by name, login, location, company, email or bio (empty q clears the filter). reload=true re-reads storage and clears the filter and sort order.
// @Tags         saved
// @Produce      json
// @Param        q       query     string  false  "Search term"
// @Param        reload  query     bool    false  "Re-read storage"
// @Success      200  {object}  response.Response{data=domain.SavedView}
// @Failure      400  {object}  response.Response
// @Router       /saved [get]
// @Security     BearerAuth
func (h *SavedHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		view *domain.SavedView
		err  error
	)
	if c.Query("reload") == "true" {
		view, err = h.savedUC.Load(ctx)
	} else {
		view, err = h.savedUC.View(ctx)
	}
	if err != nil {
		c.Error(err)
		return
	}

	if term, ok := c.GetQuery("q"); ok {
		if view, err = h.savedUC.Search(ctx, term); err != nil {
			c.Error(err)
			return
		}
	}

	response.Success(c, http.StatusOK, "Saved candidates", view)
}

type sortRequest struct {
	Field string `json:"field" binding:"required"`
}

// Sort godoc
// @Summary      Sort saved candidates
// @Description  Orders the table by name, location or company. Sorting by the current field again flips the direction.
// @Tags         saved
// @Accept       json
// @Produce      json
// @Param        request  body      sortRequest  true  "Sort field"
// @Success      200  {object}  response.Response{data=domain.SavedView}
// @Failure      400  {object}  response.Response
// @Router       /saved/sort [post]
// @Security     BearerAuth
func (h *SavedHandler) Sort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.New(http.StatusBadRequest, "Invalid request body", err))
		return
	}
	field, err := domain.ParseSortField(req.Field)
	if err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	view, err := h.savedUC.SortBy(c.Request.Context(), field)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Saved candidates sorted", view)
}

// Accept godoc
// @Summary      Save a candidate
// @Description  Adds a profile to the saved list. Saving an id that is already stored does nothing.
// @Tags         saved
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CandidateProfile  true  "Candidate profile"
// @Success      201  {object}  response.Response{data=domain.SavedView}
// @Failure      400  {object}  response.Response
// @Router       /saved [post]
// @Security     BearerAuth
func (h *SavedHandler) Accept(c *gin.Context) {
	var profile domain.CandidateProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.Error(apperror.New(http.StatusBadRequest, "Invalid request body", err))
		return
	}

	ctx := c.Request.Context()
	if err := h.savedUC.Accept(ctx, &profile); err != nil {
		c.Error(err)
		return
	}

	view, err := h.savedUC.View(ctx)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Candidate saved", view)
}

// Remove godoc
// @Summary      Remove a saved candidate
// @Tags         saved
// @Produce      json
// @Param        id   path      int  true  "GitHub user id"
// @Success      200  {object}  response.Response{data=domain.SavedView}
// @Failure      400  {object}  response.Response
// @Router       /saved/{id} [delete]
// @Security     BearerAuth
func (h *SavedHandler) Remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid candidate id"))
		return
	}

	view, err := h.savedUC.Remove(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate removed", view)
}

// Export godoc
// @Summary      Export saved candidates
// @Description  Downloads the current table (search and sort applied) as Excel or CSV
// @Tags         saved
// @Produce      application/octet-stream
// @Param        format  query     string  false  "Export format (xlsx, csv). Default: xlsx"
// @Success      200  {file}    binary
// @Failure      400  {object}  response.Response
// @Router       /saved/export [get]
// @Security     BearerAuth
func (h *SavedHandler) Export(c *gin.Context) {
	file, err := h.savedUC.Export(c.Request.Context(), c.DefaultQuery("format", "xlsx"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// Archive godoc
// @Summary      Archive saved candidates
// @Description  Uploads an export of the current table to object storage
// @Tags         saved
// @Produce      json
// @Param        format  query     string  false  "Export format (xlsx, csv). Default: xlsx"
// @Success      201  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /saved/archive [post]
// @Security     BearerAuth
func (h *SavedHandler) Archive(c *gin.Context) {
	location, err := h.savedUC.Archive(c.Request.Context(), c.DefaultQuery("format", "xlsx"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Archive stored", gin.H{"location": location})
}

// Avatar godoc
// @Summary      Saved candidate avatar thumbnail
// @Tags         saved
// @Produce      image/jpeg
// @Param        id    path      int  true   "GitHub user id"
// @Param        size  query     int  false  "Longest side in pixels (default 96)"
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /saved/{id}/avatar [get]
// @Security     BearerAuth
func (h *SavedHandler) Avatar(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid candidate id"))
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultThumbnailSize)))
	if err != nil || size < 1 || size > maxThumbnailSize {
		c.Error(apperror.BadRequest("size must be between 1 and 460"))
		return
	}

	if h.avatars == nil {
		c.Error(apperror.ServiceUnavailable("Avatar thumbnails are disabled"))
		return
	}

	ctx := c.Request.Context()
	candidate, err := h.savedUC.Get(ctx, id)
	if err != nil {
		c.Error(err)
		return
	}

	data, err := h.avatars.Fetch(ctx, candidate.AvatarURL)
	if errors.Is(err, imaging.ErrAvatarNotAllowed) {
		logger.Log.Warn("Refusing to fetch avatar", "candidate_id", id, "avatar_url", candidate.AvatarURL)
		c.Error(apperror.New(http.StatusUnprocessableEntity, "Avatar is not hosted on an allowed domain", err))
		return
	}
	if err != nil {
		logger.Log.Warn("Avatar fetch failed", "candidate_id", id, "error", err)
		c.Error(apperror.BadGateway("Avatar could not be loaded", err))
		return
	}
	thumb, err := imaging.Thumbnail(data, size, thumbnailQuality)
	if err != nil {
		logger.Log.Warn("Avatar decode failed", "candidate_id", id, "error", err)
		c.Error(apperror.BadGateway("Avatar could not be loaded", err))
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/jpeg", thumb)
}
