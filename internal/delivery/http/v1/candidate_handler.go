package v1

import (
	"net/http"

	"go-candidate-scout/internal/delivery/http/response"
	"go-candidate-scout/internal/domain"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	acquisitionUC domain.AcquisitionUsecase
}

func NewCandidateHandler(r *gin.RouterGroup, acquisitionUC domain.AcquisitionUsecase) {
	handler := &CandidateHandler{acquisitionUC: acquisitionUC}

	candidates := r.Group("/candidates")
	{
		candidates.GET("/current", handler.Current)
		candidates.POST("/next", handler.Next)
		candidates.POST("/current/accept", handler.AcceptCurrent)
	}
}

// Current godoc
// @Summary      Get the candidate on screen
// @Description  Returns the last acquisition state without contacting the directory
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.AcquisitionState}
// @Router       /candidates/current [get]
// @Security     BearerAuth
func (h *CandidateHandler) Current(c *gin.Context) {
	state := h.acquisitionUC.Current(c.Request.Context())
	response.Success(c, http.StatusOK, "Current candidate", state)
}

// Next godoc
// @Summary      Load the next candidate
// @Description  Skips the current candidate and loads the next displayable profile. Rejecting, retrying after an error and replacing a broken avatar all use this endpoint.
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.AcquisitionState}
// @Failure      429  {object}  response.Response
// @Router       /candidates/next [post]
// @Security     BearerAuth
func (h *CandidateHandler) Next(c *gin.Context) {
	state, err := h.acquisitionUC.Next(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, stateMessage(state), state)
}

// AcceptCurrent godoc
// @Summary      Accept the candidate on screen
// @Description  Adds the ready candidate to the saved list and loads the next one
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.AcquisitionState}
// @Failure      400  {object}  response.Response
// @Router       /candidates/current/accept [post]
// @Security     BearerAuth
func (h *CandidateHandler) AcceptCurrent(c *gin.Context) {
	state, err := h.acquisitionUC.AcceptCurrent(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate saved", state)
}

func stateMessage(state domain.AcquisitionState) string {
	if state.Status == domain.StatusError {
		return state.Message
	}
	return "Candidate loaded"
}
