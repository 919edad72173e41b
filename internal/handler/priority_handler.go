package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-rooms-api/internal/dto"
	"github.com/noah-isme/sma-rooms-api/internal/service"
	appErrors "github.com/noah-isme/sma-rooms-api/pkg/errors"
	"github.com/noah-isme/sma-rooms-api/pkg/response"
)

type priorityStore interface {
	Get(ctx context.Context) ([]string, error)
	Replace(ctx context.Context, req dto.PriorityGroupsRequest) ([]string, error)
	Clear(ctx context.Context) error
}

// PriorityHandler manages the operator priority group set.
type PriorityHandler struct {
	store     priorityStore
	validator *validator.Validate
}

// NewPriorityHandler constructs the handler.
func NewPriorityHandler(store *service.PreferenceService, validate *validator.Validate) *PriorityHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &PriorityHandler{store: store, validator: validate}
}

// Get godoc
// @Summary List priority group IDs
// @Tags Priority
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /priority-groups [get]
func (h *PriorityHandler) Get(c *gin.Context) {
	ids, err := h.store.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.PriorityGroupsResponse{GroupIDs: ids})
}

// Put godoc
// @Summary Replace the priority group set
// @Tags Priority
// @Accept json
// @Produce json
// @Param payload body dto.PriorityGroupsRequest true "Priority group IDs"
// @Success 200 {object} response.Envelope
// @Router /priority-groups [put]
func (h *PriorityHandler) Put(c *gin.Context) {
	var req dto.PriorityGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid priority payload"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid priority payload"))
		return
	}
	ids, err := h.store.Replace(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.PriorityGroupsResponse{GroupIDs: ids})
}

// Delete godoc
// @Summary Clear the priority group set
// @Tags Priority
// @Success 204
// @Router /priority-groups [delete]
func (h *PriorityHandler) Delete(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
