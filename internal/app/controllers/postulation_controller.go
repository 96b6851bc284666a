package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mypostula/backend/internal/app/models/dto"
	"github.com/mypostula/backend/internal/app/services"
	"github.com/mypostula/backend/internal/dashboard"
	"github.com/mypostula/backend/internal/middleware"
)

// PostulationController handles postulation CRUD operations
type PostulationController struct {
	postulationService services.PostulationService
}

// NewPostulationController creates a new PostulationController
func NewPostulationController(postulationService services.PostulationService) *PostulationController {
	return &PostulationController{
		postulationService: postulationService,
	}
}

// parsePostulationID reads and validates the :id path parameter
func parsePostulationID(ctx *gin.Context) (int64, bool) {
	idStr := ctx.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid postulation ID")
		errorDetail = errorDetail.WithDetails("Postulation ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// List returns all postulations of the authenticated user with counts
// @Summary List postulations
// @Description Returns all postulations of the user, newest first, with derived counts
// @Tags postulations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PostulationListResponse} "Postulations retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /postulations [get]
func (c *PostulationController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	postulations, err := c.postulationService.List(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	counts := dashboard.ComputeCounts(postulations)
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PostulationListResponse{
			Postulations: postulations,
			Counts: dto.CountsResponse{
				Open:     counts.Open,
				Accepted: counts.Accepted,
				Declined: counts.Declined,
				Total:    counts.Total,
			},
		},
		Timestamp: time.Now(),
	})
}

// Get returns a single postulation
// @Summary Get a postulation
// @Description Returns one postulation owned by the user
// @Tags postulations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Postulation ID"
// @Success 200 {object} dto.APIResponse{data=models.Postulation} "Postulation retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Postulation not found"
// @Router /postulations/{id} [get]
func (c *PostulationController) Get(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, ok := parsePostulationID(ctx)
	if !ok {
		return
	}

	postulation, err := c.postulationService.Get(ctx, userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      postulation,
		Timestamp: time.Now(),
	})
}

// Create adds a new postulation
// @Summary Create a postulation
// @Description Creates a postulation, resolving the company selection on the way
// @Tags postulations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PostulationRequest true "Postulation data"
// @Success 201 {object} dto.APIResponse{data=models.Postulation} "Postulation created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid postulation data"
// @Router /postulations [post]
func (c *PostulationController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.PostulationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid postulation data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	postulation, err := c.postulationService.Create(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      postulation,
		Timestamp: time.Now(),
	})
}

// Update replaces a postulation's fields
// @Summary Update a postulation
// @Description Updates a postulation owned by the user
// @Tags postulations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Postulation ID"
// @Param request body dto.PostulationRequest true "Postulation data"
// @Success 200 {object} dto.APIResponse{data=models.Postulation} "Postulation updated successfully"
// @Failure 404 {object} dto.ErrorResponse "Postulation not found"
// @Router /postulations/{id} [put]
func (c *PostulationController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, ok := parsePostulationID(ctx)
	if !ok {
		return
	}

	var req dto.PostulationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid postulation data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	postulation, err := c.postulationService.Update(ctx, userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      postulation,
		Timestamp: time.Now(),
	})
}

// UpdateStatus changes only the status of a postulation
// @Summary Update postulation status
// @Description Changes the lifecycle status of a postulation owned by the user
// @Tags postulations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Postulation ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Status updated successfully"
// @Failure 404 {object} dto.ErrorResponse "Postulation not found"
// @Router /postulations/{id}/status [patch]
func (c *PostulationController) UpdateStatus(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, ok := parsePostulationID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.postulationService.UpdateStatus(ctx, userID, id, req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "status updated"},
		Timestamp: time.Now(),
	})
}

// Delete removes a postulation
// @Summary Delete a postulation
// @Description Deletes a postulation owned by the user
// @Tags postulations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Postulation ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Postulation deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Postulation not found"
// @Router /postulations/{id} [delete]
func (c *PostulationController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	id, ok := parsePostulationID(ctx)
	if !ok {
		return
	}

	if err := c.postulationService.Delete(ctx, userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "postulation deleted"},
		Timestamp: time.Now(),
	})
}
