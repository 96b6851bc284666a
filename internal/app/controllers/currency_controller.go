package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mypostula/backend/internal/app/models/dto"
	"github.com/mypostula/backend/internal/app/services"
	"github.com/mypostula/backend/internal/middleware"
)

// CurrencyController serves the seeded currency catalog
type CurrencyController struct {
	currencyService services.CurrencyService
}

// NewCurrencyController creates a new CurrencyController
func NewCurrencyController(currencyService services.CurrencyService) *CurrencyController {
	return &CurrencyController{
		currencyService: currencyService,
	}
}

// List returns all currencies
// @Summary List currencies
// @Description Returns all currencies ordered by code
// @Tags currencies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Currency} "Currencies retrieved successfully"
// @Router /currencies [get]
func (c *CurrencyController) List(ctx *gin.Context) {
	currencies, err := c.currencyService.GetAllCurrencies(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      currencies,
		Timestamp: time.Now(),
	})
}
