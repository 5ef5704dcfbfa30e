package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-quant/internal/dto"
	"golang-quant/internal/model"
	"golang-quant/pkg/utils"
)

func (h *HttpAPIHandler) SetupFactors(base *echo.Group) {
	factorGroup := base.Group("/factors")
	factorGroup.GET("", h.getFactors)
}

func (h *HttpAPIHandler) getFactors(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.GetFactorsRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid query parameters"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	param := model.GetFactorsParam{Symbols: req.Symbols}
	if req.Freq != "" {
		freq := model.Freq(req.Freq)
		param.Freq = &freq
	}
	if req.Start != "" {
		start, err := utils.ParseDate(req.Start)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid start date"})
		}
		param.Start = &start
	}
	if req.End != "" {
		end, err := utils.ParseDate(req.End)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid end date"})
		}
		param.End = &end
	}
	if req.Limit > 0 {
		limit := req.Limit
		param.Limit = &limit
	}

	factors, err := h.service.FactorService.Get(ctx, param)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load factors"})
	}

	return c.JSON(http.StatusOK, factors)
}
