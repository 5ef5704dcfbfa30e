package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"golang-quant/internal/dto"
	"golang-quant/internal/model"
)

func (h *HttpAPIHandler) SetupBacktest(base *echo.Group) {
	backtestGroup := base.Group("/backtest")
	backtestGroup.POST("", h.runBacktest)
	backtestGroup.GET("/runs", h.getBacktestRuns)
}

func (h *HttpAPIHandler) runBacktest(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.BacktestRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.BacktestService.Run(ctx, *req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) getBacktestRuns(c echo.Context) error {
	ctx := c.Request().Context()

	param := model.GetBacktestRunsParam{}
	if strategy := c.QueryParam("strategy"); strategy != "" {
		param.Strategy = &strategy
	}
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		param.Limit = &limit
	}

	runs, err := h.service.BacktestService.GetRuns(ctx, param)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load backtest runs"})
	}

	return c.JSON(http.StatusOK, runs)
}
