package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/andresuchdata/safetystock-sim/internal/domain"
	"github.com/andresuchdata/safetystock-sim/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type SimulationHandler struct {
	service *service.SimulationService
}

func NewSimulationHandler(service *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

// Pointer fields so that an explicit zero passes `required`.
type valueRequest struct {
	Value *int `json:"value" binding:"required"`
}

type stepRequest struct {
	Field string `json:"field" binding:"required"`
	Steps *int   `json:"steps" binding:"required"`
}

type receivingStepRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

type chartRequest struct {
	Fixed *bool `json:"fixed"`
	Max   *int  `json:"max"`
}

type trajectoryRequest struct {
	WeeklyDemand     *int  `json:"weekly_demand" binding:"required"`
	SafetyStockWeeks *int  `json:"safety_stock_weeks" binding:"required"`
	InitialStock     *int  `json:"initial_stock" binding:"required"`
	WeeklyReceiving  []int `json:"weekly_receiving" binding:"required"`
}

func (h *SimulationHandler) CreateSession(c *gin.Context) {
	view, err := h.service.CreateSession(c.Request.Context())
	if err != nil {
		respondError(c, "failed to create simulation", err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *SimulationHandler) GetSession(c *gin.Context) {
	view, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "failed to fetch simulation", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SimulationHandler) DeleteSession(c *gin.Context) {
	if err := h.service.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "failed to delete simulation", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SimulationHandler) SetWeeklyDemand(c *gin.Context) {
	h.setValue(c, "failed to update weekly demand", h.service.SetWeeklyDemand)
}

func (h *SimulationHandler) SetSafetyStockWeeks(c *gin.Context) {
	h.setValue(c, "failed to update safety stock weeks", h.service.SetSafetyStockWeeks)
}

func (h *SimulationHandler) SetInitialStock(c *gin.Context) {
	h.setValue(c, "failed to update initial stock", h.service.SetInitialStock)
}

func (h *SimulationHandler) SetAllReceiving(c *gin.Context) {
	h.setValue(c, "failed to update receiving", h.service.SetAllReceiving)
}

func (h *SimulationHandler) SetReceiving(c *gin.Context) {
	week, ok := parseWeek(c)
	if !ok {
		return
	}

	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	view, err := h.service.SetReceiving(c.Request.Context(), c.Param("id"), week, *req.Value)
	if err != nil {
		respondError(c, "failed to update receiving", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SimulationHandler) MatchReceivingToDemand(c *gin.Context) {
	view, err := h.service.MatchReceivingToDemand(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "failed to match receiving to demand", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SimulationHandler) ResetReceiving(c *gin.Context) {
	view, err := h.service.ResetReceiving(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "failed to reset receiving", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SimulationHandler) Step(c *gin.Context) {
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	view, err := h.service.Step(c.Request.Context(), c.Param("id"), req.Field, *req.Steps)
	if err != nil {
		respondError(c, "failed to step field", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SimulationHandler) StepReceiving(c *gin.Context) {
	week, ok := parseWeek(c)
	if !ok {
		return
	}

	var req receivingStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	view, err := h.service.StepReceiving(c.Request.Context(), c.Param("id"), week, *req.Delta)
	if err != nil {
		respondError(c, "failed to step receiving", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SimulationHandler) UpdateChart(c *gin.Context) {
	var req chartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	view, err := h.service.UpdateChart(c.Request.Context(), c.Param("id"), req.Fixed, req.Max)
	if err != nil {
		respondError(c, "failed to update chart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SimulationHandler) DeriveTrajectory(c *gin.Context) {
	var req trajectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	view, err := h.service.Derive(c.Request.Context(), domain.SimulationInputs{
		WeeklyDemand:     *req.WeeklyDemand,
		SafetyStockWeeks: *req.SafetyStockWeeks,
		InitialStock:     *req.InitialStock,
		WeeklyReceiving:  req.WeeklyReceiving,
	})
	if err != nil {
		respondError(c, "failed to derive trajectory", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type setter func(ctx context.Context, id string, v int) (*domain.SimulationView, error)

func (h *SimulationHandler) setValue(c *gin.Context, message string, set setter) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	view, err := set(c.Request.Context(), c.Param("id"), *req.Value)
	if err != nil {
		respondError(c, message, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func parseWeek(c *gin.Context) (int, bool) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week index", "details": err.Error()})
		return 0, false
	}
	return week, true
}

func respondError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrIndexOutOfRange), errors.Is(err, domain.ErrUnknownField):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrMalformedInput):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}
