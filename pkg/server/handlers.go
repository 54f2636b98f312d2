package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/weekday-rota/pkg/core/allocator"
	"github.com/jakechorley/weekday-rota/pkg/core/model"
	"github.com/jakechorley/weekday-rota/pkg/core/services"
)

// GenerateRequest is the optional body of POST /api/schedule/generate
type GenerateRequest struct {
	DayOrder string `json:"dayOrder" binding:"omitempty,oneof=fixed scarcity shuffle"`
	Seed     int64  `json:"seed"`
	// Week is any date in the week to apply target overrides for (YYYY-MM-DD)
	Week   string `json:"week" binding:"omitempty,datetime=2006-01-02"`
	DryRun bool   `json:"dryRun"`
}

// Health reports that the server is up
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetSchedule returns the latest stored schedule
func (s *Server) GetSchedule(c *gin.Context) {
	schedule, err := services.LatestSchedule(c.Request.Context(), s.Store, s.Logger)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newScheduleResponse(schedule, true))
}

// GenerateSchedule computes a schedule from the current responses and targets
func (s *Server) GenerateSchedule(c *gin.Context) {
	var req GenerateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	dayOrder := s.DayOrder
	if req.DayOrder != "" {
		dayOrder = allocator.DayOrder(req.DayOrder)
	}

	params := services.GenerateParams{
		Source:    s.Source,
		Options:   allocator.Options{DayOrder: dayOrder, Seed: req.Seed},
		Overrides: s.Overrides,
		DryRun:    req.DryRun,
	}
	if req.Week != "" {
		week, err := time.Parse(time.DateOnly, req.Week)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		params.WeekStart = week
	}

	result, err := services.GenerateSchedule(c.Request.Context(), s.Responses, s.Store, s.Logger, params)
	if err != nil {
		s.writeError(c, err)
		return
	}

	status := http.StatusCreated
	if !result.Saved {
		status = http.StatusOK
	}
	c.JSON(status, newScheduleResponse(result.Schedule, result.Saved))
}

// GetTargets returns the current staffing target
func (s *Server) GetTargets(c *gin.Context) {
	target, err := services.GetTargets(c.Request.Context(), s.Store, s.Logger)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTargetsResponse(target))
}

// PutTargets replaces the staffing target with a day name to headcount mapping.
// Days left out are set to zero; unrecognised day names are ignored.
func (s *Server) PutTargets(c *gin.Context) {
	var body map[string]int
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := model.TargetFromMap(body)
	if err != nil {
		s.writeError(c, err)
		return
	}

	saved, err := services.SaveTargets(c.Request.Context(), s.Store, s.Logger, target)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTargetsResponse(saved))
}

// ResetTargets sets every day's target back to zero
func (s *Server) ResetTargets(c *gin.Context) {
	target, err := services.ResetTargets(c.Request.Context(), s.Store, s.Logger)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTargetsResponse(target))
}

// GetStats returns per-employee statistics for the latest schedule
func (s *Server) GetStats(c *gin.Context) {
	stats, err := services.ScheduleStats(c.Request.Context(), s.Store, s.Logger)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// writeError maps service errors onto status codes
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case allocator.IsInvalidInput(err),
		errors.Is(err, model.ErrUnknownWeekday),
		errors.Is(err, model.ErrInvalidTarget):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNoSchedule):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.Logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

type dayResponse struct {
	Day      model.Weekday `json:"day"`
	Required int           `json:"required"`
	Assigned []string      `json:"assigned"`
	Missing  int           `json:"missing"`
}

type rosterResponse struct {
	Name string          `json:"name"`
	Days []model.Weekday `json:"days"`
}

type scheduleResponse struct {
	RunID        string              `json:"runId,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	WeekStart    string              `json:"weekStart,omitempty"`
	DayOrder     allocator.DayOrder  `json:"dayOrder"`
	Seed         int64               `json:"seed"`
	ParentID     string              `json:"parentId,omitempty"`
	Saved        bool                `json:"saved"`
	FullyStaffed bool                `json:"fullyStaffed"`
	Days         []dayResponse       `json:"days"`
	Shortfalls   []model.Shortfall   `json:"shortfalls"`
	Roster       []rosterResponse    `json:"roster"`
	Warnings     []allocator.Warning `json:"warnings"`
}

func newScheduleResponse(s *services.StoredSchedule, saved bool) scheduleResponse {
	resp := scheduleResponse{
		CreatedAt:    s.CreatedAt,
		DayOrder:     s.DayOrder,
		Seed:         s.Seed,
		ParentID:     s.ParentID,
		Saved:        saved,
		FullyStaffed: s.Outcome.FullyStaffed(),
		Days:         []dayResponse{},
		Shortfalls:   s.Outcome.Shortfalls,
		Roster:       make([]rosterResponse, 0, len(s.Roster)),
		Warnings:     s.Outcome.Warnings,
	}
	if saved {
		resp.RunID = s.RunID
	}
	if !s.WeekStart.IsZero() {
		resp.WeekStart = s.WeekStart.Format(time.DateOnly)
	}

	missing := make(map[model.Weekday]int, len(s.Outcome.Shortfalls))
	for _, sf := range s.Outcome.Shortfalls {
		missing[sf.Day] = sf.Missing
	}
	for _, day := range allocator.ScheduleDays(s.Target) {
		assigned := s.Outcome.Schedule[day]
		if assigned == nil {
			assigned = []string{}
		}
		resp.Days = append(resp.Days, dayResponse{
			Day:      day,
			Required: s.Target.Get(day),
			Assigned: assigned,
			Missing:  missing[day],
		})
	}

	for _, e := range s.Roster {
		resp.Roster = append(resp.Roster, rosterResponse{Name: e.Name, Days: e.Availability.Days()})
	}

	return resp
}

type targetsResponse struct {
	Targets model.StaffingTarget `json:"targets"`
	Total   int                  `json:"total"`
}

func newTargetsResponse(target model.StaffingTarget) targetsResponse {
	return targetsResponse{Targets: target, Total: target.Total()}
}
