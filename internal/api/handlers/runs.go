package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-dreamteam/internal/optimizer"
	"github.com/stitts-dev/dfs-dreamteam/internal/registry"
	"github.com/stitts-dev/dfs-dreamteam/internal/services"
	"github.com/stitts-dev/dfs-dreamteam/pkg/config"
	"github.com/stitts-dev/dfs-dreamteam/pkg/logger"
	"github.com/stitts-dev/dfs-dreamteam/pkg/utils"
)

// RunHandler handles roster build endpoints
type RunHandler struct {
	service *services.DreamTeamService
	config  *config.Config
	logger  *logrus.Entry
}

// NewRunHandler creates a new run handler
func NewRunHandler(service *services.DreamTeamService, cfg *config.Config) *RunHandler {
	return &RunHandler{
		service: service,
		config:  cfg,
		logger:  logger.WithService("run-handler"),
	}
}

// RunResponse is returned when a run is created
type RunResponse struct {
	Summary services.Summary        `json:"summary"`
	Top     []services.RosterReport `json:"top"`
}

// CreateRun builds every roster for the posted players and templates
func (h *RunHandler) CreateRun(c *gin.Context) {
	var req services.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request format", err.Error())
		return
	}

	run, err := h.service.Build(c.Request.Context(), req, nil)
	if err != nil {
		h.sendBuildError(c, err)
		return
	}

	utils.SendCreated(c, RunResponse{
		Summary: run.Summary(),
		Top:     services.Reports(run.Registry.TopK(registry.ByPoints, h.config.TopK, true)),
	})
}

// GetRun returns the summary of a stored run
func (h *RunHandler) GetRun(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	utils.SendSuccess(c, run.Summary())
}

// GetTopRosters ranks a run's rosters.
// Query: by=points|credits, k, order=asc|desc, then=points|credits, then_order=asc|desc
func (h *RunHandler) GetTopRosters(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}

	by, err := registry.ParseField(c.Query("by"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeInvalidQuery, "Invalid ranking field", err.Error()))
		return
	}
	k, err := h.parseK(c)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeInvalidQuery, "Invalid k", err.Error()))
		return
	}
	desc, err := parseOrder(c.Query("order"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeInvalidQuery, "Invalid order", err.Error()))
		return
	}

	var ranked []registry.Entry
	if then := c.Query("then"); then != "" {
		secondary, err := registry.ParseField(then)
		if err != nil {
			utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeInvalidQuery, "Invalid secondary field", err.Error()))
			return
		}
		thenDesc, err := parseOrder(c.Query("then_order"))
		if err != nil {
			utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeInvalidQuery, "Invalid secondary order", err.Error()))
			return
		}
		ranked = run.Registry.TopKSecondary(by, secondary, k, desc, thenDesc)
	} else {
		ranked = run.Registry.TopK(by, k, desc)
	}

	utils.SendSuccessWithMeta(c, services.Reports(ranked), &utils.Meta{
		Total: run.Registry.Len(),
		Count: len(ranked),
	})
}

// GetRostersContaining lists the rosters holding every requested player.
// Names come from repeated or comma separated player parameters.
func (h *RunHandler) GetRostersContaining(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}

	var names []string
	for _, value := range c.QueryArray("player") {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		utils.SendValidationError(c, "At least one player is required", "use ?player=NAME")
		return
	}

	matches := run.Registry.ContainingAll(names...)
	utils.SendSuccessWithMeta(c, services.Reports(matches), &utils.Meta{
		Total: run.Registry.Len(),
		Count: len(matches),
	})
}

func (h *RunHandler) lookup(c *gin.Context) (*services.Run, bool) {
	run, err := h.service.Get(c.Param("id"))
	if err != nil {
		utils.SendNotFound(c, "Run not found")
		return nil, false
	}
	return run, true
}

func (h *RunHandler) parseK(c *gin.Context) (int, error) {
	raw := c.Query("k")
	if raw == "" {
		return h.config.TopK, nil
	}
	k, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if k < 0 {
		return 0, errors.New("k cannot be negative")
	}
	return k, nil
}

func parseOrder(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "desc":
		return true, nil
	case "asc":
		return false, nil
	}
	return false, errors.New("order must be asc or desc")
}

func (h *RunHandler) sendBuildError(c *gin.Context, err error) {
	status, appErr := buildError(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error("Roster build failed")
	}
	utils.SendError(c, status, appErr)
}

// buildError maps a build failure to a status code and error body
func buildError(err error) (int, *utils.AppError) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, optimizer.ErrInvalidPlayer),
		errors.Is(err, optimizer.ErrUnknownTeam):
		return http.StatusBadRequest, utils.NewAppError(utils.ErrCodeValidation, "Invalid build request", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, utils.NewAppError(utils.ErrCodeOptimization, "Roster build was interrupted", err.Error())
	default:
		return http.StatusInternalServerError, utils.NewAppError(utils.ErrCodeOptimization, "Roster build failed", err.Error())
	}
}
