package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/ewbot/internal/adapters/http/dto"
	"github.com/jsamuelsen/ewbot/internal/platform/logging"
	"github.com/jsamuelsen/ewbot/internal/ports"
)

// CharacterCache drops the cached character list so the next listing is
// fetched from the quote service.
type CharacterCache interface {
	InvalidateCharacters(ctx context.Context) error
	Group() string
}

// MaintenanceSwitch is a FeatureFlags whose maintenance flag can be flipped
// at runtime.
type MaintenanceSwitch interface {
	ports.FeatureFlags
	SetBool(flag string, value bool)
}

// AdminHandler serves the token-protected /-/admin routes.
type AdminHandler struct {
	characters CharacterCache
	flags      MaintenanceSwitch
}

// NewAdminHandler creates an admin handler. Panics if a dependency is nil.
func NewAdminHandler(characters CharacterCache, flags MaintenanceSwitch) *AdminHandler {
	if characters == nil || flags == nil {
		panic("AdminHandler: characters and flags are required")
	}

	return &AdminHandler{characters: characters, flags: flags}
}

// PurgeCharacters handles POST /-/admin/cache/characters/purge.
func (h *AdminHandler) PurgeCharacters(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.characters.InvalidateCharacters(ctx); err != nil {
		dto.HandleError(c, err)

		return
	}

	logging.FromContext(ctx).InfoContext(ctx, "character cache purged",
		slog.String("group", h.characters.Group()))

	c.JSON(http.StatusOK, dto.CachePurgeResponse{Group: h.characters.Group(), Purged: true})
}

// GetMaintenance handles GET /-/admin/maintenance.
func (h *AdminHandler) GetMaintenance(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MaintenanceResponse{
		Enabled: h.flags.IsEnabled(c.Request.Context(), ports.FlagMaintenanceMode, false),
	})
}

// SetMaintenance handles PUT /-/admin/maintenance with {"enabled": bool}.
// The change lasts until restart; MAINTENANCE_MODE decides the state at startup.
func (h *AdminHandler) SetMaintenance(c *gin.Context) {
	var req dto.MaintenanceRequest

	if err := dto.BindAndValidate(c, &req); err != nil {
		if dto.IsValidationError(err) {
			dto.HandleValidationErrors(c, dto.ValidationErrors(err))

			return
		}

		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrorCodeBadRequest, "request body must be JSON").WithTraceID(dto.GetTraceID(c)))

		return
	}

	ctx := c.Request.Context()

	h.flags.SetBool(ports.FlagMaintenanceMode, *req.Enabled)

	logging.FromContext(ctx).WarnContext(ctx, "maintenance mode changed",
		slog.Bool("enabled", *req.Enabled))

	c.JSON(http.StatusOK, dto.MaintenanceResponse{
		Enabled: h.flags.IsEnabled(ctx, ports.FlagMaintenanceMode, false),
	})
}

// RegisterAdminRoutes registers the admin routes on a group mounted at /-/admin.
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/cache/characters/purge", h.PurgeCharacters)
	rg.GET("/maintenance", h.GetMaintenance)
	rg.PUT("/maintenance", h.SetMaintenance)
}
