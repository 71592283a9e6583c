package startups

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"incubator/pkg/apperr"
	"incubator/pkg/middleware"
	"incubator/pkg/response"
	"incubator/pkg/token"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts /startups. Every route requires authentication.
func (h *Handler) RegisterRoutes(router gin.IRouter, requireAuth gin.HandlerFunc) {
	g := router.Group("/startups", requireAuth)
	g.GET("/current", h.current)
	g.PUT("/:id", middleware.RequireRole(token.RoleFounder), h.update)

	admin := g.Group("", middleware.RequireRole(token.RoleAdmin))
	admin.GET("", h.list)
	admin.PUT("/approve/:id", h.approve)
	admin.PUT("/reject/:id", h.reject)
}

// @Summary      Current founder's startup
// @Tags         startups
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=StartupProfile}
// @Failure      401 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /startups/current [get]
func (h *Handler) current(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	p, err := h.service.Current(c.Request.Context(), identity)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "Current startup fetched successfully", p)
}

// @Summary      Update own startup profile
// @Tags         startups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Startup public id (user_id)"
// @Param        request body ProfileUpdate true "Fields to change"
// @Success      200 {object} response.APIResponse{data=StartupProfile}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /startups/{id} [put]
func (h *Handler) update(c *gin.Context) {
	var upd ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil && c.Request.ContentLength != 0 {
		response.SendError(c, apperr.Validation("invalid request payload"))
		return
	}

	identity, _ := middleware.IdentityFrom(c)
	p, err := h.service.UpdateOwn(c.Request.Context(), identity, c.Param("id"), upd)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "Startup profile updated successfully", p)
}

// @Summary      List startups
// @Tags         startups
// @Produce      json
// @Security     BearerAuth
// @Param        approved query bool false "Filter by approval state"
// @Success      200 {object} response.APIResponse{data=[]StartupProfile}
// @Failure      401 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /startups [get]
func (h *Handler) list(c *gin.Context) {
	var approved *bool
	if raw := c.Query("approved"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.SendError(c, apperr.Validation("approved must be true or false"))
			return
		}
		approved = &v
	}

	profiles, err := h.service.List(c.Request.Context(), approved)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "Startups fetched successfully", profiles)
}

// @Summary      Approve startup
// @Tags         startups
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Startup public id (user_id)"
// @Success      200 {object} response.APIResponse{data=StartupProfile}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /startups/approve/{id} [put]
func (h *Handler) approve(c *gin.Context) {
	p, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "Startup approved successfully", p)
}

// @Summary      Reject startup (deletes the profile)
// @Tags         startups
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Startup public id (user_id)"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /startups/reject/{id} [put]
func (h *Handler) reject(c *gin.Context) {
	if err := h.service.Reject(c.Request.Context(), c.Param("id")); err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "Startup rejected and deleted successfully", nil)
}
