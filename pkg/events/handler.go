package events

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

// RegisterRoutes mounts /events and /event-registrations. Listing events,
// signing up and looking up one's own sign-ups are public.
func (h *Handler) RegisterRoutes(router gin.IRouter, requireAuth gin.HandlerFunc) {
	adminOnly := []gin.HandlerFunc{requireAuth, middleware.RequireRole(token.RoleAdmin)}

	ev := router.Group("/events")
	ev.GET("", h.listEvents)
	ev.POST("", append(adminOnly, h.addEvent)...)
	ev.PUT("/:id", append(adminOnly, h.updateEvent)...)

	regs := router.Group("/event-registrations")
	regs.POST("", h.register)
	regs.GET("/email/:email", h.registrationsByEmail)
	regs.GET("/:eventId", append(adminOnly, h.registrationsByEvent)...)
}

type eventRequest struct {
	Name        string `json:"name"`
	PosterLink  string `json:"posterLink"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type registrationRequest struct {
	EventID int64  `json:"eventId"`
	Name    string `json:"name"`
	Number  string `json:"number"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// @Summary      List events
// @Tags         events
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]Event}
// @Router       /events [get]
func (h *Handler) listEvents(c *gin.Context) {
	out, err := h.service.ListEvents(c.Request.Context())
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "Events fetched successfully", out)
}

// @Summary      Add event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body eventRequest true "Event"
// @Success      201 {object} response.APIResponse{data=Event}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /events [post]
func (h *Handler) addEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, apperr.Validation("All fields are required"))
		return
	}

	e, err := h.service.AddEvent(c.Request.Context(), req.Name, req.PosterLink, req.Date, req.Description)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "Event added successfully", e)
}

// @Summary      Update event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Param        request body eventRequest true "Fields to change"
// @Success      200 {object} response.APIResponse{data=Event}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /events/{id} [put]
func (h *Handler) updateEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendError(c, apperr.Validation("Event ID is required"))
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, apperr.Validation("invalid request payload"))
		return
	}

	e, err := h.service.UpdateEvent(c.Request.Context(), id, req.Name, req.PosterLink, req.Date, req.Description)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "Event updated successfully", e)
}

// @Summary      Register for an event
// @Tags         event-registrations
// @Accept       json
// @Produce      json
// @Param        request body registrationRequest true "Registration"
// @Success      201 {object} response.APIResponse{data=Registration}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /event-registrations [post]
func (h *Handler) register(c *gin.Context) {
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, apperr.Validation("All fields are required: eventId, name, number, email"))
		return
	}

	reg, err := h.service.Register(c.Request.Context(), req.EventID, req.Name, req.Number, req.Email)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "Event registration successful", reg)
}

// @Summary      Registrations by email
// @Tags         event-registrations
// @Produce      json
// @Param        email path string true "Registrant email"
// @Success      200 {object} response.APIResponse{data=[]Registration}
// @Failure      400 {object} response.APIResponse
// @Router       /event-registrations/email/{email} [get]
func (h *Handler) registrationsByEmail(c *gin.Context) {
	out, err := h.service.RegistrationsForEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "Registrations fetched successfully", out)
}

// @Summary      Registrations for an event
// @Tags         event-registrations
// @Produce      json
// @Security     BearerAuth
// @Param        eventId path int true "Event ID"
// @Success      200 {object} response.APIResponse{data=[]Registration}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /event-registrations/{eventId} [get]
func (h *Handler) registrationsByEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("eventId"), 10, 64)
	if err != nil || id <= 0 {
		response.SendError(c, apperr.Validation("Event ID is required"))
		return
	}

	out, err := h.service.RegistrationsForEvent(c.Request.Context(), id)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "Registrations fetched successfully", out)
}
