package registration

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"incubator/pkg/apperr"
	"incubator/pkg/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/register", h.register)
}

// @Summary      Register a startup and its founder account
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        request body Payload true "Flattened registration form"
// @Success      201 {object} response.APIResponse{data=Result}
// @Failure      400 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /register [post]
func (h *Handler) register(c *gin.Context) {
	var p Payload
	if err := c.ShouldBindJSON(&p); err != nil {
		response.SendError(c, apperr.Validation(missingFieldsMessage))
		return
	}

	res, err := h.service.Register(c.Request.Context(), p)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "Startup and founder account registered successfully", res)
}
