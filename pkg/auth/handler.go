package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"incubator/pkg/apperr"
	"incubator/pkg/middleware"
	"incubator/pkg/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the auth endpoints under /auth. requireAuth guards logout.
func (h *Handler) RegisterRoutes(router gin.IRouter, requireAuth gin.HandlerFunc) {
	g := router.Group("/auth")
	g.POST("/register-founder", h.registerFounder)
	g.POST("/register-admin", h.registerAdmin)
	g.POST("/login-founder", h.loginFounder)
	g.POST("/login-admin", h.loginAdmin)
	g.POST("/refresh", h.refresh)
	g.POST("/logout", requireAuth, h.logout)
}

type registerFounderRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	UserID   string `json:"userId" binding:"required"`
	Name     string `json:"name"`
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// @Summary      Register founder credentials
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body registerFounderRequest true "Founder credentials"
// @Success      201 {object} response.APIResponse{data=Founder}
// @Failure      400 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /auth/register-founder [post]
func (h *Handler) registerFounder(c *gin.Context) {
	var req registerFounderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, apperr.Validation("Email, password and userId are required"))
		return
	}

	f, err := h.service.RegisterFounder(c.Request.Context(), req.Email, req.Password, req.UserID, req.Name)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "Founder registered successfully", f)
}

// @Summary      Register admin credentials
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body credentialsRequest true "Admin credentials"
// @Success      201 {object} response.APIResponse{data=Admin}
// @Failure      400 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /auth/register-admin [post]
func (h *Handler) registerAdmin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, apperr.Validation("Email and password are required"))
		return
	}

	a, err := h.service.RegisterAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "Admin registered successfully", a)
}

// @Summary      Founder login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body credentialsRequest true "Founder credentials"
// @Success      200 {object} response.APIResponse{data=LoginResult}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /auth/login-founder [post]
func (h *Handler) loginFounder(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, apperr.Validation("Email and password are required"))
		return
	}

	res, err := h.service.LoginFounder(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "Founder signed in successfully", res)
}

// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body credentialsRequest true "Admin credentials"
// @Success      200 {object} response.APIResponse{data=LoginResult}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /auth/login-admin [post]
func (h *Handler) loginAdmin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, apperr.Validation("Email and password are required"))
		return
	}

	res, err := h.service.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "Admin signed in successfully", res)
}

// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body refreshRequest true "Refresh token"
// @Success      200 {object} response.APIResponse{data=refreshResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /auth/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)

	access, err := h.service.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "Access token refreshed", refreshResponse{AccessToken: access})
}

// @Summary      Logout (revoke current access token)
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		response.SendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "Logged out", nil)
}
