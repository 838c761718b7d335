package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adotapet/api/internal/middleware"
	"adotapet/api/internal/models"
	"adotapet/api/internal/security"
	"adotapet/api/internal/service"
)

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
	Name      string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
	}
}

func (h HandlerSet) RegisterAccount(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.Password2,
		Name:            req.Name,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	c.JSON(http.StatusCreated, gin.H{
		"user":    toUserResponse(result.User),
		"access":  result.AccessToken,
		"refresh": result.RefreshToken,
	})
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "email and password are required"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"detail":  "login ok",
		"user":    toUserResponse(result.User),
		"access":  result.AccessToken,
		"refresh": result.RefreshToken,
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Refresh accepts the refresh token from the body or from the cookie and
// re-issues the access token.
func (h HandlerSet) Refresh(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)

	token := req.Refresh
	if token == "" {
		if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
			token = cookie
		}
	}

	result, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setAccessCookie(c, result.AccessToken)
	body := gin.H{"detail": "token refreshed", "access": result.AccessToken}
	if result.RefreshToken != "" {
		h.setRefreshCookie(c, result.RefreshToken)
		body["refresh"] = result.RefreshToken
	}
	c.JSON(http.StatusOK, body)
}

// Logout clears both cookies. It never fails once the caller is
// authenticated, so repeating it is harmless.
func (h HandlerSet) Logout(c *gin.Context) {
	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"detail": "logged out"})
}

func (h HandlerSet) CurrentUser(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

const refreshTokenCookie = "refresh_token"

func (h HandlerSet) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	h.setAccessCookie(c, accessToken)
	h.setRefreshCookie(c, refreshToken)
}

func (h HandlerSet) setAccessCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(security.AccessTokenCookie, token,
		int(h.cfg.Security.AccessTTL.Seconds()), "/",
		h.cfg.Security.CookieDomain, h.cfg.Security.CookieSecure, true)
}

func (h HandlerSet) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshTokenCookie, token,
		int(h.cfg.Security.RefreshTTL.Seconds()), "/",
		h.cfg.Security.CookieDomain, h.cfg.Security.CookieSecure, true)
}

func (h HandlerSet) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(security.AccessTokenCookie, "", -1, "/",
		h.cfg.Security.CookieDomain, h.cfg.Security.CookieSecure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/",
		h.cfg.Security.CookieDomain, h.cfg.Security.CookieSecure, true)
}
