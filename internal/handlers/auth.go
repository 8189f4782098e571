package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"menshub/internal/logger"
	"menshub/internal/middleware"
	"menshub/internal/services"
	"menshub/internal/utils/helpers"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	jwtSecret   string
}

func NewAuthHandler(authService *services.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{authService: authService, jwtSecret: jwtSecret}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

// Login godoc
// @Summary Log in and receive an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "Invalid credentials"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("invalid JSON on login", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	access, refresh, user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			logger.Log.Warn("login rejected", zap.String("username", req.Username))
			helpers.Error(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		logger.Log.Error("login failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	logger.Log.Info("login ok", zap.String("username", user.Username))
	helpers.JSON(w, http.StatusOK, loginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Username:     user.Username,
		Role:         user.Role,
	})
}

// refreshClaims pulls user_id and role out of a bearer refresh token,
// rejecting access tokens presented in its place.
func (h *AuthHandler) refreshClaims(w http.ResponseWriter, r *http.Request) (int, string, string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		helpers.Error(w, http.StatusUnauthorized, "Missing refresh token")
		return 0, "", "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		logger.Log.Warn("invalid refresh token", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return 0, "", "", false
	}

	userID, ok1 := claims["user_id"].(float64)
	role, ok2 := claims["role"].(string)
	tokenType, _ := claims["token_type"].(string)
	if !ok1 || !ok2 || tokenType != "refresh" {
		logger.Log.Warn("bad refresh token payload", zap.Any("claims", claims))
		helpers.Error(w, http.StatusUnauthorized, "Invalid token payload")
		return 0, "", "", false
	}
	return int(userID), role, tokenString, true
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "Invalid or expired refresh token"
// @Router /refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, role, tokenString, ok := h.refreshClaims(w, r)
	if !ok {
		return
	}

	access, err := h.authService.Refresh(r.Context(), userID, role, tokenString)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			helpers.Error(w, http.StatusUnauthorized, "Refresh token revoked")
			return
		}
		logger.Log.Error("token refresh failed", zap.Error(err), zap.Int("user_id", userID))
		helpers.Error(w, http.StatusInternalServerError, "Token refresh failed")
		return
	}

	logger.Log.Info("token refreshed", zap.Int("user_id", userID))
	helpers.JSON(w, http.StatusOK, map[string]string{"access_token": access})
}

// Logout godoc
// @Summary Revoke the presented refresh token
// @Tags auth
// @Produce json
// @Success 200 {string} string "Logged out"
// @Router /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, _, tokenString, ok := h.refreshClaims(w, r)
	if !ok {
		return
	}

	if err := h.authService.Logout(r.Context(), userID, tokenString); err != nil {
		logger.Log.Error("logout failed", zap.Error(err), zap.Int("user_id", userID))
		helpers.Error(w, http.StatusInternalServerError, "Logout failed")
		return
	}
	helpers.JSON(w, http.StatusOK, "Logged out")
}

// Profile godoc
// @Summary Current user profile
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.User
// @Router /api/admin/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		logger.Log.Error("profile lookup failed", zap.Error(err), zap.Int("user_id", userID))
		helpers.Error(w, http.StatusNotFound, "User not found")
		return
	}

	helpers.JSON(w, http.StatusOK, user)
}
