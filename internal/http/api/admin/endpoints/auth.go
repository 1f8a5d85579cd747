package endpoints

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api"
	"github.com/Nixie-Tech-LLC/muezzin/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/muezzin/internal/http/middleware"
)

// AuthPublicModule mounts /auth/login for the configured admin.
func AuthPublicModule(jwtSecret, email, passwordHash string) api.Module {
	ctl := &AccountManager{jwtSecret: jwtSecret, email: email, passwordHash: passwordHash}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/login", ctl.adminLogin)
	})
}

type AccountManager struct {
	jwtSecret    string
	email        string
	passwordHash string
}

// POST /api/admin/auth/login
func (a *AccountManager) adminLogin(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if !strings.EqualFold(request.Email, a.email) || !middleware.CheckPassword(a.passwordHash, request.Password) {
		log.Warn().Str("email", request.Email).Msg("admin login rejected")
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: middleware.ErrInvalidCredentials.Error()}
	}

	token, err := middleware.GenerateJWT(a.email, a.jwtSecret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}
	return packets.TokenResponse{Token: token}, nil
}
