package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio/internal/application/usecase/auth"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type AuthHandler struct {
	loginUseCase  *auth.LoginUseCase
	logoutUseCase *auth.LogoutUseCase
	logger        logger.Logger
}

func NewAuthHandler(loginUC *auth.LoginUseCase, logoutUC *auth.LogoutUseCase, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		loginUseCase:  loginUC,
		logoutUseCase: logoutUC,
		logger:        log,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("email and password are required", err))
		return
	}

	input := auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}
	output, err := h.loginUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": output.AccessToken,
		"expires_at":   output.ExpiresAt,
		"user":         output.User,
	})
}

// Logout revokes the presented token and signs the request's session out.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(GinContextKeyToken)
	if err := h.logoutUseCase.Execute(c.Request.Context(), token); err != nil {
		c.Error(err)
		return
	}
	if sess, ok := GetSessionFromGinContext(c); ok {
		sess.SignOut()
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := GetSessionFromGinContext(c)
	if !ok {
		c.Error(apperror.NewNotAuthenticated("no session on request"))
		return
	}
	id, ok := sess.Identity()
	if !ok {
		c.Error(apperror.NewNotAuthenticated("session expired"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":      sess.State(),
		"user":       id.User,
		"expires_at": id.ExpiresAt,
	})
}
