package handler

import (
	"net/http"

	"github.com/blues/dgs/internal/logic"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authLogic *logic.AuthLogic
}

func NewAuthHandler(authLogic *logic.AuthLogic) *AuthHandler {
	return &AuthHandler{authLogic: authLogic}
}

// Register 注册账户
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, token, err := h.authLogic.Register(req.TelegramId, req.Username, req.Password, req.Role)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "注册成功", gin.H{
		"account":      account,
		"access_token": token,
	})
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, token, err := h.authLogic.Login(req.Username, req.Password)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "登录成功", gin.H{
		"access_token":   token,
		"token_type":     "bearer",
		"account_id":     account.Id,
		"username":       account.Username,
		"telegram_id":    account.TelegramId,
		"wallet_created": account.WalletCreated,
	})
}
