package security

import (
	"net/http"
	"strconv"

	"github.com/Ankitshrma25/IMS/internal/repository"

	"github.com/gin-gonic/gin"
)

type LoginHandler struct {
	Repository *repository.Repository
}

func NewLoginHandler(repo *repository.Repository) *LoginHandler {
	return &LoginHandler{Repository: repo}
}

func (h *LoginHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/auth", h.Login)
}

func (h *LoginHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	user, err := AuthenticateUser(req.Username, req.Password, h.Repository)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := GenerateJWT(strconv.Itoa(user.ID), user.Role, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
