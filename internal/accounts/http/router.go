package http

import "github.com/gin-gonic/gin"

// Register attaches the public account routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/accounts", h.register)
	rg.POST("/login", h.login)
}
