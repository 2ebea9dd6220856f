package http

import "github.com/gin-gonic/gin"

// Register attaches project and stats routes to the given router groups.
func (h *Handler) Register(projects, stats, images *gin.RouterGroup) {
	projects.POST("", h.insert)
	projects.GET("", h.list)
	projects.GET("/active", h.listActive)
	projects.GET("/inactive", h.listInactive)
	projects.GET("/:id", h.get)
	projects.PUT("/:id", h.update)
	projects.PUT("/:id/annotations", h.saveAnnotations)
	projects.DELETE("/:id", h.delete)

	stats.GET("/sends-count", h.sendsCount)
	stats.GET("/sends-summary", h.sendsSummary)
	stats.GET("/styles-summary", h.stylesSummary)

	images.POST("", h.uploadImage)
}
