package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Router builds the gin engine with all API routes registered.
func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/", a.handleIndex)
	router.GET("/health", a.handleHealth)
	router.GET("/api/classes", a.handleClasses)
	router.GET("/api/stats", a.handleStats)
	router.POST("/api/analyze", a.handleAnalyze)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	})
	return router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.JSON(http.StatusOK, struct{}{})
			c.Abort()
			return
		}
		c.Next()
	}
}
