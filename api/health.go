package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler is the serverless function entry point for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	// Liveness only; /health on the full app also pings the store
	engine.GET("/*any", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "finmentor",
		})
	})

	engine.ServeHTTP(w, r)
}
