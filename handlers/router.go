package handlers

import (
	"github.com/finmentor/backend/web"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with every route and middleware
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(d.Log), Recovery(d.Log), CORS(d.CORSOrigins))

	h := NewAPIHandler(d)

	r.GET("/", web.Index)
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/chat", h.Chat)
		api.POST("/chat/log", h.LogChat)
		api.GET("/searches", h.ListSearches)

		api.POST("/budget", h.Budget)
		api.GET("/budget/report", h.BudgetReport)

		api.POST("/transactions", h.CreateTransaction)
		api.GET("/transactions", h.ListTransactions)
		api.GET("/transactions/export", h.ExportTransactions)

		api.POST("/esd/analyze", h.AnalyzeSpending)
		api.GET("/esd/alerts", h.ListAlerts)

		api.POST("/sidehustle/suggest", h.SuggestHustles)
		api.POST("/sidehustle/generate", h.GenerateGig)

		auth := api.Group("/auth")
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/users", h.ListUsers)
	}

	if d.Line != nil {
		r.POST("/webhook/line", d.Line.HandleWebhook)
	}

	return r
}
