package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yoockh/mindwell/internal/api/handlers"
	"github.com/yoockh/mindwell/internal/api/middleware"
)

type Deps struct {
	JWT         middleware.JWTConfig
	Chat        *handlers.ChatHandler
	ChatSession *handlers.ChatSessionHandler
	User        *handlers.UserHandler
	Tracker     *handlers.TrackerHandler
	WS          *handlers.WSHandler
	Admin       *handlers.AdminHandler // nil when mongo is not configured
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", handlers.Health)
	r.GET("/api/health", handlers.Health)

	// crisis hotlines must stay reachable without a token
	r.GET("/chat/resources", d.Chat.Resources)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.JWT))

	auth.POST("/chat/message", d.Chat.Message)
	auth.POST("/chat/session/start", d.ChatSession.Start)
	auth.POST("/chat/session/:session_id/end", d.ChatSession.End)
	auth.POST("/sentiment/compare", d.Chat.Compare)

	auth.GET("/user/history", d.User.History)
	auth.GET("/user/mood-trends", d.User.MoodTrends)
	auth.GET("/user/summary", d.User.Summary)
	auth.GET("/user/sessions", d.ChatSession.History)
	auth.GET("/user/improvement-stats", d.ChatSession.ImprovementStats)

	auth.POST("/tracker/sessions", d.Tracker.Create)
	auth.GET("/tracker/sessions", d.Tracker.List)
	auth.GET("/tracker/sessions/:id", d.Tracker.Get)
	auth.POST("/tracker/sessions/:id/messages", d.Tracker.PostMessage)
	auth.GET("/tracker/sessions/:id/mood", d.Tracker.Mood)
	auth.POST("/tracker/sessions/:id/end", d.Tracker.End)
	auth.DELETE("/tracker/sessions/:id", d.Tracker.Delete)

	// WebSocket
	auth.GET("/ws/tracker/:session_id", d.WS.TrackerWS)

	if d.Admin != nil {
		admin := auth.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		admin.GET("/crisis-events", d.Admin.CrisisEvents)
	}
}
