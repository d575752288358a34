package api

import (
	"net/http"
	"time"

	"referral_leaderboard/internal/middleware"
	"referral_leaderboard/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(ls service.LeaderboardServiceI, hub *Hub) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
	}
	config.AllowHeaders = []string{"*"}
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	if err := NewPageRoutes(router, ls); err != nil {
		return nil, err
	}

	a := router.Group("/api/v1")
	NewLeaderboardRoutes(a, ls, hub)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router, nil
}
