package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"referral_leaderboard/internal/model"
	"referral_leaderboard/internal/service"
	"referral_leaderboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type leaderboardRoutes struct {
	ls  service.LeaderboardServiceI
	hub *Hub
}

func NewLeaderboardRoutes(handler *gin.RouterGroup, ls service.LeaderboardServiceI, hub *Hub) {
	r := &leaderboardRoutes{ls: ls, hub: hub}
	h := handler.Group("/leaderboard")
	{
		h.GET("", r.GetLeaderboard)
		h.POST("/users", r.AddUser)
		h.POST("/users/:id/increment", r.IncrementReferralCount)
		h.GET("/ws", r.handleWebSocket)
	}
}

type entryResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	ReferralCount int    `json:"referral_count"`
	Rank          int    `json:"rank"`
}

type leaderboardResponse struct {
	Entries   []entryResponse `json:"entries"`
	Total     int             `json:"total"`
	FetchedAt *time.Time      `json:"fetched_at"`
}

func toLeaderboardResponse(snapshot model.Snapshot) leaderboardResponse {
	out := leaderboardResponse{
		Entries: make([]entryResponse, len(snapshot.Entries)),
		Total:   len(snapshot.Entries),
	}
	if !snapshot.FetchedAt.IsZero() {
		fetchedAt := snapshot.FetchedAt
		out.FetchedAt = &fetchedAt
	}

	for i, e := range snapshot.Entries {
		out.Entries[i] = entryResponse{
			ID:            e.ID,
			UserID:        e.UserID,
			ReferralCount: e.ReferralCount,
			Rank:          e.Rank,
		}
	}

	return out
}

func (r *leaderboardRoutes) GetLeaderboard(c *gin.Context) {
	log := logger.Logger()

	// Every read goes to the store unless the caller asks for the cached copy
	// with refresh=false.
	refresh := true
	if v, ok := c.GetQuery("refresh"); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			refresh = parsed
		}
	}

	var (
		snapshot model.Snapshot
		err      error
	)
	if refresh {
		snapshot, err = r.ls.Refresh(c.Request.Context())
	} else {
		snapshot, err = r.ls.Leaderboard(c.Request.Context())
	}
	if err != nil {
		log.Error("failed to get leaderboard", zap.Error(err))
		r.respondError(c, err, snapshot)
		return
	}

	c.JSON(http.StatusOK, toLeaderboardResponse(snapshot))
}

type AddUserRequest struct {
	UserID string `json:"user_id"`
}

func (r *leaderboardRoutes) AddUser(c *gin.Context) {
	log := logger.Logger()

	var req AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	snapshot, err := r.ls.AddUser(c.Request.Context(), req.UserID)
	if err != nil {
		log.Error("failed to add user", zap.Error(err))
		r.respondError(c, err, snapshot)
		return
	}

	c.JSON(http.StatusCreated, toLeaderboardResponse(snapshot))
}

func (r *leaderboardRoutes) IncrementReferralCount(c *gin.Context) {
	log := logger.Logger()

	id := c.Param("id")
	snapshot, err := r.ls.Increment(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to increment referral count", zap.Error(err), zap.String("id", id))
		r.respondError(c, err, snapshot)
		return
	}

	c.JSON(http.StatusOK, toLeaderboardResponse(snapshot))
}

func (r *leaderboardRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	if err := r.hub.Serve(c.Writer, c.Request, r.ls.LastKnownGood); err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
	}
}

// respondError keeps the last known good leaderboard in the body next to the
// error so clients can go on showing it.
func (r *leaderboardRoutes) respondError(c *gin.Context, err error, snapshot model.Snapshot) {
	c.JSON(errorStatus(err), gin.H{
		"error":       errorMessage(err),
		"leaderboard": toLeaderboardResponse(snapshot),
	})
}

func errorStatus(err error) int {
	var (
		validationErr *service.ValidationError
		fetchErr      *service.FetchError
		writeErr      *service.WriteError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrEntryNotFound), errors.Is(err, service.ErrEntryNotLoaded):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &fetchErr), errors.As(err, &writeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	var (
		validationErr *service.ValidationError
		fetchErr      *service.FetchError
		writeErr      *service.WriteError
	)

	switch {
	case errors.As(err, &validationErr):
		return "user id must not be blank"
	case errors.Is(err, service.ErrEntryNotFound), errors.Is(err, service.ErrEntryNotLoaded):
		return "entry not found"
	case errors.As(err, &fetchErr):
		return "could not load the leaderboard, showing the last loaded version"
	case errors.As(err, &writeErr):
		return "could not save the change"
	default:
		return "internal server error"
	}
}
