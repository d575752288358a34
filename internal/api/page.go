package api

import (
	"embed"
	"html/template"
	"net/http"

	"referral_leaderboard/internal/model"
	"referral_leaderboard/internal/service"
	"referral_leaderboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templates embed.FS

const pageTemplate = "leaderboard.html"

type pageRoutes struct {
	ls service.LeaderboardServiceI
}

type pageData struct {
	Entries   []model.RankedEntry
	FetchedAt string
	Notice    string
	UserID    string
}

// NewPageRoutes serves the leaderboard page and its two forms. Form posts
// redirect back to the page on success.
func NewPageRoutes(router *gin.Engine, ls service.LeaderboardServiceI) error {
	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)

	r := &pageRoutes{ls: ls}
	router.GET("/", r.Index)
	router.POST("/users", r.AddUser)
	router.POST("/users/:id/increment", r.Increment)

	return nil
}

// Index reads the store on every load so writes from other clients show up.
func (r *pageRoutes) Index(c *gin.Context) {
	log := logger.Logger()

	snapshot, err := r.ls.Refresh(c.Request.Context())
	if err != nil {
		log.Error("failed to load leaderboard page", zap.Error(err))
		r.render(c, errorStatus(err), snapshot, errorMessage(err), "")
		return
	}

	r.render(c, http.StatusOK, snapshot, "", "")
}

func (r *pageRoutes) AddUser(c *gin.Context) {
	log := logger.Logger()

	userID := c.PostForm("user_id")
	snapshot, err := r.ls.AddUser(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to add user", zap.Error(err))
		r.render(c, errorStatus(err), snapshot, errorMessage(err), userID)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (r *pageRoutes) Increment(c *gin.Context) {
	log := logger.Logger()

	id := c.Param("id")
	snapshot, err := r.ls.Increment(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to increment referral count", zap.Error(err), zap.String("id", id))
		r.render(c, errorStatus(err), snapshot, errorMessage(err), "")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (r *pageRoutes) render(c *gin.Context, status int, snapshot model.Snapshot, notice, userID string) {
	data := pageData{
		Entries: snapshot.Entries,
		Notice:  notice,
		UserID:  userID,
	}
	if !snapshot.FetchedAt.IsZero() {
		data.FetchedAt = snapshot.FetchedAt.UTC().Format("2006-01-02 15:04:05 MST")
	}

	c.HTML(status, pageTemplate, data)
}
