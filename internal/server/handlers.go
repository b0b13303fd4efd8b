package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizler/quizler/internal/auth"
	"github.com/quizler/quizler/internal/extract"
	"github.com/quizler/quizler/internal/quizgen"
	"github.com/quizler/quizler/internal/store"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// quizRequest is the POST /api/quiz body.
type quizRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Count int    `json:"count"`
}

func (s *Server) handleGenerateQuiz(c *gin.Context) {
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.URL == "" && req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either url or text is required"})
		return
	}

	ctx := c.Request.Context()
	title := req.Title
	text := extract.Normalize(req.Text)

	// No text supplied: fetch the page and extract server-side.
	if text == "" {
		page, err := s.fetcher.Fetch(ctx, req.URL)
		if err != nil {
			s.log.Warn("page fetch failed", "url", req.URL, "error", err)
			if errors.Is(err, extract.ErrNoContent) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "nothing readable on that page"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not fetch the page"})
			return
		}
		text = page.Text
		if title == "" {
			title = page.Title
		}
	}

	payload, err := s.gen.Generate(ctx, quizgen.Request{
		URL:   req.URL,
		Title: title,
		Text:  text,
		Count: req.Count,
	})
	if err != nil {
		s.log.Warn("quiz generation failed", "url", req.URL, "error", err)
		if errors.Is(err, quizgen.ErrEmptyText) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing readable on that page"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not generate a quiz for this page"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": payload.Questions,
		"sourceUrl": payload.SourceURL,
	})
}

// resultRequest is the POST /api/results body.
type resultRequest struct {
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	PageURL    string `json:"pageUrl"`
	PageTitle  string `json:"pageTitle"`
}

func (s *Server) handleSaveResult(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
		return
	}

	var req resultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Total <= 0 || req.Score < 0 || req.Score > req.Total {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid score"})
		return
	}

	result := &store.QuizResult{
		UserID:     userID,
		Score:      req.Score,
		Total:      req.Total,
		Percentage: req.Percentage,
		PageURL:    req.PageURL,
		PageTitle:  req.PageTitle,
	}
	if err := s.results.Create(c.Request.Context(), result); err != nil {
		s.log.Error("save result failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save result"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true, "id": result.ID})
}

func (s *Server) handleListResults(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
		return
	}

	results, err := s.results.ByUser(c.Request.Context(), userID, 50)
	if err != nil {
		s.log.Error("list results failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load results"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) handleLeaderboard(c *gin.Context) {
	limit := 10
	if v := c.Query("limit"); v != "" {
		if n, err := atoiBounded(v, 1, 100); err == nil {
			limit = n
		}
	}

	entries, err := s.results.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		s.log.Error("leaderboard query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// credentialsRequest covers register and login bodies.
type credentialsRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := s.auth.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, _, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": publicUser(user), "tokens": tokens})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tokens, user, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": publicUser(user), "tokens": tokens})
}

func (s *Server) handleRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tokens, err := s.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

func publicUser(u *store.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"username":  u.Username,
		"avatarUrl": u.AvatarURL,
	}
}

func atoiBounded(s string, min, max int) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.New("not a number")
		}
		n = n*10 + int(r-'0')
		if n > max {
			return max, nil
		}
	}
	if n < min {
		return min, nil
	}
	return n, nil
}
