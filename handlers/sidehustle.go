package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type hustleRequest struct {
	Title        string `json:"title"`
	Skills       string `json:"skills"`
	HoursPerWeek Number `json:"hoursPerWeek"`
}

func (r hustleRequest) hours() (float64, bool) {
	if r.HoursPerWeek.Set && !r.HoursPerWeek.Valid {
		return 0, false
	}
	return r.HoursPerWeek.Value, true
}

// SuggestHustles ranks side-hustle ideas for a skills description
func (h *APIHandler) SuggestHustles(c *gin.Context) {
	var req hustleRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Skills) == "" {
		badRequest(c, "skills are required")
		return
	}
	hours, ok := req.hours()
	if !ok {
		badRequest(c, "hoursPerWeek must be a number")
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": h.hustles.Suggest(req.Skills, hours)})
}

// GenerateGig builds a gig description and starter plan for one idea
func (h *APIHandler) GenerateGig(c *gin.Context) {
	var req hustleRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		badRequest(c, "title is required")
		return
	}
	hours, ok := req.hours()
	if !ok {
		badRequest(c, "hoursPerWeek must be a number")
		return
	}

	c.JSON(http.StatusOK, h.hustles.Generate(req.Title, req.Skills, hours))
}
