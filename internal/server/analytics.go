package server

import (
	"net/http"
	"strings"

	analyticsdomain "github.com/fizzlog/fizzlog/internal/analytics/domain"
	"github.com/gin-gonic/gin"
)

// PeriodAnalytics aggregates the ledger over a trailing window selected
// by the period query parameter (30d when absent).
func (s *Server) PeriodAnalytics(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("period"))
	if raw == "" {
		raw = string(analyticsdomain.Period30d)
	}

	period, err := analyticsdomain.ParsePeriod(raw)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.analyticsSvc.Period(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) DashboardSummary(c *gin.Context) {
	summary, err := s.analyticsSvc.Dashboard(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
