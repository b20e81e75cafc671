package server

import (
	"net/http"

	consumptiondomain "github.com/fizzlog/fizzlog/internal/consumption/domain"
	"github.com/gin-gonic/gin"
)

// ListLogs returns consumption entries, optionally bounded by
// start_date and end_date query parameters (inclusive).
func (s *Server) ListLogs(c *gin.Context) {
	from, err := dateQuery(c, "start_date")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	to, err := dateQuery(c, "end_date")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entries, err := s.consumptionSvc.List(c.Request.Context(), consumptiondomain.ListFilter{
		From: from,
		To:   to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (s *Server) CreateLog(c *gin.Context) {
	var req consumptiondomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	entry, err := s.consumptionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (s *Server) GetLog(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entry, err := s.consumptionSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (s *Server) UpdateLog(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req consumptiondomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = id

	entry, err := s.consumptionSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (s *Server) DeleteLog(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.consumptionSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
