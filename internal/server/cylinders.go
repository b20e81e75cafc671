package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	cylinderdomain "github.com/fizzlog/fizzlog/internal/cylinder/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListCylinders(c *gin.Context) {
	cylinders, err := s.cylinderSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cylinders)
}

func (s *Server) CreateCylinder(c *gin.Context) {
	var req cylinderdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	cyl, err := s.cylinderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cyl)
}

func (s *Server) GetCylinder(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	cyl, err := s.cylinderSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cyl)
}

func (s *Server) UpdateCylinder(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req cylinderdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = id

	cyl, err := s.cylinderSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cyl)
}

func (s *Server) DeleteCylinder(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.cylinderSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type changeActiveRequest struct {
	CylinderID snowflake.ID `json:"cylinder_id"`
}

// ChangeActiveCylinder flips the single active flag to the requested
// cylinder in one transaction.
func (s *Server) ChangeActiveCylinder(c *gin.Context) {
	var req changeActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	cyl, err := s.cylinderSvc.SetActive(c.Request.Context(), req.CylinderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cyl)
}

func (s *Server) CylinderUsage(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	usage, err := s.cylinderSvc.UsageSummary(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, usage)
}
