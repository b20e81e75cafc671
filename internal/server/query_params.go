package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fizzlog/fizzlog/pkg/dateonly"
	"github.com/gin-gonic/gin"
)

func idParam(c *gin.Context) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return 0, ErrInvalidRequest
	}
	return id, nil
}

// dateQuery parses an optional "2006-01-02" query parameter; the zero
// Date means the parameter was absent.
func dateQuery(c *gin.Context, name string) (dateonly.Date, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return dateonly.Date{}, nil
	}
	parsed, err := dateonly.Parse(raw)
	if err != nil {
		return dateonly.Date{}, ErrInvalidRequest
	}
	return parsed, nil
}
