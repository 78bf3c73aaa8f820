package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// idParam parses the :id path segment. Anything that is not a positive
// integer cannot name a row, so callers answer 404.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func queryFloat(c *gin.Context, name string) (float64, bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, err
	}
	return v, true, nil
}
