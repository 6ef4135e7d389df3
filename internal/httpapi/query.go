package httpapi

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tyler180/fantasy-roster-values/internal/roster"
)

// query parses ruleset overrides plus position and limit. On a bad value
// it writes a 400 and reports false.
func (h *Handler) query(c *gin.Context) (roster.Query, bool) {
	var q roster.Query

	if s, ok := c.GetQuery("isDynasty"); ok {
		b, err := strconv.ParseBool(s)
		if err != nil {
			h.badRequest(c, "isDynasty must be true or false")
			return q, false
		}
		q.Override.IsDynasty = &b
	}
	if s, ok := c.GetQuery("numQbs"); ok {
		n, err := strconv.Atoi(s)
		if err != nil || (n != 1 && n != 2) {
			h.badRequest(c, "numQbs must be 1 or 2")
			return q, false
		}
		q.Override.NumQBs = &n
	}
	if s, ok := c.GetQuery("ppr"); ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || (f != 0 && f != 0.5 && f != 1) {
			h.badRequest(c, "ppr must be 0, 0.5 or 1")
			return q, false
		}
		q.Override.PPR = &f
	}
	if s, ok := c.GetQuery("numTeams"); ok {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			h.badRequest(c, "numTeams must be a positive integer")
			return q, false
		}
		q.Override.NumTeams = &n
	}
	if s, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			h.badRequest(c, "limit must be a non-negative integer")
			return q, false
		}
		q.Limit = n
	}
	q.Position = strings.ToUpper(strings.TrimSpace(c.Query("position")))
	return q, true
}
