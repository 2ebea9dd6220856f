package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hooked-app/hooked-backend/internal/projects/domain"
)

// listQuery carries the decoded filter terms of a listing request. The sent
// tri-state is decoded here, once, at the boundary.
type listQuery struct {
	grades  []string
	styles  []string
	sent    domain.SentFilter
	sentRaw string
}

func listQueryFrom(c *gin.Context) listQuery {
	q := listQuery{
		grades:  splitList(c.Query("grades")),
		styles:  splitList(c.Query("styles")),
		sentRaw: c.Query("sent"),
	}
	q.sent = domain.ParseSentFilter(q.sentRaw)
	return q
}

func (q listQuery) empty() bool {
	return len(q.grades) == 0 && len(q.styles) == 0 && q.sentRaw == ""
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
