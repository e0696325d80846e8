package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const contentTypeProblemJSON = "application/problem+json"

// Problem is an RFC 7807 problem details body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func (p Problem) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p Problem) WithDetail(detail string) Problem {
	p.Detail = detail
	return p
}

var (
	problemBadRequest    = Problem{Type: "/problems/bad-request", Title: "Bad Request", Status: http.StatusBadRequest}
	problemInvalidImport = Problem{Type: "/problems/invalid-import", Title: "Invalid Import", Status: http.StatusBadRequest}
	problemTooLarge      = Problem{Type: "/problems/payload-too-large", Title: "Payload Too Large", Status: http.StatusRequestEntityTooLarge}
	problemInternal      = Problem{Type: "/problems/internal-error", Title: "Internal Server Error", Status: http.StatusInternalServerError}
)

func respondProblem(c *gin.Context, p Problem) {
	if p.Instance == "" {
		p.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", contentTypeProblemJSON)
	c.AbortWithStatusJSON(p.Status, p)
}
