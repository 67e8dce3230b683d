package middleware

import "github.com/gin-gonic/gin"

// subjectKey stores the authenticated subject in the Gin and request contexts.
const subjectKey = contextKey("subject")

// GetSubjectFromContext retrieves the authenticated subject from the Gin context.
func GetSubjectFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(subjectKey)); exists {
		subject, ok := v.(string)
		return subject, ok
	}
	if v, ok := c.Request.Context().Value(subjectKey).(string); ok {
		return v, true
	}
	return "", false
}
