package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RequireSelfOrAdmin gates routes carrying a user id path parameter: the
// requester must be that user or an admin. Runs after RequireAuth.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)

		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Missing identity context",
				},
			})
			return
		}

		targetID, err := strconv.ParseInt(c.Param(param), 10, 64)

		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "invalid_request",
					"message": "Invalid user id",
				},
			})
			return
		}

		if u.ID != targetID && !u.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": "Not allowed to manage this user",
				},
			})
			return
		}
		c.Next()
	}
}
