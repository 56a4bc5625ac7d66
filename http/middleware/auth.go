package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-image-labeler/config"
	"github.com/tnqbao/gau-image-labeler/utils"
)

// PushAuthMiddleware requires an HS256 bearer token when PUSH_AUTH_SECRET is
// set and lets every request through otherwise.
func PushAuthMiddleware(cfg *config.EnvConfig) gin.HandlerFunc {
	secret := cfg.PushAuth.SecretKey

	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		tokenStr := utils.ExtractToken(c)
		if tokenStr == "" {
			utils.AbortJSON401(c, "Authorization token is required")
			return
		}

		parsedToken, err := utils.ParseToken(tokenStr, secret)
		if err != nil || !parsedToken.Valid {
			utils.AbortJSON401(c, "Invalid token")
			return
		}

		c.Next()
	}
}
