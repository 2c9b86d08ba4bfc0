package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/seed-api/internal/rest"
)

// CtxFirebaseUID holds the verified caller's uid in the Gin context.
const CtxFirebaseUID = "firebase_uid"

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuth validates Firebase ID tokens and extracts user info.
// Requests whose method is in public skip verification.
func FirebaseAuth(verifier TokenVerifier, public ...string) gin.HandlerFunc {
	open := make(map[string]bool, len(public))
	for _, m := range public {
		open[strings.ToUpper(m)] = true
	}

	return func(c *gin.Context) {
		if open[c.Request.Method] {
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			rest.RespondStatus(c, http.StatusUnauthorized, rest.CodeError, "missing authorization token", nil)
			c.Abort()
			return
		}

		decodedToken, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			rest.RespondStatus(c, http.StatusUnauthorized, rest.CodeError, "invalid token", nil)
			c.Abort()
			return
		}

		c.Set(CtxFirebaseUID, decodedToken.UID)

		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
