package app

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"werkzeugverwaltung/services"
)

const APIKeyHeader = "X-API-Key"

// apiKey is one configured key; entries are "label:secret" or a bare secret.
type apiKey struct {
	label  string
	secret string
	admin  bool
}

func parseKeys(entries []string, admin bool, prefix string) []apiKey {
	out := make([]apiKey, 0, len(entries))
	for i, e := range entries {
		k := apiKey{label: fmt.Sprintf("%s-%d", prefix, i+1), secret: e, admin: admin}
		if label, secret, ok := strings.Cut(e, ":"); ok && label != "" && secret != "" {
			k.label, k.secret = label, secret
		}
		out = append(out, k)
	}
	return out
}

func presentedKey(c *gin.Context) string {
	if k := strings.TrimSpace(c.GetHeader(APIKeyHeader)); k != "" {
		return k
	}
	if v := c.GetHeader("Authorization"); strings.HasPrefix(v, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(v, "Bearer "))
	}
	return ""
}

// AuthRequired checks the API key and puts "actor" and "isAdmin" into the
// context. With no keys configured every request passes as "anonymous"
// admin.
func AuthRequired(cfg Config) gin.HandlerFunc {
	keys := append(parseKeys(cfg.AdminAPIKeys, true, "admin"), parseKeys(cfg.APIKeys, false, "key")...)
	return func(c *gin.Context) {
		if len(keys) == 0 {
			setActor(c, "anonymous", true)
			c.Next()
			return
		}
		got := presentedKey(c)
		if got == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		for _, k := range keys {
			if subtle.ConstantTimeCompare([]byte(got), []byte(k.secret)) == 1 {
				setActor(c, k.label, k.admin)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid api key"})
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get("actor"); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if !c.GetBool("isAdmin") {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func setActor(c *gin.Context, actor string, admin bool) {
	c.Set("actor", actor)
	c.Set("isAdmin", admin)
	c.Request = c.Request.WithContext(services.WithActor(c.Request.Context(), actor))
}
