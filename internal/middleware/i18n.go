// internal/middleware/i18n.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/i18n"
)

const ContextLanguage = "language"

// I18n resolves the request language from Accept-Language.
func I18n() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := i18n.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
		c.Set(ContextLanguage, lang)
		c.Next()
	}
}

// Lang returns the resolved request language.
func Lang(c *gin.Context) string {
	if value, exists := c.Get(ContextLanguage); exists {
		if lang, ok := value.(string); ok {
			return lang
		}
	}
	return i18n.DefaultLanguage
}
