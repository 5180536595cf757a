package middleware

import "github.com/gin-gonic/gin"

const DefaultLocale = "en"

// LocaleMiddleware reads the storefront locale from the Accept-Language
// header (first subtag only) or a `lang` query parameter, defaulting to "en".
// The facet compiler uses it as the active locale for text search.
func LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := c.Query("lang")
		if locale == "" {
			header := c.GetHeader("Accept-Language")
			if len(header) >= 2 {
				locale = header[:2]
			}
		}
		if locale == "" {
			locale = DefaultLocale
		}
		c.Set("locale", locale)
		c.Next()
	}
}

// Locale returns the active request locale.
func Locale(c *gin.Context) string {
	if v, ok := c.Get("locale"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return DefaultLocale
}
