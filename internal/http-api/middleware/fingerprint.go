package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// DeviceFingerprint derives an opaque fingerprint string for the calling
// device and stores it in the request context. Clients that send an
// X-Device-Id header (the frontend persists a random one) get a stable
// fingerprint; otherwise the client IP and user agent stand in. The value is
// opaque input to the device hasher and is never persisted raw.
func DeviceFingerprint() gin.HandlerFunc {
	return func(c *gin.Context) {
		fingerprint := strings.TrimSpace(c.GetHeader("X-Device-Id"))
		if fingerprint == "" {
			fingerprint = c.ClientIP() + "|" + c.Request.UserAgent()
		}
		c.Set("deviceFingerprint", fingerprint)
		c.Next()
	}
}
