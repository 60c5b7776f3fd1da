package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowFunc reports whether a request bypasses the rate limit.
type AllowFunc func(*gin.Context) bool

// AllowPrivateIP bypasses loopback and private-range clients.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ipFromCtx(c))
		return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
	}
}
