package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const fallbackIP = "127.0.0.1"

// ExtractClientIP returns the caller's address used to key per-client limits.
// The first valid entry wins: X-Forwarded-For (left-most hop), X-Real-IP, RemoteAddr.
func ExtractClientIP(c *gin.Context) string {
	candidates := make([]string, 0, 3)

	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		candidates = append(candidates, strings.TrimSpace(first))
	}
	candidates = append(candidates, strings.TrimSpace(c.GetHeader("X-Real-IP")))

	// "IP:port" or "[IPv6]:port"
	remote := c.Request.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	candidates = append(candidates, remote)

	for _, ip := range candidates {
		if isValidIP(ip) {
			return ip
		}
	}
	return fallbackIP
}

func isValidIP(ip string) bool {
	return ip != "" && net.ParseIP(ip) != nil
}
