package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetRealIP extracts the client IP address from the request.
//
// Priority order:
// 1. X-Real-IP header, when it holds a public address
// 2. the first public address in X-Forwarded-For
// 3. Gin's ClientIP()
func GetRealIP(c *gin.Context) string {
	realIP := strings.TrimSpace(c.Request.Header.Get("X-Real-IP"))
	if ip := net.ParseIP(realIP); ip != nil && !isPrivateIP(ip) {
		return realIP
	}

	// Format: X-Forwarded-For: client, proxy1, proxy2
	if forwarded := c.Request.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, part := range strings.Split(forwarded, ",") {
			candidate := strings.TrimSpace(part)
			if ip := net.ParseIP(candidate); ip != nil && !isPrivateIP(ip) && !ip.IsLoopback() {
				return candidate
			}
		}
	}

	return c.ClientIP()
}

// isPrivateIP checks if an IP is in a private range
func isPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}

	privateRanges := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
	}

	for _, cidr := range privateRanges {
		_, subnet, _ := net.ParseCIDR(cidr)
		if subnet.Contains(ip) {
			return true
		}
	}

	return false
}
