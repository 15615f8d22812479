package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/cotizador/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// docsCSP replaces the API policy on the swagger UI, which loads its own
// scripts, styles and inline images.
const docsCSP = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"

// DocsConfig controls who may read the API documentation
type DocsConfig struct {
	Enabled     bool
	RequireAuth bool
	AllowedIPs  []string // single addresses or CIDR ranges
}

// DocsGuard protects the swagger UI. A disabled endpoint answers 404 so its
// presence is not revealed; the IP check runs before authentication.
// authenticate is only consulted when RequireAuth is set.
func DocsGuard(cfg DocsConfig, authenticate gin.HandlerFunc) gin.HandlerFunc {
	nets := parseAllowList(cfg.AllowedIPs)

	return func(c *gin.Context) {
		requestID := c.GetString(RequestIDKey)
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeNotFound, "Documentación no disponible", requestID))
			return
		}

		if len(cfg.AllowedIPs) > 0 && !ipAllowed(net.ParseIP(c.ClientIP()), nets) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Acceso a la documentación restringido", requestID))
			return
		}

		if cfg.RequireAuth && authenticate != nil {
			authenticate(c)
			if c.IsAborted() {
				return
			}
		}
		c.Header("Content-Security-Policy", docsCSP)
		c.Next()
	}
}

// parseAllowList turns each entry into a network; bare addresses become
// single-host ranges and unparseable entries are skipped.
func parseAllowList(entries []string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				continue
			}
			if ip.To4() != nil {
				entry += "/32"
			} else {
				entry += "/128"
			}
		}
		if _, network, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, network)
		}
	}
	return nets
}

func ipAllowed(ip net.IP, nets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, network := range nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
