package middleware

import (
	"log/slog"
	"slices"
	"strings"

	"pos-checkout/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Terminals send and read these on every checkout, whatever the configured lists say.
var (
	checkoutRequestHeaders  = []string{"Authorization", "Content-Type", "Idempotency-Key", headerRequestID}
	checkoutResponseHeaders = []string{"Location", "Idempotent-Replayed", headerRequestID}
)

func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     mergeHeaders(cfg.AllowHeaders, checkoutRequestHeaders),
		ExposeHeaders:    mergeHeaders(cfg.ExposeHeaders, checkoutResponseHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized",
		"allow_origins", cfg.AllowOrigins,
		"expose_headers", corsCfg.ExposeHeaders)
	return cors.New(corsCfg)
}

// mergeHeaders appends the required headers missing from configured, ignoring case.
func mergeHeaders(configured, required []string) []string {
	out := append([]string(nil), configured...)
	for _, h := range required {
		if !slices.ContainsFunc(out, func(c string) bool { return strings.EqualFold(c, h) }) {
			out = append(out, h)
		}
	}
	return out
}
