package homepage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/fca-fines-api/internal/models"
)

const timeoutDuration = 10 * time.Second

type statsProvider interface {
	Homepage(ctx context.Context) (models.HomepageStats, error)
}

type Handler struct {
	Service      statsProvider
	cacheControl string
	log          *zap.Logger
}

// NewHandler builds the stats handler. sharedMaxAge applies to CDNs and other
// shared caches, browserMaxAge to the browser.
func NewHandler(svc statsProvider, sharedMaxAge, browserMaxAge int, l *zap.Logger) *Handler {
	return &Handler{
		Service:      svc,
		cacheControl: fmt.Sprintf("public, s-maxage=%d, max-age=%d", sharedMaxAge, browserMaxAge),
		log:          l.With(zap.String("component", "HomepageHandler")),
	}
}

// Stats
// @Summary Homepage statistics
// @Description Totals, year range, year-over-year change and the ten latest fines.
// @Tags homepage
// @Produce json
// @Success 200 {object} models.HomepageStats
// @Failure 405
// @Failure 500
// @Router /homepage/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	stats, err := h.Service.Homepage(ctx)
	if err != nil {
		h.log.Error("failed to fetch homepage stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch homepage statistics"})
		return
	}

	c.Header("Cache-Control", h.cacheControl)
	c.JSON(http.StatusOK, stats)
}
