package digest

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/fca-fines-api/internal/models"
)

const timeoutDuration = 10 * time.Second

type verifier interface {
	Verify(ctx context.Context, token string) (models.VerificationResult, error)
}

type Handler struct {
	Service verifier
	base    url.URL
	log     *zap.Logger
}

// NewHandler builds the verification handler. Redirect parameters are
// appended to any query baseURL already carries.
func NewHandler(svc verifier, baseURL string, l *zap.Logger) *Handler {
	log := l.With(zap.String("component", "DigestHandler"))

	base, err := url.Parse(baseURL)
	if err != nil {
		log.Error("invalid base url, redirecting to site root", zap.String("base_url", baseURL), zap.Error(err))
		base = &url.URL{Path: "/"}
	}

	return &Handler{
		Service: svc,
		base:    *base,
		log:     log,
	}
}

// Verify
// @Summary Verify digest subscription
// @Description Consumes the email verification token and redirects to the site with the result.
// @Tags digest
// @Param token path string true "Verification token"
// @Success 302
// @Router /digest/verify/{token} [get]
func (h *Handler) Verify(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		token = c.Query("token")
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	res, err := h.Service.Verify(ctx, token)
	if err != nil {
		h.log.Error("digest verification failed", zap.Error(err))
		c.Redirect(http.StatusFound, h.errorURL(models.OutcomeVerificationFailed))
		return
	}
	if res.Outcome != models.OutcomeVerified {
		c.Redirect(http.StatusFound, h.errorURL(res.Outcome))
		return
	}

	c.Redirect(http.StatusFound, h.successURL(res.Subscription))
}

func (h *Handler) errorURL(outcome models.VerificationOutcome) string {
	return h.redirectURL("error", string(outcome))
}

func (h *Handler) successURL(sub models.DigestSubscription) string {
	return h.redirectURL(
		"verified", "digest",
		"email", sub.Email,
		"frequency", string(sub.Frequency),
	)
}

// redirectURL appends key/value pairs to the base query in the given order.
func (h *Handler) redirectURL(kv ...string) string {
	u := h.base

	var b strings.Builder
	b.WriteString(u.RawQuery)
	for i := 0; i+1 < len(kv); i += 2 {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv[i]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv[i+1]))
	}
	u.RawQuery = b.String()

	return u.String()
}
