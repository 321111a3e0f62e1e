package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/sirupsen/logrus"
)

// ProductExtractor is the extraction surface used by the handlers
type ProductExtractor interface {
	ExtractProductData(ctx context.Context, url string) domain.ExtractionResult
	ExtractBatch(ctx context.Context, urls []string, concurrency int) domain.BatchResult
}

// AffiliateTransformer rewrites outbound links
type AffiliateTransformer interface {
	TransformToAffiliateURL(ctx context.Context, url string) domain.TransformResult
}

// StoreMatcher recognizes catalog stores by URL
type StoreMatcher interface {
	FindStoreByDomain(rawURL string) *domain.StoreConfig
}

// HandlerConfig bounds batch requests. KnownStores widens the redirect
// allow-list beyond hosts with an active affiliate rule; nil means only
// rule hosts are redirected.
type HandlerConfig struct {
	MaxBatchURLs        int
	MaxBatchConcurrency int
	KnownStores         StoreMatcher
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	extractor   ProductExtractor
	transformer AffiliateTransformer
	invalidator domain.CacheInvalidator
	notifier    domain.UpdateNotifier
	config      HandlerConfig
	logger      logrus.FieldLogger
}

// NewHandler creates a new HTTP handler. notifier may be nil when no
// broadcast channel is configured.
func NewHandler(
	extractor ProductExtractor,
	transformer AffiliateTransformer,
	invalidator domain.CacheInvalidator,
	notifier domain.UpdateNotifier,
	config HandlerConfig,
	logger logrus.FieldLogger,
) *Handler {
	if config.MaxBatchURLs <= 0 {
		config.MaxBatchURLs = 50
	}
	if config.MaxBatchConcurrency <= 0 {
		config.MaxBatchConcurrency = 4
	}
	return &Handler{
		extractor:   extractor,
		transformer: transformer,
		invalidator: invalidator,
		notifier:    notifier,
		config:      config,
		logger:      logger.WithField("component", "http"),
	}
}

// ExtractRequest is the body of a single extraction call
type ExtractRequest struct {
	URL string `json:"url" binding:"required"`
}

// BatchExtractRequest is the body of a batch extraction call
type BatchExtractRequest struct {
	URLs        []string `json:"urls" binding:"required"`
	Concurrency int      `json:"concurrency"`
}

// TransformRequest is the body of an affiliate transform call
type TransformRequest struct {
	URL string `json:"url" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "linkengine",
		"version": "1.0.0",
	})
}

// ExtractProduct extracts product data from one URL. Extraction failures are
// reported in the result body with status 200.
func (h *Handler) ExtractProduct(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido: informe o campo url"})
		return
	}

	result := h.extractor.ExtractProductData(c.Request.Context(), strings.TrimSpace(req.URL))
	if !result.Success {
		h.requestLogger(c).WithFields(logrus.Fields{
			"error_kind": result.ErrorKind,
			"retryable":  result.ErrorKind.Retryable(),
		}).Info("extraction failed")
	}

	c.JSON(http.StatusOK, result)
}

// ExtractBatch extracts several URLs with a bounded worker pool
func (h *Handler) ExtractBatch(c *gin.Context) {
	var req BatchExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido: informe o campo urls"})
		return
	}
	if len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Informe ao menos uma URL"})
		return
	}
	if len(req.URLs) > h.config.MaxBatchURLs {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Muitas URLs no lote",
			"maxUrls": h.config.MaxBatchURLs,
		})
		return
	}

	concurrency := req.Concurrency
	if concurrency <= 0 || concurrency > h.config.MaxBatchConcurrency {
		concurrency = h.config.MaxBatchConcurrency
	}

	urls := make([]string, len(req.URLs))
	for i, u := range req.URLs {
		urls[i] = strings.TrimSpace(u)
	}

	c.JSON(http.StatusOK, h.extractor.ExtractBatch(c.Request.Context(), urls, concurrency))
}

// TransformAffiliateURL returns the monetized form of a URL
func (h *Handler) TransformAffiliateURL(c *gin.Context) {
	var req TransformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido: informe o campo url"})
		return
	}

	c.JSON(http.StatusOK, h.transformer.TransformToAffiliateURL(c.Request.Context(), strings.TrimSpace(req.URL)))
}

// RedirectAffiliate transforms the url query parameter at click time and
// redirects to the result
func (h *Handler) RedirectAffiliate(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parâmetro url obrigatório"})
		return
	}

	result := h.transformer.TransformToAffiliateURL(c.Request.Context(), rawURL)
	if result.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": *result.Error})
		return
	}
	if !h.isRedirectAllowed(result) {
		h.requestLogger(c).WithField("url", rawURL).Warn("redirect to unknown store refused")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Loja não reconhecida"})
		return
	}

	h.requestLogger(c).WithFields(logrus.Fields{
		"store_key":       derefString(result.StoreKey),
		"was_transformed": result.WasTransformed,
	}).Debug("affiliate redirect")

	c.Redirect(http.StatusFound, result.TransformedURL)
}

func (h *Handler) isRedirectAllowed(result domain.TransformResult) bool {
	if result.StoreKey != nil {
		return true
	}
	return h.config.KnownStores != nil && h.config.KnownStores.FindStoreByDomain(result.TransformedURL) != nil
}

// InvalidateAffiliateCache drops the local config snapshot and announces the
// change to other instances
func (h *Handler) InvalidateAffiliateCache(c *gin.Context) {
	h.invalidator.InvalidateCache()

	broadcast := false
	if h.notifier != nil {
		if err := h.notifier.NotifyUpdate(c.Request.Context()); err != nil {
			h.requestLogger(c).WithError(err).Warn("failed to broadcast affiliate config update")
		} else {
			broadcast = true
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"invalidated": true,
		"broadcast":   broadcast,
	})
}

func (h *Handler) requestLogger(c *gin.Context) logrus.FieldLogger {
	return h.logger.WithField("request_id", c.GetString(requestIDKey))
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
