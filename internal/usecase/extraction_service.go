package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/setupscatalog/linkengine/internal/htmlparse"
	"github.com/setupscatalog/linkengine/internal/stores"
	"github.com/setupscatalog/linkengine/internal/urlutil"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// User-facing failure messages
const (
	msgInvalidURL         = "URL inválida"
	msgFetchTimeout       = "Tempo limite excedido ao acessar a página"
	msgNetworkError       = "Erro de rede ao acessar a página"
	msgNonSuccessResponse = "A página retornou status %d"
	msgErrorStatus        = "A página retornou um status de erro"
	msgEmptyOrInvalidBody = "A página retornou conteúdo vazio ou inválido"
	msgBlockedByAntiBot   = "O site bloqueou a extração automática"
	msgNoNameExtracted    = "Não foi possível extrair o nome do produto"
	msgInvalidProductName = "Não foi possível identificar o produto"
)

const (
	defaultMinBodyBytes     = 100
	defaultBatchConcurrency = 4
)

// ExtractionServiceConfig holds configuration for the extraction service
type ExtractionServiceConfig struct {
	MinBodyBytes     int
	BatchConcurrency int
}

// ExtractionService turns product page URLs into normalized product records
type ExtractionService struct {
	fetcher          domain.PageFetcher
	registry         *stores.Registry
	logger           logrus.FieldLogger
	minBodyBytes     int
	batchConcurrency int
	now              func() time.Time
	newBatchID       func() string
}

// NewExtractionService creates a new extraction service with dependencies
func NewExtractionService(
	fetcher domain.PageFetcher,
	registry *stores.Registry,
	logger logrus.FieldLogger,
	config ExtractionServiceConfig,
) *ExtractionService {
	if registry == nil {
		registry = stores.Default()
	}

	minBody := config.MinBodyBytes
	if minBody <= 0 {
		minBody = defaultMinBodyBytes
	}

	concurrency := config.BatchConcurrency
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}

	return &ExtractionService{
		fetcher:          fetcher,
		registry:         registry,
		logger:           logger.WithField("component", "extraction"),
		minBodyBytes:     minBody,
		batchConcurrency: concurrency,
		now:              time.Now,
		newBatchID:       uuid.NewString,
	}
}

// ExtractProductData fetches a product page and extracts its name, price,
// image and store. Every outcome is returned as a result value; failures
// carry whatever store data was known at that point.
//
// Flow: validate -> clean -> fetch -> check response -> parse -> merge -> validate name
func (s *ExtractionService) ExtractProductData(ctx context.Context, rawURL string) domain.ExtractionResult {
	rawURL = strings.TrimSpace(rawURL)
	if !urlutil.IsValidURL(rawURL) {
		return failure(domain.KindInvalidURL, msgInvalidURL, nil)
	}

	cleanedURL := urlutil.CleanURL(rawURL)
	storeData := s.storePartial(cleanedURL)
	log := s.logger.WithField("url", cleanedURL)

	page, err := s.fetcher.Fetch(ctx, cleanedURL)
	if err != nil {
		kind, message := classifyFetchError(err)
		log.WithError(err).WithField("kind", kind).Warn("page fetch failed")
		return failure(kind, message, storeData)
	}

	if kind, message, ok := s.checkResponse(page); !ok {
		log.WithField("kind", kind).WithField("status", page.StatusCode).Warn("unusable page response")
		return failure(kind, message, storeData)
	}

	if IsBlockedPage(page.Body) {
		log.Info("page blocked by anti-bot protection")
		return failure(domain.KindBlockedByAntiBot, msgBlockedByAntiBot, storeData)
	}

	baseURL := cleanedURL
	if page.FinalURL != "" {
		baseURL = page.FinalURL
	}

	merged, err := parsePage(page.Body, baseURL)
	if err != nil {
		log.WithError(err).Warn("failed to parse page")
		return failure(domain.KindEmptyOrInvalidBody, msgEmptyOrInvalidBody, storeData)
	}

	partial := withMerged(storeData, merged)

	if merged.Name == "" {
		log.Info("no product name extracted")
		return failure(domain.KindNoNameExtracted, msgNoNameExtracted, partial)
	}

	if !IsValidProductName(merged.Name) {
		log.WithField("name", merged.Name).Info("extracted name is not a product")
		return failure(domain.KindInvalidProductName, msgInvalidProductName, partial)
	}

	product := &domain.ExtractedProduct{
		Name:             merged.Name,
		Store:            storeData.Store,
		StoreName:        storeData.StoreName,
		StoreReliability: storeData.StoreReliability,
		OriginalURL:      cleanedURL,
	}
	if merged.Price != nil {
		formatted, value := merged.Price.Formatted, merged.Price.Value
		capturedAt := s.now()
		product.Price = &formatted
		product.PriceValue = &value
		product.PriceCapturedAt = &capturedAt
	}
	if merged.Image != "" {
		image := merged.Image
		product.Image = &image
	}

	log.WithField("name", product.Name).Debug("product extracted")
	return domain.ExtractionResult{Success: true, Data: product}
}

// ExtractBatch extracts every URL with at most concurrency fetches in flight.
// Items keep the input order. A non-positive concurrency uses the configured
// default.
func (s *ExtractionService) ExtractBatch(ctx context.Context, urls []string, concurrency int) domain.BatchResult {
	if concurrency <= 0 {
		concurrency = s.batchConcurrency
	}

	items := make([]domain.BatchItem, len(urls))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			items[i] = domain.BatchItem{URL: u, Result: s.ExtractProductData(ctx, u)}
			return nil
		})
	}
	_ = g.Wait()

	batchID := s.newBatchID()
	s.logger.WithFields(logrus.Fields{
		"batch_id":    batchID,
		"urls":        len(urls),
		"concurrency": concurrency,
	}).Info("batch extraction finished")

	return domain.BatchResult{BatchID: batchID, Items: items}
}

// checkResponse validates status and body of a fetched page
func (s *ExtractionService) checkResponse(page *domain.FetchedPage) (domain.ExtractionErrorKind, string, bool) {
	if page.StatusCode != 0 && (page.StatusCode < 200 || page.StatusCode > 299) {
		return domain.KindNonSuccessResponse, fmt.Sprintf(msgNonSuccessResponse, page.StatusCode), false
	}
	if len(strings.TrimSpace(page.Body)) < s.minBodyBytes {
		return domain.KindEmptyOrInvalidBody, msgEmptyOrInvalidBody, false
	}
	return "", "", true
}

// storePartial is the store identity known before the page is parsed
func (s *ExtractionService) storePartial(cleanedURL string) *domain.PartialData {
	return &domain.PartialData{
		Store:            urlutil.ExtractDomain(cleanedURL),
		StoreName:        s.registry.GetStoreName(cleanedURL),
		StoreReliability: s.registry.GetReliability(cleanedURL),
		OriginalURL:      cleanedURL,
	}
}

// parsePage runs the three parsers and the price scraper, then merges them
func parsePage(body, baseURL string) (MergedProduct, error) {
	doc, err := htmlparse.LoadDocument(body)
	if err != nil {
		return MergedProduct{}, err
	}

	return Merge(
		htmlparse.ParseJSONLD(doc, baseURL),
		htmlparse.ParseOpenGraph(doc, baseURL),
		htmlparse.ParseFallback(doc, baseURL),
		htmlparse.ScrapePrice(body),
	), nil
}

// withMerged copies the store partial and adds the merged fields
func withMerged(storeData *domain.PartialData, merged MergedProduct) *domain.PartialData {
	partial := *storeData
	partial.Name = merged.Name
	if merged.Price != nil {
		formatted, value := merged.Price.Formatted, merged.Price.Value
		partial.Price = &formatted
		partial.PriceValue = &value
	}
	if merged.Image != "" {
		image := merged.Image
		partial.Image = &image
	}
	return &partial
}

// classifyFetchError maps fetcher errors to the extraction taxonomy
func classifyFetchError(err error) (domain.ExtractionErrorKind, string) {
	var statusErr *domain.StatusError
	switch {
	case errors.Is(err, domain.ErrFetchTimeout), errors.Is(err, context.DeadlineExceeded):
		return domain.KindFetchTimeout, msgFetchTimeout
	case errors.As(err, &statusErr):
		return domain.KindNonSuccessResponse, fmt.Sprintf(msgNonSuccessResponse, statusErr.StatusCode)
	case errors.Is(err, domain.ErrNonSuccessResponse):
		return domain.KindNonSuccessResponse, msgErrorStatus
	case errors.Is(err, domain.ErrEmptyOrInvalidBody):
		return domain.KindEmptyOrInvalidBody, msgEmptyOrInvalidBody
	case errors.Is(err, domain.ErrInvalidURL):
		return domain.KindInvalidURL, msgInvalidURL
	default:
		return domain.KindNetworkError, msgNetworkError
	}
}

func failure(kind domain.ExtractionErrorKind, message string, partial *domain.PartialData) domain.ExtractionResult {
	return domain.ExtractionResult{
		Success:     false,
		Error:       message,
		ErrorKind:   kind,
		PartialData: partial,
	}
}
