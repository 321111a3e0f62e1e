package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/setupscatalog/linkengine/internal/stores"
	"github.com/setupscatalog/linkengine/internal/urlutil"
	"github.com/sirupsen/logrus"
)

// AffiliateService rewrites outbound product links into affiliate links at
// read time, using the active per-store rules.
type AffiliateService struct {
	configs domain.AffiliateConfigProvider
	logger  logrus.FieldLogger
}

// NewAffiliateService creates a new affiliate service backed by a config provider
func NewAffiliateService(configs domain.AffiliateConfigProvider, logger logrus.FieldLogger) *AffiliateService {
	return &AffiliateService{
		configs: configs,
		logger:  logger.WithField("component", "affiliate"),
	}
}

// TransformToAffiliateURL loads the active rules and applies the first one
// matching the URL host. If the rules cannot be loaded the cleaned URL is
// returned untransformed.
func (s *AffiliateService) TransformToAffiliateURL(ctx context.Context, rawURL string) domain.TransformResult {
	configs, err := s.configs.GetActiveConfigs(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("affiliate configs unavailable, links will not be transformed")
		configs = nil
	}

	result := TransformWithConfigs(rawURL, configs)
	if result.WasTransformed {
		s.logger.WithFields(logrus.Fields{
			"store_key": derefString(result.StoreKey),
			"url":       result.OriginalURL,
		}).Debug("affiliate link applied")
	}
	return result
}

// TransformWithConfigs is the synchronous transform over a pre-fetched rule
// list. Inactive rules are ignored.
//
// Flow: validate -> clean -> match host -> check code -> apply strategy
func TransformWithConfigs(rawURL string, configs []domain.AffiliateConfig) domain.TransformResult {
	rawURL = strings.TrimSpace(rawURL)
	if !urlutil.IsValidURL(rawURL) {
		msg := msgInvalidURL
		return domain.TransformResult{
			OriginalURL:    rawURL,
			TransformedURL: rawURL,
			Error:          &msg,
		}
	}

	cleanedURL := urlutil.CleanURL(rawURL)
	result := domain.TransformResult{
		OriginalURL:    rawURL,
		TransformedURL: cleanedURL,
	}

	config := findAffiliateConfig(urlutil.Hostname(cleanedURL), configs)
	if config == nil {
		return result
	}

	storeKey, storeName := config.StoreKey, config.StoreName
	result.StoreKey = &storeKey
	result.StoreName = &storeName

	if !config.Actionable() {
		return result
	}

	transformed, err := applyStrategy(cleanedURL, *config)
	if err != nil {
		return result
	}

	result.TransformedURL = transformed
	result.WasTransformed = transformed != cleanedURL
	return result
}

// findAffiliateConfig returns the first active config with a domain matching
// host, scanning each config's domains in order.
func findAffiliateConfig(host string, configs []domain.AffiliateConfig) *domain.AffiliateConfig {
	if host == "" {
		return nil
	}
	for i := range configs {
		if !configs[i].IsActive {
			continue
		}
		for _, pattern := range configs[i].Domains {
			if stores.MatchesDomain(host, pattern) {
				return &configs[i]
			}
		}
	}
	return nil
}

// applyStrategy rewrites cleanedURL with the config's strategy. Panics from
// malformed input are turned into ErrStrategyFailed.
func applyStrategy(cleanedURL string, config domain.AffiliateConfig) (transformed string, err error) {
	defer func() {
		if r := recover(); r != nil {
			transformed = ""
			err = fmt.Errorf("%w: %v", domain.ErrStrategyFailed, r)
		}
	}()

	code := derefString(config.AffiliateCode)

	switch config.AffiliateType {
	case domain.AffiliateParameter:
		return applyParameter(cleanedURL, derefString(config.AffiliateParam), code)
	case domain.AffiliateRedirect:
		return applyRedirect(cleanedURL, derefString(config.RedirectTemplate), code)
	case domain.AffiliateReplace:
		// not implemented yet; links pass through unchanged
		return cleanedURL, nil
	default:
		return "", fmt.Errorf("%w: unknown affiliate type %q", domain.ErrStrategyFailed, config.AffiliateType)
	}
}

// applyParameter drops any existing occurrence of param and appends
// param=code, keeping the order of the other query parameters.
func applyParameter(cleanedURL, param, code string) (string, error) {
	if param == "" {
		return "", fmt.Errorf("%w: parameter strategy without affiliate param", domain.ErrStrategyFailed)
	}

	u, err := url.Parse(cleanedURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStrategyFailed, err)
	}

	var kept []string
	if u.RawQuery != "" {
		for _, pair := range strings.Split(u.RawQuery, "&") {
			if pair == "" {
				continue
			}
			key, _, _ := strings.Cut(pair, "=")
			if decoded, err := url.QueryUnescape(key); err == nil {
				key = decoded
			}
			if key == param {
				continue
			}
			kept = append(kept, pair)
		}
	}
	kept = append(kept, url.QueryEscape(param)+"="+url.QueryEscape(code))
	u.RawQuery = strings.Join(kept, "&")

	return u.String(), nil
}

// componentUnescaper undoes the QueryEscape cases that differ from
// ECMAScript encodeURIComponent, which redirect networks expect.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent percent-encodes s like encodeURIComponent
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// applyRedirect fills every {{URL}} and {{CODE}} placeholder in template
func applyRedirect(cleanedURL, template, code string) (string, error) {
	if template == "" {
		return "", fmt.Errorf("%w: redirect strategy without template", domain.ErrStrategyFailed)
	}

	out := strings.ReplaceAll(template, domain.PlaceholderURL, escapeComponent(cleanedURL))
	out = strings.ReplaceAll(out, domain.PlaceholderCode, code)

	if !urlutil.IsValidURL(out) {
		return "", fmt.Errorf("%w: redirect template produced an invalid URL", domain.ErrStrategyFailed)
	}
	return out, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
