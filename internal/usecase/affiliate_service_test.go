package usecase

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockConfigProvider is a mock implementation of domain.AffiliateConfigProvider
type MockConfigProvider struct {
	mock.Mock
}

func (m *MockConfigProvider) GetActiveConfigs(ctx context.Context) ([]domain.AffiliateConfig, error) {
	args := m.Called(ctx)
	configs, _ := args.Get(0).([]domain.AffiliateConfig)
	return configs, args.Error(1)
}

func strPtr(s string) *string { return &s }

func amazonParamConfig() domain.AffiliateConfig {
	return domain.AffiliateConfig{
		StoreKey:       "amazon",
		StoreName:      "Amazon Brasil",
		Domains:        []string{"amazon.com.br"},
		AffiliateType:  domain.AffiliateParameter,
		AffiliateParam: strPtr("tag"),
		AffiliateCode:  strPtr("setups-20"),
		IsActive:       true,
	}
}

func redirectConfig() domain.AffiliateConfig {
	return domain.AffiliateConfig{
		StoreKey:         "store",
		StoreName:        "Store",
		Domains:          []string{"store.com"},
		AffiliateType:    domain.AffiliateRedirect,
		AffiliateCode:    strPtr("XYZ"),
		RedirectTemplate: strPtr("https://r.example/?u={{URL}}&c={{CODE}}"),
		IsActive:         true,
	}
}

func TestTransformWithConfigs_Redirect(t *testing.T) {
	result := TransformWithConfigs("https://store.com/p/1", []domain.AffiliateConfig{redirectConfig()})

	assert.Equal(t, "https://r.example/?u=https%3A%2F%2Fstore.com%2Fp%2F1&c=XYZ", result.TransformedURL)
	assert.True(t, result.WasTransformed)
	require.NotNil(t, result.StoreKey)
	assert.Equal(t, "store", *result.StoreKey)
	assert.Nil(t, result.Error)
}

func TestEscapeComponent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"reserved characters", "https://store.com/p/1?a=b&c=d", "https%3A%2F%2Fstore.com%2Fp%2F1%3Fa%3Db%26c%3Dd"},
		{"space as %20", "mesa preta", "mesa%20preta"},
		{"marks left alone", "cadeira(preta)!*'~", "cadeira(preta)!*'~"},
		{"literal plus", "a+b", "a%2Bb"},
		{"utf-8", "ação", "a%C3%A7%C3%A3o"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeComponent(tt.in))
		})
	}
}

func TestApplyRedirect_ComponentEscaping(t *testing.T) {
	got, err := applyRedirect("https://store.com/p/mesa(preta)?q=a b", "https://r.example/?u={{URL}}&c={{CODE}}", "abc")

	require.NoError(t, err)
	assert.Equal(t, "https://r.example/?u=https%3A%2F%2Fstore.com%2Fp%2Fmesa(preta)%3Fq%3Da%20b&c=abc", got)
}

func TestTransformWithConfigs_RedirectReplacesEveryPlaceholder(t *testing.T) {
	config := redirectConfig()
	config.RedirectTemplate = strPtr("https://r.example/{{CODE}}/go?u={{URL}}&back={{URL}}&c={{CODE}}")

	result := TransformWithConfigs("https://store.com/p/1?cor=azul", []domain.AffiliateConfig{config})

	assert.Equal(t,
		"https://r.example/XYZ/go?u=https%3A%2F%2Fstore.com%2Fp%2F1%3Fcor%3Dazul&back=https%3A%2F%2Fstore.com%2Fp%2F1%3Fcor%3Dazul&c=XYZ",
		result.TransformedURL,
	)
}

func TestTransformWithConfigs_ParameterIsIdempotent(t *testing.T) {
	configs := []domain.AffiliateConfig{amazonParamConfig()}

	once := TransformWithConfigs("https://www.amazon.com.br/dp/B0TEST?th=1&tag=someone-else-20", configs)
	twice := TransformWithConfigs(once.TransformedURL, configs)

	assert.Equal(t, "https://www.amazon.com.br/dp/B0TEST?th=1&tag=setups-20", once.TransformedURL)
	assert.True(t, once.WasTransformed)
	assert.Equal(t, once.TransformedURL, twice.TransformedURL)
	assert.False(t, twice.WasTransformed)
}

func TestTransformWithConfigs_ParameterStripsTracking(t *testing.T) {
	result := TransformWithConfigs(
		"https://www.amazon.com.br/dp/B0TEST?utm_source=ig&ref=sr_1",
		[]domain.AffiliateConfig{amazonParamConfig()},
	)

	assert.Equal(t, "https://www.amazon.com.br/dp/B0TEST?tag=setups-20", result.TransformedURL)
	assert.Equal(t, "https://www.amazon.com.br/dp/B0TEST?utm_source=ig&ref=sr_1", result.OriginalURL)
}

func TestTransformWithConfigs_SubdomainMatch(t *testing.T) {
	result := TransformWithConfigs("https://produto.amazon.com.br/x", []domain.AffiliateConfig{amazonParamConfig()})

	assert.True(t, result.WasTransformed)
	assert.Equal(t, "https://produto.amazon.com.br/x?tag=setups-20", result.TransformedURL)
}

func TestTransformWithConfigs_NoOps(t *testing.T) {
	codeless := amazonParamConfig()
	codeless.AffiliateCode = nil

	replace := redirectConfig()
	replace.AffiliateType = domain.AffiliateReplace

	missingParam := amazonParamConfig()
	missingParam.AffiliateParam = nil

	badTemplate := redirectConfig()
	badTemplate.RedirectTemplate = strPtr("{{URL}}")

	inactive := amazonParamConfig()
	inactive.IsActive = false

	tests := []struct {
		name         string
		url          string
		configs      []domain.AffiliateConfig
		wantURL      string
		wantStoreKey *string
	}{
		{
			name:    "no matching store",
			url:     "https://notamazon.com/p?utm_medium=x",
			configs: []domain.AffiliateConfig{amazonParamConfig()},
			wantURL: "https://notamazon.com/p",
		},
		{
			name:         "active but codeless",
			url:          "https://www.amazon.com.br/dp/B0TEST",
			configs:      []domain.AffiliateConfig{codeless},
			wantURL:      "https://www.amazon.com.br/dp/B0TEST",
			wantStoreKey: strPtr("amazon"),
		},
		{
			name:         "replace passes through",
			url:          "https://store.com/p/1",
			configs:      []domain.AffiliateConfig{replace},
			wantURL:      "https://store.com/p/1",
			wantStoreKey: strPtr("store"),
		},
		{
			name:         "parameter without param name degrades",
			url:          "https://www.amazon.com.br/dp/B0TEST",
			configs:      []domain.AffiliateConfig{missingParam},
			wantURL:      "https://www.amazon.com.br/dp/B0TEST",
			wantStoreKey: strPtr("amazon"),
		},
		{
			name:         "template yielding invalid url degrades",
			url:          "https://store.com/p/1",
			configs:      []domain.AffiliateConfig{badTemplate},
			wantURL:      "https://store.com/p/1",
			wantStoreKey: strPtr("store"),
		},
		{
			name:    "inactive config ignored",
			url:     "https://www.amazon.com.br/dp/B0TEST",
			configs: []domain.AffiliateConfig{inactive},
			wantURL: "https://www.amazon.com.br/dp/B0TEST",
		},
		{
			name:    "no configs",
			url:     "https://www.amazon.com.br/dp/B0TEST",
			wantURL: "https://www.amazon.com.br/dp/B0TEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TransformWithConfigs(tt.url, tt.configs)

			assert.False(t, result.WasTransformed)
			assert.Equal(t, tt.wantURL, result.TransformedURL)
			assert.Equal(t, tt.wantStoreKey, result.StoreKey)
			assert.Nil(t, result.Error)
		})
	}
}

func TestTransformWithConfigs_InvalidURL(t *testing.T) {
	result := TransformWithConfigs("not a url", []domain.AffiliateConfig{amazonParamConfig()})

	require.NotNil(t, result.Error)
	assert.Equal(t, "URL inválida", *result.Error)
	assert.Equal(t, "not a url", result.TransformedURL)
	assert.Equal(t, "not a url", result.OriginalURL)
	assert.False(t, result.WasTransformed)
}

func TestTransformWithConfigs_FirstMatchingConfigWins(t *testing.T) {
	second := amazonParamConfig()
	second.StoreKey = "amazon-alt"
	second.AffiliateCode = strPtr("alt-20")

	result := TransformWithConfigs("https://amazon.com.br/dp/1", []domain.AffiliateConfig{amazonParamConfig(), second})

	require.NotNil(t, result.StoreKey)
	assert.Equal(t, "amazon", *result.StoreKey)
	assert.Equal(t, "https://amazon.com.br/dp/1?tag=setups-20", result.TransformedURL)
}

func newTestAffiliateService(provider domain.AffiliateConfigProvider) *AffiliateService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewAffiliateService(provider, logger)
}

func TestAffiliateService_TransformToAffiliateURL(t *testing.T) {
	provider := new(MockConfigProvider)
	provider.On("GetActiveConfigs", mock.Anything).Return([]domain.AffiliateConfig{amazonParamConfig()}, nil)

	svc := newTestAffiliateService(provider)
	result := svc.TransformToAffiliateURL(context.Background(), "https://www.amazon.com.br/dp/B0TEST")

	assert.True(t, result.WasTransformed)
	assert.Equal(t, "https://www.amazon.com.br/dp/B0TEST?tag=setups-20", result.TransformedURL)
	provider.AssertExpectations(t)
}

func TestAffiliateService_ProviderFailureDegrades(t *testing.T) {
	provider := new(MockConfigProvider)
	provider.On("GetActiveConfigs", mock.Anything).Return(nil, errors.New("store unavailable"))

	svc := newTestAffiliateService(provider)
	result := svc.TransformToAffiliateURL(context.Background(), "https://www.amazon.com.br/dp/B0TEST?fbclid=1")

	assert.False(t, result.WasTransformed)
	assert.Equal(t, "https://www.amazon.com.br/dp/B0TEST", result.TransformedURL)
	assert.Nil(t, result.Error)
	provider.AssertExpectations(t)
}
