package urlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "removes utm parameters",
			in:   "https://www.amazon.com.br/dp/B0C1?utm_source=ig&utm_medium=story&th=1",
			want: "https://www.amazon.com.br/dp/B0C1?th=1",
		},
		{
			name: "removes click ids and keeps order",
			in:   "https://loja.com/p?b=2&fbclid=abc&a=1&gclid=x&msclkid=y",
			want: "https://loja.com/p?b=2&a=1",
		},
		{
			name: "removes affiliate markers",
			in:   "https://loja.com/p?ref=home&affiliate=foo&aff_id=9&zanpid=1&dclid=2",
			want: "https://loja.com/p",
		},
		{
			name: "keeps fragment",
			in:   "https://loja.com/p?utm_campaign=x#reviews",
			want: "https://loja.com/p#reviews",
		},
		{
			name: "no query is untouched",
			in:   "https://flexform.com.br/produto/1",
			want: "https://flexform.com.br/produto/1",
		},
		{
			name: "keeps affiliate parameters that are not tracking ones",
			in:   "https://www.amazon.com.br/dp/B0C1?tag=setups-20",
			want: "https://www.amazon.com.br/dp/B0C1?tag=setups-20",
		},
		{
			name: "unparseable input is returned as is",
			in:   "http://[::1",
			want: "http://[::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanURL(tt.in))
		})
	}
}

func TestCleanURL_Idempotent(t *testing.T) {
	inputs := []string{
		"https://www.amazon.com.br/dp/B0C1?utm_source=ig&th=1",
		"https://loja.com/p?b=2&fbclid=abc&a=1",
		"https://loja.com/p?",
		"https://loja.com/p?utm_source=x",
		"https://loja.com/busca?q=mesa+gamer&ref=topo",
		"https://loja.com/p?x=%20y&UTM_Medium=z",
		"not a url",
		"http://[::1",
		"",
	}

	for _, in := range inputs {
		once := CleanURL(in)
		assert.Equal(t, once, CleanURL(once), "input %q", in)
	}
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://www.kabum.com.br/produto/1"))
	assert.True(t, IsValidURL("http://loja.com"))
	assert.False(t, IsValidURL("ftp://loja.com/file"))
	assert.False(t, IsValidURL("javascript:alert(1)"))
	assert.False(t, IsValidURL("/relative/path"))
	assert.False(t, IsValidURL("https://"))
	assert.False(t, IsValidURL(""))
}

func TestMakeAbsolute(t *testing.T) {
	tests := []struct {
		name   string
		ref    string
		base   string
		want   string
		wantOK bool
	}{
		{"absolute unchanged", "https://cdn.loja.com/a.jpg", "https://loja.com/p/1", "https://cdn.loja.com/a.jpg", true},
		{"protocol relative", "//cdn.loja.com/a.jpg", "http://loja.com/p/1", "https://cdn.loja.com/a.jpg", true},
		{"root relative", "/img/mesa.jpg", "https://flexform.com.br/produto/1", "https://flexform.com.br/img/mesa.jpg", true},
		{"path relative", "mesa.jpg", "https://flexform.com.br/produto/1", "https://flexform.com.br/produto/mesa.jpg", true},
		{"empty", "", "https://loja.com", "", false},
		{"bad base", "/a.jpg", "::", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MakeAbsolute(tt.ref, tt.base)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveImageURL(t *testing.T) {
	tests := []struct {
		name   string
		ref    string
		want   string
		wantOK bool
	}{
		{"relative", "/img/mesa.jpg", "https://flexform.com.br/img/mesa.jpg", true},
		{"absolute https", "https://cdn.loja.com/a.jpg", "https://cdn.loja.com/a.jpg", true},
		{"javascript scheme", "javascript:alert(1)", "", false},
		{"data uri", "data:image/png;base64,AAAA", "", false},
		{"ftp scheme", "ftp://files.loja.com/a.jpg", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveImageURL(tt.ref, "https://flexform.com.br/produto/1")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "Amazon", ExtractDomain("https://www.amazon.com.br/dp/xyz"))
	assert.Equal(t, "Mercado Livre", ExtractDomain("https://produto.mercadolivre.com.br/MLB-1"))
	assert.Equal(t, "Flexform", ExtractDomain("https://flexform.com.br/produto/1"))
	assert.Equal(t, "", ExtractDomain("not a url"))
}

func TestHostname(t *testing.T) {
	assert.Equal(t, "amazon.com.br", Hostname("https://WWW.Amazon.com.br/dp/1"))
	assert.Equal(t, "checkout.amazon.com.br", Hostname("https://checkout.amazon.com.br/x"))
	assert.Equal(t, "", Hostname("::"))
}

func TestIsPlausibleImageURL(t *testing.T) {
	assert.True(t, IsPlausibleImageURL("https://cdn.loja.com/produtos/mesa.jpg"))
	assert.True(t, IsPlausibleImageURL("https://m.media-amazon.com/images/I/71abc._AC_SL1500_.jpg"))
	assert.True(t, IsPlausibleImageURL("https://images.loja.com/p/12345"))
	assert.False(t, IsPlausibleImageURL("data:image/png;base64,AAAA"))
	assert.False(t, IsPlausibleImageURL("/relative.jpg"))
	assert.False(t, IsPlausibleImageURL("https://loja.com/static/logo.png"))
	assert.False(t, IsPlausibleImageURL("https://loja.com/favicon.ico"))
	assert.False(t, IsPlausibleImageURL("https://loja.com/icon.svg"))
}
