package stores

import "github.com/setupscatalog/linkengine/internal/domain"

// defaultStores is ordered: the first matching entry wins.
var defaultStores = []domain.StoreConfig{
	// Marketplaces (BR)
	{Name: "Amazon Brasil", Domains: []string{"amazon.com.br"}, Country: domain.CountryBR, Category: "marketplace", Reliability: domain.ReliabilityMedium},
	{Name: "Mercado Livre", Domains: []string{"mercadolivre.com.br", "produto.mercadolivre.com.br"}, Country: domain.CountryBR, Category: "marketplace", Reliability: domain.ReliabilityMedium},
	{Name: "Magazine Luiza", Domains: []string{"magazineluiza.com.br", "magalu.com.br"}, Country: domain.CountryBR, Category: "marketplace", Reliability: domain.ReliabilityHigh},
	{Name: "Americanas", Domains: []string{"americanas.com.br"}, Country: domain.CountryBR, Category: "marketplace", Reliability: domain.ReliabilityMedium},
	{Name: "Submarino", Domains: []string{"submarino.com.br"}, Country: domain.CountryBR, Category: "marketplace", Reliability: domain.ReliabilityMedium},
	{Name: "Casas Bahia", Domains: []string{"casasbahia.com.br"}, Country: domain.CountryBR, Category: "marketplace", Reliability: domain.ReliabilityLow},
	{Name: "Shopee", Domains: []string{"shopee.com.br"}, Country: domain.CountryBR, Category: "marketplace", Reliability: domain.ReliabilityLow},

	// Hardware & electronics (BR)
	{Name: "KaBuM!", Domains: []string{"kabum.com.br"}, Country: domain.CountryBR, Category: "hardware", Reliability: domain.ReliabilityHigh},
	{Name: "Pichau", Domains: []string{"pichau.com.br"}, Country: domain.CountryBR, Category: "hardware", Reliability: domain.ReliabilityMedium},
	{Name: "Terabyte", Domains: []string{"terabyteshop.com.br"}, Country: domain.CountryBR, Category: "hardware", Reliability: domain.ReliabilityMedium},
	{Name: "Fast Shop", Domains: []string{"fastshop.com.br"}, Country: domain.CountryBR, Category: "electronics", Reliability: domain.ReliabilityMedium},

	// Brand stores. Regional paths come before the global domain of the
	// same brand; both match on the domain alone.
	{Name: "Logitech Brasil", Domains: []string{"logitech.com/pt-br", "logitechg.com/pt-br"}, Country: domain.CountryBR, Category: "peripherals", Reliability: domain.ReliabilityHigh},
	{Name: "Dell Brasil", Domains: []string{"dell.com/pt-br"}, Country: domain.CountryBR, Category: "computers", Reliability: domain.ReliabilityMedium},
	{Name: "Samsung Brasil", Domains: []string{"samsung.com/br"}, Country: domain.CountryBR, Category: "electronics", Reliability: domain.ReliabilityMedium},
	{Name: "Apple Brasil", Domains: []string{"apple.com/br"}, Country: domain.CountryBR, Category: "computers", Reliability: domain.ReliabilityHigh},
	{Name: "Apple", Domains: []string{"apple.com"}, Country: domain.CountryUS, Category: "computers", Reliability: domain.ReliabilityHigh},

	// Furniture & decor (BR)
	{Name: "Flexform", Domains: []string{"flexform.com.br"}, Country: domain.CountryBR, Category: "furniture", Reliability: domain.ReliabilityHigh},
	{Name: "Tok&Stok", Domains: []string{"tokstok.com.br"}, Country: domain.CountryBR, Category: "furniture", Reliability: domain.ReliabilityMedium},
	{Name: "Mobly", Domains: []string{"mobly.com.br"}, Country: domain.CountryBR, Category: "furniture", Reliability: domain.ReliabilityMedium},
	{Name: "MadeiraMadeira", Domains: []string{"madeiramadeira.com.br"}, Country: domain.CountryBR, Category: "furniture", Reliability: domain.ReliabilityMedium},
	{Name: "Leroy Merlin", Domains: []string{"leroymerlin.com.br"}, Country: domain.CountryBR, Category: "home", Reliability: domain.ReliabilityMedium},

	// US
	{Name: "Amazon US", Domains: []string{"amazon.com"}, Country: domain.CountryUS, Category: "marketplace", Reliability: domain.ReliabilityMedium},
	{Name: "Best Buy", Domains: []string{"bestbuy.com"}, Country: domain.CountryUS, Category: "electronics", Reliability: domain.ReliabilityLow},
	{Name: "B&H Photo", Domains: []string{"bhphotovideo.com"}, Country: domain.CountryUS, Category: "electronics", Reliability: domain.ReliabilityMedium},
	{Name: "Newegg", Domains: []string{"newegg.com"}, Country: domain.CountryUS, Category: "hardware", Reliability: domain.ReliabilityMedium},
	{Name: "Herman Miller", Domains: []string{"hermanmiller.com", "store.hermanmiller.com"}, Country: domain.CountryUS, Category: "furniture", Reliability: domain.ReliabilityHigh},

	// International
	{Name: "AliExpress", Domains: []string{"aliexpress.com", "pt.aliexpress.com"}, Country: domain.CountryINTL, Category: "marketplace", Reliability: domain.ReliabilityLow},
	{Name: "IKEA", Domains: []string{"ikea.com"}, Country: domain.CountryINTL, Category: "furniture", Reliability: domain.ReliabilityMedium},
	{Name: "Keychron", Domains: []string{"keychron.com"}, Country: domain.CountryINTL, Category: "peripherals", Reliability: domain.ReliabilityHigh},
	{Name: "Elgato", Domains: []string{"elgato.com"}, Country: domain.CountryINTL, Category: "peripherals", Reliability: domain.ReliabilityMedium},
	{Name: "Razer", Domains: []string{"razer.com"}, Country: domain.CountryINTL, Category: "peripherals", Reliability: domain.ReliabilityMedium},
	{Name: "Corsair", Domains: []string{"corsair.com"}, Country: domain.CountryINTL, Category: "peripherals", Reliability: domain.ReliabilityMedium},
	{Name: "Etsy", Domains: []string{"etsy.com"}, Country: domain.CountryINTL, Category: "handmade", Reliability: domain.ReliabilityLow},
}
