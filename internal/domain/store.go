package domain

// Country of a registry store
type Country string

const (
	CountryBR   Country = "BR"
	CountryUS   Country = "US"
	CountryINTL Country = "INTL"
)

// StoreConfig is a static store registry entry
type StoreConfig struct {
	Name        string           `json:"name"`
	Domains     []string         `json:"domains"`
	Country     Country          `json:"country"`
	Category    string           `json:"category"`
	Reliability StoreReliability `json:"reliability"`
}
