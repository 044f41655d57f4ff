package config

import "os"

type Config struct {
	Port           string
	ListingDBHost  string
	ListingDBPort  string
	DraftCacheHost string
	DraftCachePort string
	JaegerAddress  string
}

func NewConfig() *Config {
	return &Config{
		Port:           os.Getenv("LISTING_SERVICE_PORT"),
		ListingDBHost:  os.Getenv("LISTING_DB_HOST"),
		ListingDBPort:  os.Getenv("LISTING_DB_PORT"),
		DraftCacheHost: os.Getenv("DRAFT_CACHE_HOST"),
		DraftCachePort: os.Getenv("DRAFT_CACHE_PORT"),
		JaegerAddress:  os.Getenv("JAEGER_ADDRESS"),
	}
}
