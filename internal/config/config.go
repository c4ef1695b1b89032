package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"course-store/internal/sftpclient"
)

type Config struct {
	// Catalog search service
	CatalogBaseURL string

	// Geo-IP lookup endpoint (currency detection, step 3 of the chain)
	GeoIPURL string

	// Local currency cache (sqlite file)
	CachePath string

	// Categories that have no grade axis, comma-separated
	GradelessCategories string

	// Reporting drop for snapshot exports
	SFTP sftpclient.Config
}

// Load reads the environment, with a best-effort .env for local runs.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		CatalogBaseURL:      getenv("CATALOG_BASE_URL", "https://api.coursestore.example.com"),
		GeoIPURL:            getenv("GEOIP_URL", "https://ipapi.co/json/"),
		CachePath:           getenv("CURRENCY_CACHE_PATH", "currency-cache.db"),
		GradelessCategories: os.Getenv("GRADELESS_CATEGORIES"),
		SFTP: sftpclient.Config{
			Host:      os.Getenv("SFTP_HOST"),
			Port:      getenvInt("SFTP_PORT", 22),
			User:      os.Getenv("SFTP_USER"),
			Pass:      os.Getenv("SFTP_PASS"),
			RemoteDir: getenv("SFTP_REMOTE_DIR", "/"),
		},
	}
}

// GradelessList splits the configured categories, trimming empties.
func (c Config) GradelessList() []string {
	var out []string
	for _, part := range strings.Split(c.GradelessCategories, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
