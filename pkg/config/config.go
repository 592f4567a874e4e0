package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	ContentDir = "./content"
	PublicDir  = "./public"
	CacheFile  = "./content/blog-cache.json"
	SiteURL    = "https://secretlocale.com"

	// Server settings
	Port = "8080"

	// Index settings
	PostsPerPage = 12
	ScanMaxDepth = 16

	// Rebuild settings
	CacheCron  = ""
	CronSecret = ""

	// Planner settings
	DBPath   = "./data/itineraries.db"
	LLMModel = "gpt-4o-mini"
)

func Init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found or error loading it.")
	}

	// Helper to get env with default
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	ContentDir = getEnv("CONTENT_DIR", "./content")
	PublicDir = getEnv("PUBLIC_DIR", "./public")
	CacheFile = getEnv("CACHE_FILE", ContentDir+"/blog-cache.json")
	SiteURL = getEnv("SITE_URL", "https://secretlocale.com")

	Port = getEnv("PORT", "8080")

	CacheCron = getEnv("CACHE_CRON", "")
	CronSecret = getEnv("CRON_SECRET", "")

	DBPath = getEnv("DB_PATH", "./data/itineraries.db")
	LLMModel = getEnv("LLM_MODEL", "gpt-4o-mini")

	if pp := os.Getenv("POSTS_PER_PAGE"); pp != "" {
		if val, err := strconv.Atoi(pp); err == nil && val > 0 {
			PostsPerPage = val
		}
	}

	if md := os.Getenv("SCAN_MAX_DEPTH"); md != "" {
		if val, err := strconv.Atoi(md); err == nil && val > 0 {
			ScanMaxDepth = val
		}
	}
}

func LLMAPIKey() string {
	return os.Getenv("LLM_API_KEY")
}
