package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"hav-jeang-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret signs and verifies tokens. Injected via Load — there is no
// compiled-in fallback value.
var JWTSecret []byte

// Config holds all runtime settings, populated from the environment.
type Config struct {
	Port     string
	DBPath   string
	TokenTTL time.Duration

	// Pricing
	PerKmRate float64 // trip fee per routed kilometer

	// Matching
	SearchRadiusKm float64

	// Geo distance provider
	ORSBaseURL      string
	ORSAPIKey       string // empty means: use the offline haversine provider
	ProviderTimeout time.Duration
}

// Load reads configuration from the environment. It fails hard when
// JWT_SECRET is missing: the secret must be injected, never defaulted.
func Load() *Config {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	JWTSecret = []byte(secret)

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "hav_jeang.db"),
		TokenTTL:        24 * time.Hour,
		PerKmRate:       getEnvFloat("TRIP_RATE_PER_KM", 2.0),
		SearchRadiusKm:  getEnvFloat("SEARCH_RADIUS_KM", 5.0),
		ORSBaseURL:      getEnv("ORS_BASE_URL", "https://api.openrouteservice.org"),
		ORSAPIKey:       os.Getenv("ORS_API_KEY"),
		ProviderTimeout: 10 * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("ignoring invalid %s=%q", key, v)
	}
	return fallback
}

func InitDB(path string) {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate all models
	err = DB.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.ServiceRequest{},
		&models.RequestStatusHistory{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("✅ Database connected and migrated successfully")
}
