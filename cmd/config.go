package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
	// the default timezone must resolve on hosts without a zoneinfo database
	_ "time/tzdata"

	"pickupoint/internal/core/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	OfferQueueMemory = "memory"
	OfferQueueRedis  = "redis"
)

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
	Timezone string `envconfig:"TIMEZONE" default:"Africa/Lome"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"pickupoint"`
	DBSslMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	OfferQueue    string `envconfig:"OFFER_QUEUE" default:"redis"`
	OfferQueueKey string `envconfig:"OFFER_QUEUE_KEY" default:"pickupoint:offers"`

	NotifyQueue       string `envconfig:"NOTIFY_QUEUE" default:"notifications"`
	NotifyConcurrency int    `envconfig:"NOTIFY_CONCURRENCY" default:"10"`

	PricingCacheTTL       time.Duration `envconfig:"PRICING_CACHE_TTL" default:"5m"`
	PricingCacheLocalSize int           `envconfig:"PRICING_CACHE_LOCAL_SIZE" default:"1000"`

	ORSAPIKey  string `envconfig:"ORS_API_KEY"`
	ORSBaseURL string `envconfig:"ORS_BASE_URL"`

	BasePriceRelay     decimal.Decimal `envconfig:"PRICING_BASE_RELAY" default:"500"`
	BasePriceHome      decimal.Decimal `envconfig:"PRICING_BASE_HOME" default:"1000"`
	PerKm              decimal.Decimal `envconfig:"PRICING_PER_KM" default:"50"`
	PerKg              decimal.Decimal `envconfig:"PRICING_PER_KG" default:"100"`
	FreeWeightKg       decimal.Decimal `envconfig:"PRICING_FREE_WEIGHT_KG" default:"2"`
	InsuranceRate      decimal.Decimal `envconfig:"PRICING_INSURANCE_RATE" default:"0.02"`
	InsuranceFloor     decimal.Decimal `envconfig:"PRICING_INSURANCE_FLOOR" default:"100"`
	MinPrice           decimal.Decimal `envconfig:"PRICING_MIN_PRICE" default:"500"`
	ExpressMultiplier  decimal.Decimal `envconfig:"PRICING_EXPRESS_MULTIPLIER" default:"1.5"`
	FallbackDistanceKm float64         `envconfig:"PRICING_FALLBACK_DISTANCE_KM" default:"10"`
	RoundTo            decimal.Decimal `envconfig:"PRICING_ROUND_TO" default:"50"`
	Currency           string          `envconfig:"PRICING_CURRENCY" default:"XOF"`

	// Percentages of the settled price. Relays share what is left; home to
	// home has no relay, so the courier takes it.
	PlatformSharePct decimal.Decimal `envconfig:"SPLIT_PLATFORM_PCT" default:"15"`
	CourierSharePct  decimal.Decimal `envconfig:"SPLIT_COURIER_PCT" default:"70"`

	OfferWindow          time.Duration `envconfig:"DISPATCH_OFFER_WINDOW" default:"30s"`
	StuckTimeout         time.Duration `envconfig:"DISPATCH_STUCK_TIMEOUT" default:"15m"`
	EtaRefresh           time.Duration `envconfig:"DISPATCH_ETA_REFRESH" default:"5m"`
	ApproachRadiusMeters float64       `envconfig:"DISPATCH_APPROACH_RADIUS_M" default:"500"`
	GeofenceMeters       float64       `envconfig:"DISPATCH_GEOFENCE_M" default:"500"`
	TrailCapacity        int           `envconfig:"DISPATCH_TRAIL_CAPACITY" default:"300"`

	OfferCascadeSchedule   string `envconfig:"CRON_OFFER_CASCADE" default:"*/5 * * * * *"`
	ReconciliationSchedule string `envconfig:"CRON_RECONCILIATION" default:"0 */2 * * * *"`
}

// LoadConfig reads .env when present, then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.HTTPPort, validation.Required),
		validation.Field(&c.DBHost, validation.Required),
		validation.Field(&c.DBName, validation.Required),
		validation.Field(&c.RedisAddr, validation.Required),
		validation.Field(&c.OfferQueue, validation.In(OfferQueueMemory, OfferQueueRedis)),
		validation.Field(&c.NotifyConcurrency, validation.Min(1)),
		validation.Field(&c.OfferWindow, validation.Min(time.Second)),
		validation.Field(&c.StuckTimeout, validation.Min(time.Minute)),
		validation.Field(&c.TrailCapacity, validation.Min(1)),
		validation.Field(&c.Timezone, validation.By(func(any) error {
			_, err := c.Location()
			return err
		})),
		validation.Field(&c.CourierSharePct, validation.By(func(any) error {
			hundred := decimal.NewFromInt(100)
			if c.PlatformSharePct.IsNegative() || c.CourierSharePct.IsNegative() ||
				c.PlatformSharePct.Add(c.CourierSharePct).GreaterThan(hundred) {
				return errors.New("platform and courier shares must be non-negative and sum to at most 100")
			}
			return nil
		})),
	)
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c Config) Production() bool {
	return c.AppEnv == "production"
}

// Logger is JSON in production and text elsewhere.
func (c Config) Logger() *slog.Logger {
	if c.Production() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (c Config) Pricing() services.PricingConfig {
	return services.PricingConfig{
		BasePriceRelay:     c.BasePriceRelay,
		BasePriceHome:      c.BasePriceHome,
		PerKm:              c.PerKm,
		PerKg:              c.PerKg,
		FreeWeightKg:       c.FreeWeightKg,
		InsuranceRate:      c.InsuranceRate,
		InsuranceFloor:     c.InsuranceFloor,
		MinPrice:           c.MinPrice,
		ExpressMultiplier:  c.ExpressMultiplier,
		FallbackDistanceKm: c.FallbackDistanceKm,
		RoundTo:            c.RoundTo,
		Currency:           c.Currency,
	}
}

func (c Config) RevenueSplit() services.RevenueSplitConfig {
	hundred := decimal.NewFromInt(100)
	platform := c.PlatformSharePct.Div(hundred)
	courier := c.CourierSharePct.Div(hundred)
	relays := decimal.NewFromInt(1).Sub(platform).Sub(courier)
	half := relays.Div(decimal.NewFromInt(2))

	return services.RevenueSplitConfig{
		RelayToRelay: services.SplitRates{Platform: platform, OriginRelay: half, DestinationRelay: half, Courier: courier},
		RelayToHome:  services.SplitRates{Platform: platform, OriginRelay: relays, Courier: courier},
		HomeToRelay:  services.SplitRates{Platform: platform, DestinationRelay: relays, Courier: courier},
		HomeToHome:   services.SplitRates{Platform: platform, Courier: decimal.NewFromInt(1).Sub(platform)},
	}
}

func (c Config) Dispatch() services.DispatchPolicy {
	return services.DispatchPolicy{
		OfferWindow:          c.OfferWindow,
		StuckTimeout:         c.StuckTimeout,
		EtaRefresh:           c.EtaRefresh,
		ApproachRadiusMeters: c.ApproachRadiusMeters,
		GeofenceMeters:       c.GeofenceMeters,
		TrailCapacity:        c.TrailCapacity,
	}
}
