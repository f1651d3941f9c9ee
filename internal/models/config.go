package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	Dir string `mapstructure:"dir"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"` // trace, debug, info, warn, error, fatal, panic
	File  string `mapstructure:"file"`  // empty means stderr
}

type PricingConfig struct {
	CGSTPercent float64 `mapstructure:"cgst_percent"`
	SGSTPercent float64 `mapstructure:"sgst_percent"`
	// ComplimentaryPriceMarker, when positive, marks items whose catalog
	// price equals it as complimentary. Zero disables the convention.
	ComplimentaryPriceMarker float64           `mapstructure:"complimentary_price_marker"`
	Coupons                  map[string]Coupon `mapstructure:"coupons"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type ReceiptsConfig struct {
	Destinations    []string           `mapstructure:"destinations"`
	OutputPath      string             `mapstructure:"output_path"`
	OutputFolder    string             `mapstructure:"output_folder"`
	KafkaBrokerList string             `mapstructure:"kafka_broker_list"`
	KafkaTopic      string             `mapstructure:"kafka_topic"`
	DatabaseURL     string             `mapstructure:"database_url"`
	CloudStorage    CloudStorageConfig `mapstructure:"cloud_storage"`
}

type MockConfig struct {
	ListenAddr       string `mapstructure:"listen_addr"`
	Email            string `mapstructure:"email"`
	Password         string `mapstructure:"password"`
	JWTSecret        string `mapstructure:"jwt_secret"`
	Tables           int    `mapstructure:"tables"`
	ItemsPerCategory int    `mapstructure:"items_per_category"`
	Seed             int64  `mapstructure:"seed"`
}

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Session  SessionConfig  `mapstructure:"session"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Receipts ReceiptsConfig `mapstructure:"receipts"`
	Mock     MockConfig     `mapstructure:"mock"`
}

// DefaultCoupons is the coupon book used when the configuration names none.
func DefaultCoupons() map[string]Coupon {
	return map[string]Coupon{
		"WELCOME10": {Code: "WELCOME10", Discount: 10, Type: CouponPercent, Description: "10% off"},
		"FLAT50":    {Code: "FLAT50", Discount: 50, Type: CouponFlat, Description: "₹50 off"},
		"HYATT20":   {Code: "HYATT20", Discount: 20, Type: CouponPercent, Description: "20% off"},
	}
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()

	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("session.dir", filepath.Join(home, ".kioskorder", "session"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("pricing.cgst_percent", 2.5)
	v.SetDefault("pricing.sgst_percent", 2.5)
	v.SetDefault("pricing.complimentary_price_marker", 0)
	v.SetDefault("receipts.destinations", []string{})
	v.SetDefault("receipts.output_path", "output")
	v.SetDefault("receipts.output_folder", "receipts")
	v.SetDefault("receipts.kafka_broker_list", "localhost:9092")
	v.SetDefault("receipts.kafka_topic", "kiosk_orders")
	v.SetDefault("mock.listen_addr", ":8080")
	v.SetDefault("mock.email", "kiosk@hotel.test")
	v.SetDefault("mock.password", "breakfast")
	v.SetDefault("mock.jwt_secret", "kiosk-dev-secret")
	v.SetDefault("mock.tables", 100)
	v.SetDefault("mock.items_per_category", 6)
	v.SetDefault("mock.seed", 42)
}

// LoadConfig initializes and reads the configuration using the global Viper
// instance, so values bound from command flags take part.
func LoadConfig(cfgFile string) (*Config, error) {
	return LoadConfigFrom(viper.GetViper(), cfgFile)
}

// LoadConfigFrom reads the configuration into v. A missing default config
// file is not an error; a missing explicit one is.
func LoadConfigFrom(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".kioskorder")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("kiosk")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	config.Pricing.normalizeCoupons()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// normalizeCoupons upper-cases coupon codes (viper lower-cases map keys) and
// falls back to the default book when none are configured.
func (p *PricingConfig) normalizeCoupons() {
	if len(p.Coupons) == 0 {
		p.Coupons = DefaultCoupons()
		return
	}
	normalized := make(map[string]Coupon, len(p.Coupons))
	for code, coupon := range p.Coupons {
		code = strings.ToUpper(strings.TrimSpace(code))
		coupon.Code = code
		coupon.Type = strings.ToLower(coupon.Type)
		normalized[code] = coupon
	}
	p.Coupons = normalized
}

func (cfg *Config) Validate() error {
	if cfg.API.BaseURL == "" {
		return errors.New("api.base_url must be set")
	}
	if cfg.API.Timeout <= 0 {
		return errors.New("api.timeout must be > 0")
	}
	if cfg.Pricing.CGSTPercent < 0 || cfg.Pricing.SGSTPercent < 0 {
		return errors.New("tax percentages must be >= 0")
	}
	if cfg.Pricing.ComplimentaryPriceMarker < 0 {
		return errors.New("pricing.complimentary_price_marker must be >= 0")
	}
	for code, coupon := range cfg.Pricing.Coupons {
		if coupon.Discount < 0 {
			return fmt.Errorf("coupon %s: discount must be >= 0", code)
		}
		switch coupon.Type {
		case CouponPercent:
			if coupon.Discount > 100 {
				return fmt.Errorf("coupon %s: percent discount must be <= 100", code)
			}
		case CouponFlat:
		default:
			return fmt.Errorf("coupon %s: unknown type %q", code, coupon.Type)
		}
	}
	for _, dest := range cfg.Receipts.Destinations {
		switch dest {
		case DestinationConsole, DestinationJSON, DestinationParquet, DestinationKafka, DestinationPostgres:
		default:
			return fmt.Errorf("unknown receipt destination %q", dest)
		}
	}
	return nil
}
