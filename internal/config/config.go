package config

import (
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/sendwell/sendwell/internal/types"
)

// Configuration holds all application configuration. It is loaded once at
// startup and treated as immutable afterwards; billing rules (transfer
// country allow-list, VAT rates, billing system ids) live here so the
// workflow never consults mutable globals.
type Configuration struct {
	Deployment    DeploymentConfig    `mapstructure:"deployment"`
	Server        ServerConfig        `mapstructure:"server"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Sentry        SentryConfig        `mapstructure:"sentry"`
	Billing       BillingConfig       `mapstructure:"billing"`
	CardGateway   CardGatewayConfig   `mapstructure:"card_gateway"`
	MercadoPago   MercadoPagoConfig   `mapstructure:"mercado_pago"`
	SAP           SAPConfig           `mapstructure:"sap"`
	Zoho          ZohoConfig          `mapstructure:"zoho"`
	Slack         SlackConfig         `mapstructure:"slack"`
	Email         EmailConfig         `mapstructure:"email"`
	Notifications NotificationConfig  `mapstructure:"notifications"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" default:"api"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" default:":8080"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" default:"info"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" default:"1.0"`
}

// BillingConfig carries the business rules the agreement workflow depends on.
type BillingConfig struct {
	// TransferAllowedCountries is the set of billing countries that may pay
	// by bank transfer
	TransferAllowedCountries []types.CountryCode `mapstructure:"transfer_allowed_countries"`

	// VATRates maps billing country to the VAT rate applied to transfer
	// payments (e.g. mx -> 0.16, ar -> 0.21)
	VATRates map[string]decimal.Decimal `mapstructure:"vat_rates"`

	// AdminEmail receives the admin copy of activation and credit purchase
	// notifications
	AdminEmail string `mapstructure:"admin_email"`
}

type CardGatewayConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type MercadoPagoConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	AccessToken string `mapstructure:"access_token"`
}

type SAPConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type ZohoConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	BaseURL      string `mapstructure:"base_url"`
	RefreshToken string `mapstructure:"refresh_token"`
}

type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
}

type EmailConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	APIKey      string `mapstructure:"api_key"`
	FromAddress string `mapstructure:"from_address"`
}

type NotificationConfig struct {
	// CRMSyncEnabled gates the Zoho contact/lead sync performed on new plan
	// activations
	CRMSyncEnabled bool `mapstructure:"crm_sync_enabled"`
}

// NewConfig loads configuration from config files and environment variables
func NewConfig() (*Configuration, error) {
	// Load .env if present; ignore error since env vars may come from the
	// actual environment in deployed setups
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SENDWELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Configuration{}
	if err := v.Unmarshal(cfg, viper.DecodeHook(decimalDecodeHook())); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetDefaultConfig returns a configuration suitable for tests and scripts
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.RunModeAPI},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Billing:    DefaultBillingConfig(),
		Notifications: NotificationConfig{
			CRMSyncEnabled: false,
		},
	}
}

// DefaultBillingConfig returns the billing rules shipped by default.
func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		TransferAllowedCountries: []types.CountryCode{
			types.CountryColombia,
			types.CountryMexico,
			types.CountryArgentina,
		},
		VATRates: map[string]decimal.Decimal{
			string(types.CountryMexico):    decimal.NewFromFloat(0.16),
			string(types.CountryArgentina): decimal.NewFromFloat(0.21),
		},
		AdminEmail: "billing@sendwell.io",
	}
}

// TransferAllowed reports whether the billing country may pay by transfer
func (c BillingConfig) TransferAllowed(country types.CountryCode) bool {
	for _, allowed := range c.TransferAllowedCountries {
		if allowed == country {
			return true
		}
	}
	return false
}

// VATRate returns the VAT rate for a billing country, zero when none applies
func (c BillingConfig) VATRate(country types.CountryCode) decimal.Decimal {
	if rate, ok := c.VATRates[string(country)]; ok {
		return rate
	}
	return decimal.Zero
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.RunModeAPI))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("billing.transfer_allowed_countries", []string{"co", "mx", "ar"})
	v.SetDefault("billing.vat_rates", map[string]string{"mx": "0.16", "ar": "0.21"})
	v.SetDefault("billing.admin_email", "billing@sendwell.io")
	v.SetDefault("email.from_address", "no-reply@sendwell.io")
}

func decimalDecodeHook() func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(decimal.Decimal{}) {
			return data, nil
		}
		if s, ok := data.(string); ok {
			return decimal.NewFromString(s)
		}
		return data, nil
	}
}
