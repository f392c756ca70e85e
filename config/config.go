package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ProviderConfig holds the external model provider settings. APIKey carries
// the NAME of the environment variable holding the key until LoadConfig
// resolves it.
type ProviderConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	TextModel       string `mapstructure:"text_model"`
	VisionModel     string `mapstructure:"vision_model"`
	ClassifierModel string `mapstructure:"classifier_model"`
}

// ActionQuota is the per-action-type limit enforced by the quota ledger.
// BypassTiers lists tiers for which the check is skipped entirely — a hard
// contract override, not a higher limit.
type ActionQuota struct {
	Limit       int      `mapstructure:"limit"`
	BypassTiers []string `mapstructure:"bypass_tiers"`
}

// QuotaConfig groups every metering knob of the service.
type QuotaConfig struct {
	VetDailyMessages int                    `mapstructure:"vet_daily_messages"`
	ScanLimit        int                    `mapstructure:"scan_limit"`
	ScanWindowHours  int                    `mapstructure:"scan_window_hours"`
	QuotaWindowHours int                    `mapstructure:"quota_window_hours"`
	CacheTTLHours    int                    `mapstructure:"cache_ttl_hours"`
	Actions          map[string]ActionQuota `mapstructure:"actions"`
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		DSN string // "memory" or a file path for SQLite
	}
	Provider ProviderConfig `mapstructure:"provider"`
	Quotas   QuotaConfig    `mapstructure:"quotas"`
}

// AppConfig is the global configuration instance populated by LoadConfig.
var AppConfig Config

// LoadConfig loads configuration from file and environment variables.
func LoadConfig() {
	viper.SetConfigName("config")    // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")  // Path to look for the config file in
	viper.AddConfigPath(".")         // Optionally look for config in the working directory
	viper.AddConfigPath("../config") // For running from locations like tests

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.dsn", "memory")
	viper.SetDefault("provider.api_key", "OPENAI_API_KEY")
	viper.SetDefault("provider.text_model", "gpt-4o-mini")
	viper.SetDefault("provider.vision_model", "gpt-4o")
	viper.SetDefault("provider.classifier_model", "gpt-4o")
	viper.SetDefault("quotas.vet_daily_messages", 50)
	viper.SetDefault("quotas.scan_limit", 3)
	viper.SetDefault("quotas.scan_window_hours", 24)
	viper.SetDefault("quotas.quota_window_hours", 24)
	viper.SetDefault("quotas.cache_ttl_hours", 168)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
		} else {
			log.Fatalf("FATAL: [Config] Error reading configuration file: %v", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("FATAL: [Config] Failed to unmarshal configuration into AppConfig struct: %v", err)
	}

	// Environment variable overrides
	if port := os.Getenv("SERVER_PORT"); port != "" {
		AppConfig.Server.Port = port
		log.Printf("INFO: [Config] Server port overridden by environment variable SERVER_PORT: %s", port)
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		AppConfig.Database.DSN = dsn
		log.Printf("INFO: [Config] Database DSN overridden by environment variable DATABASE_DSN.")
	}

	// Resolve the provider API key from the named environment variable.
	envVarNameForKey := AppConfig.Provider.APIKey
	if envValue := os.Getenv(envVarNameForKey); envValue != "" {
		AppConfig.Provider.APIKey = envValue
		log.Printf("INFO: [Config] Loaded provider API key from environment variable '%s'.", envVarNameForKey)
	} else if envVarNameForKey != "" && !strings.HasSuffix(envVarNameForKey, "_KEY") && !strings.HasPrefix(envVarNameForKey, "OPENAI") {
		// The api_key field in YAML was likely a hardcoded key (not recommended)
		// and no corresponding environment variable was found to override it.
		log.Printf("WARN: [Config] Provider API key appears to be set directly in config.yaml. Consider using env vars for keys.")
	} else {
		log.Printf("WARN: [Config] Provider API key (env var '%s') is not set. Model calls will fail until it is provided.", envVarNameForKey)
		AppConfig.Provider.APIKey = ""
	}

	// Seed the default action quotas if the YAML omits them; missing action
	// types would otherwise deny everything for free-tier users.
	if AppConfig.Quotas.Actions == nil {
		AppConfig.Quotas.Actions = map[string]ActionQuota{}
	}
	if _, ok := AppConfig.Quotas.Actions["discovery_profile_view"]; !ok {
		AppConfig.Quotas.Actions["discovery_profile_view"] = ActionQuota{
			Limit:       25,
			BypassTiers: []string{"premium", "gold"},
		}
		log.Println("INFO: [Config] Using default quota for action 'discovery_profile_view' (limit 25, premium/gold bypass).")
	}
	if _, ok := AppConfig.Quotas.Actions["vision_attachment"]; !ok {
		AppConfig.Quotas.Actions["vision_attachment"] = ActionQuota{Limit: 10}
		log.Println("INFO: [Config] Using default quota for action 'vision_attachment' (limit 10, no bypass).")
	}

	log.Println("INFO: [Config] Configuration loading complete.")
}
