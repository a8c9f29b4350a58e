package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all turn-pipeline configuration
type Config struct {
	// Registry is the provider registry document
	Registry Registry `mapstructure:",squash"`

	// TaxonomyPath is the on-disk location of the taxonomy document
	TaxonomyPath string `mapstructure:"taxonomy_path"`

	// SecretsFile is the local secrets file consulted when an API key
	// environment variable is unset
	SecretsFile string `mapstructure:"secrets_file"`
}

// Load reads configuration from files and environment variables
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Configure environment variables - do this BEFORE reading config
	v.AutomaticEnv()
	v.SetEnvPrefix("QUILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName("quill") // Name of config file without extension
	v.SetConfigType("yaml")
	v.AddConfigPath(".")             // Current working directory
	v.AddConfigPath("./config")      // Config subdirectory
	v.AddConfigPath("$HOME/.quill")  // Home directory

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Info().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("providers", len(cfg.Registry.Providers)).
		Int("priorityEntries", len(cfg.Registry.Routing.Entries)).
		Msg("Config loaded")

	return cfg, nil
}

// fromViper unmarshals and validates a populated viper instance. Split out
// so tests can feed an in-memory document.
func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Map keys double as ids; stamp them onto the descriptors.
	for id, desc := range cfg.Registry.Providers {
		desc.ID = id
		for modelID, model := range desc.Models {
			model.ID = modelID
			desc.Models[modelID] = model
		}
		cfg.Registry.Providers[id] = desc
	}

	if err := cfg.Registry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid provider registry: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("taxonomy_path", "./taxonomy.yaml")
	v.SetDefault("secrets_file", "$HOME/.quill/secrets.env")
	v.SetDefault("routing.fallback_policy", "sequential")
}
