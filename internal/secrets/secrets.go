// Package secrets resolves provider credentials. An API key comes from the
// named environment variable first, then from a local secrets file in
// dotenv format. An empty result means the credential is unavailable.
package secrets

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Resolver looks up API keys by credential key
type Resolver struct {
	file string

	once   sync.Once
	values map[string]string
}

// NewResolver creates a resolver backed by the given secrets file. The file
// is read lazily on first lookup; a missing file is not an error.
func NewResolver(file string) *Resolver {
	return &Resolver{file: os.ExpandEnv(file)}
}

// APIKey returns the credential for the given key, or "" when unavailable
func (r *Resolver) APIKey(credentialKey string) string {
	if credentialKey == "" {
		return ""
	}

	if value := os.Getenv(credentialKey); value != "" {
		return value
	}

	r.once.Do(r.load)

	return r.values[credentialKey]
}

func (r *Resolver) load() {
	r.values = map[string]string{}

	if r.file == "" {
		return
	}

	values, err := godotenv.Read(r.file)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("file", r.file).Msg("Failed to read secrets file")
		}
		return
	}

	r.values = values
	log.Debug().Str("file", r.file).Int("entries", len(values)).Msg("Loaded secrets file")
}
