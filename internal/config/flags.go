package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-registry-url registry API base URL
//	-token-url OAuth2 token endpoint URL
//	-client-id registry OAuth2 client id
//	-client-secret registry OAuth2 client secret
//	-search-url search provider base URL
//	-registry-timeout registry request timeout (e.g., "30s", "1m")
//	-search-timeout search request timeout (e.g., "5s")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var serverAddress string
	var databaseDSN string
	var registryBaseURL string
	var tokenURL string
	var clientID string
	var clientSecret string
	var searchBaseURL string
	var registryTimeout time.Duration
	var searchTimeout time.Duration
	var jsonConfigPath string

	flag.StringVar(&serverAddress, "a", "", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&registryBaseURL, "registry-url", "", "Registry API base URL")
	flag.StringVar(&tokenURL, "token-url", "", "OAuth2 token endpoint URL")
	flag.StringVar(&clientID, "client-id", "", "Registry OAuth2 client id")
	flag.StringVar(&clientSecret, "client-secret", "", "Registry OAuth2 client secret")
	flag.StringVar(&searchBaseURL, "search-url", "", "Search provider base URL")
	flag.DurationVar(&registryTimeout, "registry-timeout", 0, "Registry request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&searchTimeout, "search-timeout", 0, "Search request timeout (e.g., 5s)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Registry: Registry{
			BaseURL:        registryBaseURL,
			TokenURL:       tokenURL,
			ClientID:       clientID,
			ClientSecret:   clientSecret,
			RequestTimeout: registryTimeout,
		},
		Search: Search{
			BaseURL:        searchBaseURL,
			RequestTimeout: searchTimeout,
		},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		Server: Server{
			Address: serverAddress,
		},
		JSONFilePath: jsonConfigPath,
	}
}
