package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Registry struct {
		BaseURL        string   `json:"base_url"`
		TokenURL       string   `json:"token_url"`
		ClientID       string   `json:"client_id"`
		ClientSecret   string   `json:"client_secret"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"registry,omitempty"`

	Search struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
		CacheTTL       Duration `json:"cache_ttl"`
	} `json:"search,omitempty"`

	Resilience struct {
		MaxRetries        uint64   `json:"max_retries"`
		BaseDelay         Duration `json:"base_delay"`
		MaxDelay          Duration `json:"max_delay"`
		ErrorThresholdPct float64  `json:"error_threshold_pct"`
		VolumeThreshold   uint32   `json:"volume_threshold"`
		ResetTimeout      Duration `json:"reset_timeout"`
	} `json:"resilience,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		Address string `json:"address"`
	} `json:"server,omitempty"`

	Workers struct {
		PushQueueSize int `json:"push_queue_size"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Registry: Registry{
			BaseURL:        jsonCfg.Registry.BaseURL,
			TokenURL:       jsonCfg.Registry.TokenURL,
			ClientID:       jsonCfg.Registry.ClientID,
			ClientSecret:   jsonCfg.Registry.ClientSecret,
			RequestTimeout: time.Duration(jsonCfg.Registry.RequestTimeout),
		},
		Search: Search{
			BaseURL:        jsonCfg.Search.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Search.RequestTimeout),
			CacheTTL:       time.Duration(jsonCfg.Search.CacheTTL),
		},
		Resilience: Resilience{
			MaxRetries:        jsonCfg.Resilience.MaxRetries,
			BaseDelay:         time.Duration(jsonCfg.Resilience.BaseDelay),
			MaxDelay:          time.Duration(jsonCfg.Resilience.MaxDelay),
			ErrorThresholdPct: jsonCfg.Resilience.ErrorThresholdPct,
			VolumeThreshold:   jsonCfg.Resilience.VolumeThreshold,
			ResetTimeout:      time.Duration(jsonCfg.Resilience.ResetTimeout),
		},
		Storage: Storage{
			DB: DB{DSN: jsonCfg.Storage.DB.DSN},
		},
		Server: Server{
			Address: jsonCfg.Server.Address,
		},
		Workers: Workers{
			PushQueueSize: jsonCfg.Workers.PushQueueSize,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
