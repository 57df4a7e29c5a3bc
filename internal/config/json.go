// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with snake_case JSON keys.
type StructuredJSONConfig struct {
	App struct {
		MaxFileSizeMB int    `json:"max_file_size_mb"`
		Version       string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		Cache struct {
			DSN string `json:"dsn"`
		} `json:"cache,omitempty"`
	} `json:"storage,omitempty"`

	Adapter struct {
		Backend        string   `json:"backend"`
		RequestTimeout Duration `json:"request_timeout"`
		Firebase       struct {
			ProjectID       string `json:"project_id"`
			CredentialsFile string `json:"credentials_file"`
			APIKey          string `json:"api_key"`
			AuthBaseURL     string `json:"auth_base_url"`
			VerifyTokens    bool   `json:"verify_tokens"`
		} `json:"firebase,omitempty"`
		Mongo struct {
			URI      string `json:"uri"`
			Database string `json:"database"`
		} `json:"mongo,omitempty"`
	} `json:"adapter,omitempty"`

	Workers struct {
		SnapshotBuffer int `json:"snapshot_buffer"`
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
		App: App{
			MaxFileSizeMB: jsonCfg.App.MaxFileSizeMB,
			Version:       jsonCfg.App.Version,
		},
		Storage: Storage{
			Cache: Cache{DSN: jsonCfg.Storage.Cache.DSN},
		},
		Adapter: Adapter{
			Backend:        jsonCfg.Adapter.Backend,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			Firebase: Firebase{
				ProjectID:       jsonCfg.Adapter.Firebase.ProjectID,
				CredentialsFile: jsonCfg.Adapter.Firebase.CredentialsFile,
				APIKey:          jsonCfg.Adapter.Firebase.APIKey,
				AuthBaseURL:     jsonCfg.Adapter.Firebase.AuthBaseURL,
				VerifyTokens:    jsonCfg.Adapter.Firebase.VerifyTokens,
			},
			Mongo: Mongo{
				URI:      jsonCfg.Adapter.Mongo.URI,
				Database: jsonCfg.Adapter.Mongo.Database,
			},
		},
		Workers: Workers{SnapshotBuffer: jsonCfg.Workers.SnapshotBuffer},
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
