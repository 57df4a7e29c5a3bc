// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"fmt"
	"time"
)

// parseFlags parses all configuration flags from args into a new
// [StructuredConfig].
//
// Flags:
//
//	-d local cache DSN
//	-c/-config json file path with configs
//	-backend record store backend (firestore, mongo, memory)
//	-request-timeout adapter request timeout (e.g., "15s")
//	-firebase-project Firebase project id
//	-firebase-credentials service account JSON file
//	-firebase-api-key Web API key
//	-auth-url Identity Toolkit base URL
//	-verify-tokens verify ID tokens through the Admin SDK
//	-mongo-uri MongoDB connection string
//	-mongo-db MongoDB database name
//	-max-file-size attachment limit in MB
//	-snapshot-buffer live subscription channel capacity
func parseFlags(fs *flag.FlagSet, args []string) (*StructuredConfig, error) {
	var (
		cacheDSN        string
		jsonConfigPath  string
		backend         string
		requestTimeout  time.Duration
		projectID       string
		credentialsFile string
		apiKey          string
		authBaseURL     string
		verifyTokens    bool
		mongoURI        string
		mongoDatabase   string
		maxFileSizeMB   int
		snapshotBuffer  int
	)

	fs.StringVar(&cacheDSN, "d", "", "Local cache DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&backend, "backend", "", "Record store backend: firestore, mongo or memory")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Adapter request timeout (e.g., 15s)")
	fs.StringVar(&projectID, "firebase-project", "", "Firebase project id")
	fs.StringVar(&credentialsFile, "firebase-credentials", "", "Service account JSON file")
	fs.StringVar(&apiKey, "firebase-api-key", "", "Firebase Web API key")
	fs.StringVar(&authBaseURL, "auth-url", "", "Identity Toolkit base URL")
	fs.BoolVar(&verifyTokens, "verify-tokens", false, "Verify ID tokens through the Admin SDK")
	fs.StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection string")
	fs.StringVar(&mongoDatabase, "mongo-db", "", "MongoDB database name")
	fs.IntVar(&maxFileSizeMB, "max-file-size", 0, "Attachment size limit in MB")
	fs.IntVar(&snapshotBuffer, "snapshot-buffer", 0, "Live subscription channel capacity")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			MaxFileSizeMB: maxFileSizeMB,
		},
		Storage: Storage{
			Cache: Cache{DSN: cacheDSN},
		},
		Adapter: Adapter{
			Backend:        backend,
			RequestTimeout: requestTimeout,
			Firebase: Firebase{
				ProjectID:       projectID,
				CredentialsFile: credentialsFile,
				APIKey:          apiKey,
				AuthBaseURL:     authBaseURL,
				VerifyTokens:    verifyTokens,
			},
			Mongo: Mongo{
				URI:      mongoURI,
				Database: mongoDatabase,
			},
		},
		Workers:      Workers{SnapshotBuffer: snapshotBuffer},
		JSONFilePath: jsonConfigPath,
	}, nil
}
