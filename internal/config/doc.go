// Package config loads the case keeper client settings: the record store
// backend and its credentials, the local snapshot cache, the attachment size
// limit and the live feed buffers.
//
// Sources are merged in priority order (earlier sources win for every
// non-zero field):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// [GetStructuredConfig] returns the raw merged configuration and
// [GetClientConfig] the validated client view.
package config
