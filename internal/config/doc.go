// SPDX-License-Identifier: Apache-2.0

// Package config loads, merges, and validates the sync engine daemon
// configuration.
//
// Values are collected from three sources and merged in priority order:
// environment variables, command-line flags, and an optional JSON file
// referenced by either of the former. Merging uses dario.cat/mergo, so a
// value set by a higher-priority source is never overwritten by a
// lower-priority one.
//
// The main entry point is [GetStructuredConfig].
package config
