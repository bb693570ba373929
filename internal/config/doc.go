// Package config provides configuration structures and utilities for sitereap.
// It defines the crawl tuning options, the optional .sitereap YAML file with
// per-site settings, and report/output preferences.
package config
