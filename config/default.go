package config

import _ "embed"

// DefaultConfigYAML konfigurasi bawaan yang ikut tertanam di binary
//
//go:embed default.yaml
var DefaultConfigYAML []byte
