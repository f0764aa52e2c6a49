package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "operasi gagal"
	testErr := errors.New("internal database error")

	// err nil mengembalikan fallback
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// mode release mengembalikan fallback, detail error tidak bocor
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	// mode debug mengembalikan err.Error()
	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	// GlobalConfig nil dianggap lingkungan pengembangan
	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfigDefaults(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "duitku", cfg.Database.DBName)
	assert.Equal(t, 24, cfg.JWT.ExpireHours)
	assert.Equal(t, cfg, GlobalConfig)
}
