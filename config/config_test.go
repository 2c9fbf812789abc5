package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24, cfg.JWT.SessionExpireHours)
	assert.Equal(t, 15, cfg.Auth.TokenExpireMinutes)
	assert.Equal(t, []string{"@edu.uni.pl"}, cfg.Auth.AllowedDomains)
	assert.Equal(t, 10, cfg.SMTP.TimeoutSec)
	assert.False(t, cfg.App.Debug)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_EXPIRE_HOURS", "48")
	t.Setenv("ALLOWED_DOMAINS", "@pw.edu.pl, @student.pw.edu.pl")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 48, cfg.JWT.SessionExpireHours)
	assert.Equal(t, []string{"@pw.edu.pl", "@student.pw.edu.pl"}, cfg.Auth.AllowedDomains)
	assert.True(t, cfg.App.Debug)
}

func TestLoadRejectsNonPositiveLifetimes(t *testing.T) {
	t.Setenv("SESSION_EXPIRE_HOURS", "0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SESSION_EXPIRE_HOURS", "24")
	t.Setenv("TOKEN_EXPIRE_MINUTES", "-5")
	_, err = Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{
		Host: "db", Port: "5432", User: "app", Password: "secret",
		DBName: "zapisy", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://app:secret@db:5432/zapisy?sslmode=disable", db.DSN())

	db.URL = "postgres://other/dsn"
	assert.Equal(t, "postgres://other/dsn", db.DSN(), "explicit URL wins")
}
