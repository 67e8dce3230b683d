package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "COP", cfg.DefaultCurrency)
	assert.Equal(t, "0.19", cfg.TaxRate.String())
	assert.Equal(t, 50, cfg.MaxReportRows)
	assert.Equal(t, 4, cfg.RetrieverK)
	assert.Equal(t, "30-M", cfg.IngestRateLimit)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"DEFAULT_CURRENCY":     "usd",
		"TAX_RATE":             "0.05",
		"JWT_EXPIRY_DURATION":  "15m",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example ,",
		"RETRIEVER_K":          8,
	}))
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.Equal(t, "0.05", cfg.TaxRate.String())
	assert.Equal(t, 15*time.Minute, cfg.JWTExpiryDuration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 8, cfg.RetrieverK)
}

func TestFromViper_InvalidValues(t *testing.T) {
	_, err := fromViper(newViper(map[string]any{"TAX_RATE": "19%"}))
	assert.Error(t, err)

	_, err = fromViper(newViper(map[string]any{"IS_PRODUCTION": true}))
	assert.Error(t, err, "production requires an explicit JWT secret")

	cfg, err := fromViper(newViper(map[string]any{"JWT_EXPIRY_DURATION": "soon"}))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
}
