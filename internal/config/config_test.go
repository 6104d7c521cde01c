package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 2, cfg.Crawler.MaxDepth)
	assert.Equal(t, 10, cfg.Crawler.LinksPerPage)
	assert.Equal(t, 40, cfg.Crawler.MaxPages)
	assert.Equal(t, 60*time.Second, cfg.Crawler.Budget)
	assert.Equal(t, 500*time.Millisecond, cfg.Crawler.MinDelay)
	assert.True(t, cfg.Crawler.FollowRobotsTxt)
	assert.Equal(t, "csv", cfg.Export.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestGetReturnsLoadedConfig(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Same(t, cfg, Get())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		copied := *cfg
		return &copied
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero depth",
			mutate:  func(c *Config) { c.Crawler.MaxDepth = 0 },
			wantErr: "max_depth",
		},
		{
			name:    "zero page budget",
			mutate:  func(c *Config) { c.Crawler.MaxPages = 0 },
			wantErr: "max_pages",
		},
		{
			name:    "negative time budget",
			mutate:  func(c *Config) { c.Crawler.Budget = -time.Second },
			wantErr: "budget",
		},
		{
			name: "inverted delay band",
			mutate: func(c *Config) {
				c.Crawler.MinDelay = 2 * time.Second
				c.Crawler.MaxDelay = time.Second
			},
			wantErr: "min_delay",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
