package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config that passes Validate.
func validConfig() *Config {
	cfg := &Config{}
	cfg.Sources.BioPortal.APIKey = "test-key"
	ApplyDefaults(cfg)
	cfg.Database.Username = "oncoterm"
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_ServerPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestValidate_ServerMode(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Mode = "production"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.mode")
}

func TestValidate_DatabaseRequiredFields(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Database.Username = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Database.Database = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_RedisAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Redis.Addr = ""
	cfg.Redis.ClusterAddrs = nil
	assert.Error(t, cfg.Validate())

	// A cluster address list satisfies the requirement without addr.
	cfg.Redis.ClusterAddrs = []string{"localhost:7000"}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Kafka(t *testing.T) {
	cfg := validConfig()
	cfg.Kafka.Brokers = nil
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Kafka.Consumer.GroupID = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group_id")
}

func TestValidate_BioPortalAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Sources.BioPortal.APIKey = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestValidate_PipelineConcurrency(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.Concurrency = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_LogSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Log.Format = "text"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Log.Format = "console"
	assert.NoError(t, cfg.Validate())
}

//Personal.AI order the ending
