package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "oncoterm:src:hgnc-search:trop2", Key("hgnc-search", "TROP2"))
	assert.Equal(t, "oncoterm:src:bioportal:breast cancer", Key("bioportal", "  Breast Cancer "))
}

func TestJitter_StaysWithinTenPercent(t *testing.T) {
	ttl := time.Hour
	for i := 0; i < 100; i++ {
		j := jitter(ttl)
		assert.GreaterOrEqual(t, j, ttl)
		assert.LessOrEqual(t, j, ttl+ttl/10)
	}
}

func TestJitter_ZeroTTLUntouched(t *testing.T) {
	assert.Equal(t, time.Duration(0), jitter(0))
}

func TestApplyDefaults(t *testing.T) {
	cfg := &RedisConfig{}
	applyDefaults(cfg)
	assert.Equal(t, "standalone", cfg.Mode)
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 3, cfg.MaxRetries)
}

//Personal.AI order the ending
