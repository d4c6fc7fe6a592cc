package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConsoleConfigReadsShippedFile(t *testing.T) {
	viper.Reset()
	cfg, err := InitConsoleConfig("", "")
	require.NoError(t, err)

	// in_cluster has no default, so a true value proves the shipped file
	// was actually found and read.
	assert.True(t, cfg.Kubernetes.InCluster)
	assert.Equal(t, ":8080", cfg.Server.Host)
	assert.Equal(t, "/bin/sh", cfg.Stream.DefaultShell)
	assert.Equal(t, int64(1000), cfg.Stream.TailLines)
	require.Len(t, cfg.Clusters, 1)
	assert.Equal(t, "default", cfg.Clusters[0].Name)
}

func TestInitConsoleConfigDefaults(t *testing.T) {
	viper.Reset()
	cfg, err := InitConsoleConfig("no-such-config", "")
	require.NoError(t, err, "a missing file falls back to defaults")

	assert.Equal(t, ":8080", cfg.Server.Host)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, float32(20), cfg.Kubernetes.QPS)
	assert.Equal(t, 50, cfg.Kubernetes.Burst)
	assert.Equal(t, 10, cfg.Kubernetes.TimeoutSeconds)
	assert.False(t, cfg.Kubernetes.InCluster)
}
