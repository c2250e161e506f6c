package cmd

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/keyward/keyward/config"
)

func TestAddFlags(t *testing.T) {
	conf := config.DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	path := AddFlags(fs, &conf)

	require.NoError(t, fs.Parse([]string{
		"-c", "node.toml",
		"--chain-id", "5",
		"--gateway-urls", "https://a/{sender}/{data}.json,https://b/{sender}",
		"--gateway-ttl", "30s",
		"--metrics",
		"--db-latency-metering",
	}))
	require.Equal(t, "node.toml", *path)
	require.Equal(t, uint64(5), conf.Deployment.ChainID)
	require.Len(t, conf.Deployment.URLs, 2)
	require.Equal(t, 30*time.Second, conf.Gateway.TTL)
	require.True(t, conf.Metrics.Enable)
	require.True(t, conf.DatabaseLatencyMetering)
	require.Equal(t, config.DefaultConfig().API.Listen, conf.API.Listen)
}
