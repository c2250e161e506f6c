// Package cmd is the base package for keyward executables.
package cmd

import (
	"github.com/spf13/pflag"

	"github.com/keyward/keyward/config"
)

var (
	// Version is the app's semantic version. Designed to be overwritten by make.
	Version string

	// Commit is the git commit used to build the app. Designed to be overwritten by make.
	Commit string
)

// AddFlags adds node flags to flagSet, writing parsed values into conf.
// It returns the pointer to the config file path.
func AddFlags(flagSet *pflag.FlagSet, conf *config.Config) (configPath *string) {
	configPath = flagSet.StringP("config", "c", "", "load configuration from file")
	flagSet.StringVarP(&conf.Preset, "preset", "p", conf.Preset,
		"preset overwrites default values of the config")

	/** ======================== Main Flags ========================== **/
	flagSet.StringVarP(&conf.DataDir, "data-dir", "d", conf.DataDir,
		"directory with the node database")
	flagSet.StringVar(&conf.LogLevel, "log-level", conf.LogLevel,
		"log level: debug, info, warn, error")
	flagSet.StringVar(&conf.LogEncoder, "log-encoder", conf.LogEncoder,
		"log encoder: console or json")
	flagSet.IntVar(&conf.DatabaseConnections, "db-connections", conf.DatabaseConnections,
		"number of pooled database connections")
	flagSet.BoolVar(&conf.DatabaseLatencyMetering, "db-latency-metering", conf.DatabaseLatencyMetering,
		"record latency of every database query")

	/** ======================== Deployment Flags ========================== **/
	flagSet.StringVar(&conf.Deployment.Name, "deployment-name", conf.Deployment.Name,
		"name in the typed-data domain")
	flagSet.Uint64Var(&conf.Deployment.ChainID, "chain-id", conf.Deployment.ChainID,
		"chain id in the typed-data domain")
	flagSet.StringVar(&conf.Deployment.Address, "address", conf.Deployment.Address,
		"address of the deployment, verifying contract of typed-data signatures")
	flagSet.StringVar(&conf.Deployment.Owner, "owner", conf.Deployment.Owner,
		"owner set when the deployment is created")
	flagSet.StringSliceVar(&conf.Deployment.URLs, "gateway-urls", conf.Deployment.URLs,
		"gateway url templates advertised in lookups")
	flagSet.StringSliceVar(&conf.Deployment.Attesters, "attesters", conf.Deployment.Attesters,
		"hex encoded ed25519 keys trusted to attest liveness")
	flagSet.DurationVar(&conf.Deployment.MaxAttestationAge, "max-attestation-age",
		conf.Deployment.MaxAttestationAge, "oldest liveness attestation accepted")
	flagSet.StringSliceVar(&conf.Deployment.GatewaySigners, "gateway-signers", conf.Deployment.GatewaySigners,
		"hex encoded ed25519 keys trusted to sign gateway responses")

	/** ======================== API Flags ========================== **/
	flagSet.StringVar(&conf.API.Listen, "api-listen", conf.API.Listen, "json api listen address")

	/** ======================== Metrics Flags ========================== **/
	flagSet.BoolVar(&conf.Metrics.Enable, "metrics", conf.Metrics.Enable, "serve prometheus metrics")
	flagSet.StringVar(&conf.Metrics.Listen, "metrics-listen", conf.Metrics.Listen, "metrics listen address")
	flagSet.StringVar(&conf.Metrics.PushURL, "metrics-push", conf.Metrics.PushURL, "push metrics to url")
	flagSet.DurationVar(&conf.Metrics.PushPeriod, "metrics-push-period", conf.Metrics.PushPeriod,
		"period to push metrics")

	/** ======================== Gateway Flags ========================== **/
	flagSet.StringVar(&conf.Gateway.Listen, "gateway-listen", conf.Gateway.Listen, "gateway listen address")
	flagSet.StringVar(&conf.Gateway.RecordsFile, "gateway-records", conf.Gateway.RecordsFile,
		"json file with records served by the gateway")
	flagSet.StringVar(&conf.Gateway.KeyFile, "gateway-key", conf.Gateway.KeyFile,
		"file with the gateway signing key")
	flagSet.DurationVar(&conf.Gateway.TTL, "gateway-ttl", conf.Gateway.TTL, "validity of signed responses")
	return configPath
}
