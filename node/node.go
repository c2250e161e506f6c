// Package node contains the keyward node and the commands that run it.
package node

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/keyward/keyward/api/httpapi"
	"github.com/keyward/keyward/cmd"
	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/config"
	"github.com/keyward/keyward/config/presets"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/events"
	"github.com/keyward/keyward/gateway"
	"github.com/keyward/keyward/ledger"
	"github.com/keyward/keyward/log"
	"github.com/keyward/keyward/metrics"
	"github.com/keyward/keyward/recovery"
	"github.com/keyward/keyward/registry"
	"github.com/keyward/keyward/signing"
	"github.com/keyward/keyward/sql"
	"github.com/keyward/keyward/verifier"
)

// Addresses of the code shipped with the node.
var (
	RecoveryAddress       = registry.DeriveAddress("keyward/recovery/" + recovery.Version)
	AttestationAddress    = registry.DeriveAddress("keyward/verifier/attestation")
	SignedResponseAddress = registry.DeriveAddress("keyward/gateway/signed")
)

// GetCommand returns the node command.
func GetCommand() *cobra.Command {
	conf := config.DefaultConfig()
	var configPath *string
	c := &cobra.Command{
		Use:   "node",
		Short: "start node",
		RunE: func(c *cobra.Command, args []string) error {
			if err := configure(c, *configPath, &conf); err != nil {
				return err
			}
			logger, err := log.New(conf.LogLevel, conf.LogEncoder)
			if err != nil {
				return err
			}
			app := New(WithConfig(&conf), WithLog(logger))

			// os.Interrupt for all systems, especially windows, syscall.SIGTERM is mainly for docker.
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := os.MkdirAll(conf.DataDir, 0o700); err != nil {
				return fmt.Errorf("ensure folders exist: %w", err)
			}
			if err := app.Initialize(ctx); err != nil {
				return fmt.Errorf("initializing app: %w", err)
			}
			// Don't print usage on error from this point forward
			c.SilenceUsage = true

			// This blocks until the context is finished or until an error is produced
			err = app.Start(ctx)
			app.Cleanup()
			return err
		},
	}
	configPath = cmd.AddFlags(c.PersistentFlags(), &conf)

	// versionCmd returns the current version of keyward.
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(c *cobra.Command, args []string) {
			fmt.Println(cmd.Version)
		},
	}
	c.AddCommand(versionCmd)
	c.AddCommand(gatewayCommand(&conf, configPath))
	c.AddCommand(keygenCommand())
	return c
}

func configure(c *cobra.Command, configPath string, conf *config.Config) error {
	preset := conf.Preset // might be set via CLI flag
	if err := loadConfig(conf, preset, configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// apply CLI args to config
	if err := c.ParseFlags(os.Args[1:]); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	return nil
}

// loadConfig loads config and preset (if provided) into the provided config.
// It first loads the preset and then overrides it with values from the config file.
func loadConfig(cfg *config.Config, preset, path string) error {
	v := viper.New()
	// read in config from file
	if err := config.LoadConfig(path, v); err != nil {
		return err
	}

	// override default config with preset if provided
	if len(preset) == 0 && v.IsSet("main.preset") {
		preset = v.GetString("main.preset")
	}
	if len(preset) > 0 {
		p, err := presets.Get(preset)
		if err != nil {
			return err
		}
		*cfg = p
	}

	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	)
	opts := []viper.DecoderConfigOption{
		viper.DecodeHook(hook),
		WithZeroFields(),
		WithIgnoreUntagged(),
		WithErrorUnused(),
	}
	if err := v.Unmarshal(cfg, opts...); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// WithZeroFields resets maps and slices present in the file instead of merging them.
func WithZeroFields() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ZeroFields = true
	}
}

// WithIgnoreUntagged skips struct fields without a mapstructure tag.
func WithIgnoreUntagged() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.IgnoreUntaggedFields = true
	}
}

// WithErrorUnused fails on keys in the file that do not map to the config.
func WithErrorUnused() viper.DecoderConfigOption {
	return func(cfg *mapstructure.DecoderConfig) {
		cfg.ErrorUnused = true
	}
}

// Option to modify an App instance.
type Option func(app *App)

// WithConfig overwrites default App config.
func WithConfig(conf *config.Config) Option {
	return func(app *App) {
		app.Config = conf
	}
}

// WithLog enables logger for an App.
func WithLog(logger *zap.Logger) Option {
	return func(app *App) {
		app.log = logger
	}
}

// New creates an instance of the keyward app.
func New(opts ...Option) *App {
	defaultConfig := config.DefaultConfig()
	app := &App{
		Config: &defaultConfig,
		log:    log.NewNop(),
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// App is the cli app singleton.
type App struct {
	*config.Config

	log      *zap.Logger
	db       *sql.Database
	reporter *events.Reporter
	ledger   *ledger.Ledger
	eg       errgroup.Group
}

// Ledger returns the ledger once the app is initialized.
func (app *App) Ledger() *ledger.Ledger {
	return app.ledger
}

// Deployment is the parsed form of config.DeploymentConfig.
type Deployment struct {
	Domain         types.Domain
	Owner          types.Address
	Attesters      []*signing.PublicKey
	GatewaySigners []*signing.PublicKey
	Params         ledger.InitParams
}

// ParseDeployment validates the deployment config and resolves it to the
// addresses of the code shipped with the node.
func ParseDeployment(conf config.DeploymentConfig) (*Deployment, error) {
	address, err := types.HexToAddress(conf.Address)
	if err != nil {
		return nil, fmt.Errorf("deployment address: %w", err)
	}
	owner, err := types.HexToAddress(conf.Owner)
	if err != nil {
		return nil, fmt.Errorf("deployment owner: %w", err)
	}
	attesters, err := parseKeys(conf.Attesters)
	if err != nil {
		return nil, fmt.Errorf("attesters: %w", err)
	}
	signers, err := parseKeys(conf.GatewaySigners)
	if err != nil {
		return nil, fmt.Errorf("gateway signers: %w", err)
	}
	d := &Deployment{
		Domain: types.Domain{
			Name:              conf.Name,
			Version:           conf.Version,
			ChainID:           conf.ChainID,
			VerifyingContract: address,
		},
		Owner:          owner,
		Attesters:      attesters,
		GatewaySigners: signers,
		Params: ledger.InitParams{
			Implementation: RecoveryAddress,
			Verifier:       AttestationAddress,
			URLs:           conf.URLs,
		},
	}
	if len(signers) > 0 {
		d.Params.ResponseVerifier = SignedResponseAddress
	}
	for raw, balance := range conf.Balances {
		addr, err := types.HexToAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("balance of %q: %w", raw, err)
		}
		d.Params.Balances = append(d.Params.Balances, types.Account{Address: addr, Balance: balance})
	}
	slices.SortFunc(d.Params.Balances, func(a, b types.Account) int {
		return bytes.Compare(a.Address[:], b.Address[:])
	})
	return d, nil
}

func parseKeys(keys []string) ([]*signing.PublicKey, error) {
	rst := make([]*signing.PublicKey, 0, len(keys))
	for _, key := range keys {
		raw, err := hexutil.Decode(key)
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		if len(raw) != signing.PublicKeySize {
			return nil, fmt.Errorf("key %q: expected %d bytes, got %d", key, signing.PublicKeySize, len(raw))
		}
		rst = append(rst, signing.NewPublicKey(raw))
	}
	return rst, nil
}

// Initialize opens the database and creates the deployment if it does not exist yet.
func (app *App) Initialize(ctx context.Context) error {
	deployment, err := ParseDeployment(app.Deployment)
	if err != nil {
		return err
	}
	if len(deployment.Attesters) == 0 {
		app.log.Warn("no attesters configured, every liveness proof will be rejected")
	}
	db, err := sql.Open("file:"+app.DatabasePath(),
		sql.WithConnections(app.DatabaseConnections),
		sql.WithLatencyMetering(app.DatabaseLatencyMetering),
		sql.WithLogger(app.log.Named("db")),
	)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	app.db = db
	app.reporter = events.NewReporter(events.WithLogger(app.log.Named("events")))

	prefix := []byte(deployment.Domain.Name)
	impls := registry.New[core.Implementation]()
	impls.Register(RecoveryAddress, recovery.New(recovery.Version))
	verifiers := registry.New[core.Verifier]()
	verifiers.Register(AttestationAddress, verifier.NewAttestationVerifier(deployment.Attesters,
		verifier.WithMaxAge(app.Deployment.MaxAttestationAge),
		verifier.WithPrefix(prefix),
		verifier.WithLogger(app.log.Named("liveness")),
	))
	responseVerifiers := registry.New[core.ResponseVerifier]()
	if len(deployment.GatewaySigners) > 0 {
		responseVerifiers.Register(SignedResponseAddress,
			gateway.NewSignedResponseVerifier(prefix, deployment.GatewaySigners...))
	}

	app.ledger = ledger.New(db, deployment.Domain,
		ledger.WithLogger(app.log.Named("ledger")),
		ledger.WithImplementations(impls),
		ledger.WithVerifiers(verifiers),
		ledger.WithResponseVerifiers(responseVerifiers),
		ledger.WithReporter(app.reporter),
	)
	err = app.ledger.Initialize(ctx, deployment.Owner, deployment.Params)
	switch {
	case errors.Is(err, core.ErrAlreadyInitialized):
		app.log.Info("loaded existing deployment", zap.Object("domain", &deployment.Domain))
	case err != nil:
		return fmt.Errorf("create deployment: %w", err)
	default:
		app.log.Info("created deployment",
			zap.Object("domain", &deployment.Domain),
			zap.Stringer("owner", deployment.Owner),
		)
	}
	return nil
}

// Start serves the api, metrics and event log until ctx is canceled or a server fails.
func (app *App) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	api := httpapi.NewServer(app.API.Listen, app.ledger, app.log.Named("api"))
	app.eg.Go(func() error {
		defer cancel()
		return api.Start(ctx)
	})
	if app.Metrics.Enable {
		srv := metrics.NewServer(app.Metrics.Listen, app.log.Named("metrics"))
		app.eg.Go(func() error {
			defer cancel()
			return srv.Start(ctx)
		})
	}
	if app.Metrics.PushURL != "" {
		metrics.StartPushing(ctx, metrics.PushConfig{
			URL:      app.Metrics.PushURL,
			Period:   app.Metrics.PushPeriod,
			Instance: app.Deployment.Address,
		}, app.log.Named("metrics"))
	}

	sub := app.reporter.Subscribe(256, nil)
	app.eg.Go(func() error {
		defer sub.Close()
		logger := app.log.Named("eventlog")
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-sub.Out():
				if !ok {
					return nil
				}
				logger.Info("event", zap.Object("event", &ev))
			}
		}
	})
	app.log.Info("node started", zap.String("version", cmd.Version))
	return app.eg.Wait()
}

// Cleanup stops all app services.
func (app *App) Cleanup() {
	app.log.Info("app cleanup starting...")
	if app.reporter != nil {
		app.reporter.Close()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.log.Error("error closing database", zap.Error(err))
		}
	}
	app.log.Info("app cleanup completed")
	_ = app.log.Sync()
}
