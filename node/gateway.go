package node

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/keyward/keyward/config"
	"github.com/keyward/keyward/gateway/service"
	"github.com/keyward/keyward/log"
	"github.com/keyward/keyward/signing"
)

func gatewayCommand(conf *config.Config, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:          "gateway",
		Short:        "Answer off-chain lookups from a records file",
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			if err := configure(c, *configPath, conf); err != nil {
				return err
			}
			logger, err := log.New(conf.LogLevel, conf.LogEncoder)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runGateway(ctx, afero.NewOsFs(), conf, logger)
		},
	}
}

func runGateway(ctx context.Context, fs afero.Fs, conf *config.Config, logger *zap.Logger) error {
	signer, err := signing.NewEdSigner(
		signing.WithFilesystem(fs),
		signing.FromFile(conf.Gateway.KeyFile),
		signing.WithPrefix([]byte(conf.Deployment.Name)),
	)
	if err != nil {
		return fmt.Errorf("load gateway key: %w", err)
	}
	records, err := service.LoadRecords(fs, conf.Gateway.RecordsFile)
	if err != nil {
		return err
	}
	svc := service.New(signer, records,
		service.WithLogger(logger.Named("gateway")),
		service.WithTTL(conf.Gateway.TTL),
	)

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-reload:
				records, err := service.LoadRecords(fs, conf.Gateway.RecordsFile)
				if err != nil {
					logger.Error("failed to reload records", zap.Error(err))
					continue
				}
				svc.SetRecords(records)
				logger.Info("reloaded records", zap.Int("names", len(records)))
			}
		}
	}()

	ln, err := net.Listen("tcp", conf.Gateway.Listen)
	if err != nil {
		return err
	}
	return svc.Serve(ctx, ln)
}
