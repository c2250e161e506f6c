package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
)

// PushConfig describes a prometheus push gateway target.
type PushConfig struct {
	URL      string
	Username string
	Password string
	Headers  map[string]string
	Period   time.Duration
	Instance string
}

// StartPushing pushes the default registry to the gateway every period until ctx is canceled.
func StartPushing(ctx context.Context, cfg PushConfig, logger *zap.Logger) {
	header := http.Header{}
	for k, v := range cfg.Headers {
		header.Add(k, v)
	}
	pusher := push.New(cfg.URL, "keyward").
		Gatherer(prometheus.DefaultGatherer).
		Grouping("instance", cfg.Instance).
		Header(header)
	if cfg.Username != "" && cfg.Password != "" {
		pusher = pusher.BasicAuth(cfg.Username, cfg.Password)
	}
	go func() {
		ticker := time.NewTicker(cfg.Period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := pusher.PushContext(ctx); err != nil {
					logger.Warn("failed to push metrics", zap.Error(err))
				}
			}
		}
	}()
}
