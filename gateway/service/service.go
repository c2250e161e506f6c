// Package service is the off-chain side of name resolution. It answers lookups
// with responses signed for the signed response verifier.
package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/keyward/keyward/codec"
	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/gateway"
	"github.com/keyward/keyward/signing"
)

// Config for the service.
type Config struct {
	Listen      string        `mapstructure:"listen"`
	RecordsFile string        `mapstructure:"records-file"`
	KeyFile     string        `mapstructure:"key-file"`
	TTL         time.Duration `mapstructure:"ttl"`
}

// DefaultConfig for the service.
func DefaultConfig() Config {
	return Config{
		Listen:      "127.0.0.1:9095",
		RecordsFile: "records.json",
		KeyFile:     "gateway.key",
		TTL:         5 * time.Minute,
	}
}

// Opt for configuring Service.
type Opt func(*Service)

// WithLogger sets logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets clock used to compute expiry.
func WithClock(clock clockwork.Clock) Opt {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithTTL sets validity of signed responses.
func WithTTL(ttl time.Duration) Opt {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// Service answers lookups from records.
type Service struct {
	logger *zap.Logger
	clock  clockwork.Clock
	ttl    time.Duration
	signer *signing.EdSigner

	mu      sync.RWMutex
	records Records
}

// New creates Service signing answers with signer.
func New(signer *signing.EdSigner, records Records, opts ...Opt) *Service {
	s := &Service{
		logger:  zap.NewNop(),
		clock:   clockwork.NewRealClock(),
		ttl:     DefaultConfig().TTL,
		signer:  signer,
		records: records,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRecords replaces served records.
func (s *Service) SetRecords(records Records) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}

// Handler returns routes of the service.
func (s *Service) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/:sender/:data", s.getHandler)
	r.POST("/:sender", s.postHandler)
	return r
}

func renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gateway.LookupError{Message: err.Error()})
}

func (s *Service) getHandler(c *gin.Context) {
	data := strings.TrimSuffix(c.Param("data"), ".json")
	s.answer(c, c.Param("sender"), data)
}

func (s *Service) postHandler(c *gin.Context) {
	var req gateway.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, http.StatusBadRequest, err)
		return
	}
	if !strings.EqualFold(req.Sender, c.Param("sender")) {
		renderError(c, http.StatusBadRequest, errors.New("sender mismatch"))
		return
	}
	s.answer(c, req.Sender, req.Data)
}

func (s *Service) answer(c *gin.Context, rawSender, rawData string) {
	sender, err := types.HexToAddress(rawSender)
	if err != nil {
		renderError(c, http.StatusBadRequest, err)
		return
	}
	callData, err := hexutil.Decode(rawData)
	if err != nil {
		renderError(c, http.StatusBadRequest, fmt.Errorf("decode data: %w", err))
		return
	}
	var req gateway.Request
	if err := codec.Decode(callData, &req); err != nil {
		renderError(c, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	s.mu.RLock()
	answer, exist := s.records.Lookup(string(req.Name), string(req.Query))
	s.mu.RUnlock()
	if !exist {
		renderError(c, http.StatusNotFound, fmt.Errorf("no record for %q", req.Name))
		return
	}
	expires := uint64(s.clock.Now().Add(s.ttl).Unix())
	response := gateway.SignResponse(s.signer, sender, expires, callData, []byte(answer))
	s.logger.Debug("answered lookup",
		zap.Stringer("sender", sender),
		zap.ByteString("name", req.Name),
		zap.Uint64("expires", expires),
	)
	c.JSON(http.StatusOK, gateway.LookupResponse{Data: hexutil.Encode(response)})
}

// Serve answers lookups on listener until ctx is canceled.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("serving gateway",
		zap.Stringer("address", ln.Addr()),
		zap.Stringer("signer", s.signer.PublicKey()),
	)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("gateway shutdown", zap.Error(err))
		}
	}()
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
