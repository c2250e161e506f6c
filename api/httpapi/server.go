// Package httpapi exposes ledger entry points used by relayers and lookup callers over json.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/relay"
)

const maxEvents = 1000

// Ledger is the subset of the ledger served over http.
type Ledger interface {
	Domain() types.Domain
	IsEnrolled(account types.Address) (bool, error)
	EnrolledCommitment(account types.Address) (types.Commitment, error)
	GetNextNonce(account types.Address) (uint64, error)
	GetExecutionNonce(account types.Address) (uint64, error)
	Balance(account types.Address) (uint64, error)
	Version() (string, error)
	Implementation() (types.ImplementationRecord, error)
	Ownership() (types.OwnershipState, error)
	URLs() ([]string, error)
	Events(from uint64, limit int) ([]types.Event, error)

	ExecuteIntent(ctx context.Context, call core.Call, intent *types.Intent) error
	Resolve(ctx context.Context, call core.Call, name, data []byte) ([]byte, error)
	ResolveWithProof(ctx context.Context, call core.Call, response, extraData []byte) ([]byte, error)
}

// Config for the api.
type Config struct {
	Listen string `mapstructure:"listen"`
}

// DefaultConfig for the api.
func DefaultConfig() Config {
	return Config{Listen: "127.0.0.1:9094"}
}

// Server is the json api of a node.
type Server struct {
	logger *zap.Logger
	ledger Ledger
	srv    *http.Server
}

// NewServer creates Server listening on addr once Start is called.
func NewServer(addr string, ledger Ledger, logger *zap.Logger) *Server {
	s := &Server{logger: logger, ledger: ledger}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns api routes.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	v1 := r.Group("/v1")
	v1.GET("/accounts/:address", s.accountHandler)
	v1.GET("/version", s.versionHandler)
	v1.GET("/ownership", s.ownershipHandler)
	v1.GET("/events", s.eventsHandler)
	v1.POST("/intents", s.executeHandler)
	v1.POST("/resolve", s.resolveHandler)
	v1.POST("/resolve/callback", s.callbackHandler)
	return r
}

// Start serves the api until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("serving api", zap.Stringer("address", ln.Addr()))
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("api server shutdown", zap.Error(err))
		}
	}()
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func status(kind core.Kind) int {
	switch kind {
	case core.KindPrecondition:
		return http.StatusUnprocessableEntity
	case core.KindReplay:
		return http.StatusConflict
	case core.KindCryptographic:
		return http.StatusBadRequest
	case core.KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) renderError(c *gin.Context, err error) {
	kind := core.Classify(err)
	if kind == core.KindInternal {
		s.logger.Error("api request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status(kind), errorResponse{Error: err.Error(), Kind: kind.String()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "invalid"})
}

func (s *Server) accountHandler(c *gin.Context) {
	address, err := types.HexToAddress(c.Param("address"))
	if err != nil {
		badRequest(c, err)
		return
	}
	info := AccountInfo{Address: address}
	commitment, err := s.ledger.EnrolledCommitment(address)
	switch {
	case err == nil:
		info.Enrolled = true
		info.Commitment = &commitment.Hash
		info.EnrolledAt = commitment.EnrolledAt
	case !errors.Is(err, core.ErrFaceNotEnrolled):
		s.renderError(c, err)
		return
	}
	if info.NextNonce, err = s.ledger.GetNextNonce(address); err != nil {
		s.renderError(c, err)
		return
	}
	if info.ExecutionNonce, err = s.ledger.GetExecutionNonce(address); err != nil {
		s.renderError(c, err)
		return
	}
	if info.Balance, err = s.ledger.Balance(address); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) versionHandler(c *gin.Context) {
	version, err := s.ledger.Version()
	if err != nil {
		s.renderError(c, err)
		return
	}
	record, err := s.ledger.Implementation()
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, VersionInfo{
		Version:        version,
		Implementation: record.Address,
		UpgradedAt:     record.UpgradedAt,
	})
}

func (s *Server) ownershipHandler(c *gin.Context) {
	state, err := s.ledger.Ownership()
	if err != nil {
		s.renderError(c, err)
		return
	}
	urls, err := s.ledger.URLs()
	if err != nil {
		s.renderError(c, err)
		return
	}
	domain := s.ledger.Domain()
	c.JSON(http.StatusOK, OwnershipInfo{
		Owner:            state.Owner,
		PendingOwner:     state.PendingOwner,
		Paused:           state.Paused,
		Verifier:         state.Verifier,
		ResponseVerifier: state.ResponseVerifier,
		URLs:             urls,
		Domain: DomainInfo{
			Name:              domain.Name,
			Version:           domain.Version,
			ChainID:           domain.ChainID,
			VerifyingContract: domain.VerifyingContract,
		},
	})
}

func (s *Server) eventsHandler(c *gin.Context) {
	from, err := strconv.ParseUint(c.DefaultQuery("from", "0"), 10, 64)
	if err != nil {
		badRequest(c, fmt.Errorf("from: %w", err))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 || limit > maxEvents {
		badRequest(c, fmt.Errorf("limit must be within 1 and %d", maxEvents))
		return
	}
	evs, err := s.ledger.Events(from, limit)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if evs == nil {
		evs = []types.Event{}
	}
	c.JSON(http.StatusOK, evs)
}

func (s *Server) executeHandler(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	intent := req.Intent.toIntent()
	err := relay.VerifySubmission(s.ledger.Domain(), req.Relayer, intent, req.Value, req.RelayerSignature)
	if err != nil {
		s.renderError(c, err)
		return
	}
	call := core.Call{Caller: req.Relayer, Value: req.Value}
	if err := s.ledger.ExecuteIntent(c.Request.Context(), call, intent); err != nil {
		s.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) resolveHandler(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	_, err := s.ledger.Resolve(c.Request.Context(), core.Call{Caller: req.Caller}, []byte(req.Name), req.Data)
	var lookup *core.OffchainLookup
	switch {
	case errors.As(err, &lookup):
		c.JSON(http.StatusOK, fromLookup(lookup))
	case err != nil:
		s.renderError(c, err)
	default:
		s.renderError(c, fmt.Errorf("%w: resolve returned without lookup", core.ErrInternal))
	}
}

func (s *Server) callbackHandler(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := s.ledger.ResolveWithProof(c.Request.Context(), core.Call{Caller: req.Caller}, req.Response, req.ExtraData)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, CallbackResponse{Result: result})
}
