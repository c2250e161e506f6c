// Package recovery is the business implementation deployed behind the implementation slot.
package recovery

import (
	"fmt"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/enrollment"
	"github.com/keyward/keyward/gateway"
	"github.com/keyward/keyward/nonces"
	"github.com/keyward/keyward/relay"
)

// Version of the first release.
const Version = "1.0.0"

// Migration runs post-upgrade steps.
type Migration func(ctx *core.Context, data []byte) error

// Opt for configuring Implementation.
type Opt func(*Implementation)

// WithMigration sets the migration run by upgradeToAndCall with non-empty data.
func WithMigration(migration Migration) Opt {
	return func(impl *Implementation) {
		impl.migration = migration
	}
}

// Implementation composes enrollment, the authorization nonce ledger, the
// relay and the gateway.
type Implementation struct {
	version   string
	migration Migration
}

// New creates implementation that reports version.
func New(version string, opts ...Opt) *Implementation {
	impl := &Implementation{version: version}
	for _, opt := range opts {
		opt(impl)
	}
	return impl
}

// Version implements core.Implementation.
func (i *Implementation) Version() string {
	return i.version
}

// Migrate implements core.Implementation.
func (i *Implementation) Migrate(ctx *core.Context, data []byte) error {
	if i.migration == nil {
		return fmt.Errorf("version %s has no migration for %d bytes of data", i.version, len(data))
	}
	return i.migration(ctx, data)
}

// Enroll implements core.Implementation.
func (*Implementation) Enroll(ctx *core.Context, commitment core.Hash32, proof []byte) error {
	return enrollment.Enroll(ctx, commitment, proof)
}

// Revoke implements core.Implementation.
func (*Implementation) Revoke(ctx *core.Context) error {
	return enrollment.Revoke(ctx)
}

// Update implements core.Implementation.
func (*Implementation) Update(ctx *core.Context, commitment core.Hash32, proof []byte) error {
	return enrollment.Update(ctx, commitment, proof)
}

// Authorize implements core.Implementation.
func (*Implementation) Authorize(ctx *core.Context, req core.AuthorizationRequest) error {
	return enrollment.Authorize(ctx, req)
}

// ConsumeNonce implements core.Implementation.
func (*Implementation) ConsumeNonce(ctx *core.Context, nonce uint64) error {
	return nonces.Consume(ctx, nonce)
}

// ExecuteIntent implements core.Implementation.
func (*Implementation) ExecuteIntent(ctx *core.Context, intent *types.Intent) error {
	return relay.ExecuteIntent(ctx, intent)
}

// Resolve implements core.Implementation.
func (*Implementation) Resolve(ctx *core.Context, name, data []byte) ([]byte, error) {
	return gateway.Resolve(ctx, name, data)
}

// ResolveWithProof implements core.Implementation.
func (*Implementation) ResolveWithProof(ctx *core.Context, response, extraData []byte) ([]byte, error) {
	return gateway.ResolveWithProof(ctx, response, extraData)
}
