// Package gateway resolves names through an off-chain service using a
// lookup and continuation pair of entry points.
package gateway

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/keyward/keyward/codec"
	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/ownership"
	"github.com/keyward/keyward/sql/deployment"
)

// CallbackSignature is the continuation entry point named in every lookup.
const CallbackSignature = "resolveWithProof(bytes,bytes)"

// CallbackFunction is the selector of CallbackSignature.
var CallbackFunction = types.SelectorOf(CallbackSignature)

// Resolve never returns a value. It signals *core.OffchainLookup describing where
// to fetch the answer and how to resubmit it.
func Resolve(ctx *core.Context, name, query []byte) ([]byte, error) {
	if err := ownership.RequireNotPaused(ctx); err != nil {
		return nil, err
	}
	if len(name) > MaxNameSize || len(query) > MaxQuerySize {
		return nil, fmt.Errorf("%w: name %d bytes, query %d bytes", core.ErrRequestTooLarge, len(name), len(query))
	}
	urls, err := deployment.URLs(ctx.Executor)
	if err != nil {
		return nil, core.Internal(err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: no gateway urls configured", core.ErrEmptyUrl)
	}
	// query is carried unchanged, wrapped with the name the service keys records by
	callData := codec.MustEncode(&Request{Name: name, Query: query})
	sender := ctx.Domain.VerifyingContract
	ctx.Logger.Debug("offchain lookup",
		zap.ByteString("name", name),
		zap.Strings("urls", urls),
	)
	return nil, &core.OffchainLookup{
		Sender:           sender,
		URLs:             urls,
		CallData:         callData,
		CallbackFunction: CallbackFunction,
		ExtraData:        codec.MustEncode(&ExtraData{Sender: sender, CallData: callData}),
	}
}

// ResolveWithProof is the continuation. With no response verifier configured the
// response is returned unchanged.
func ResolveWithProof(ctx *core.Context, response, extraData []byte) ([]byte, error) {
	if err := ownership.RequireNotPaused(ctx); err != nil {
		return nil, err
	}
	verifier, err := ctx.ResponseVerifier()
	if err != nil {
		return nil, err
	}
	if verifier == nil {
		return response, nil
	}
	return verifier.VerifyResponse(ctx, response, extraData)
}
