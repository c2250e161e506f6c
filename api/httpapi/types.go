package httpapi

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// AccountInfo is the state of a single address.
type AccountInfo struct {
	Address        types.Address `json:"address"`
	Enrolled       bool          `json:"enrolled"`
	Commitment     *types.Hash32 `json:"commitment,omitempty"`
	EnrolledAt     uint64        `json:"enrolledAt,omitempty"`
	NextNonce      uint64        `json:"nextNonce"`
	ExecutionNonce uint64        `json:"executionNonce"`
	Balance        uint64        `json:"balance"`
}

// VersionInfo describes the code behind the implementation slot.
type VersionInfo struct {
	Version        string        `json:"version"`
	Implementation types.Address `json:"implementation"`
	UpgradedAt     uint64        `json:"upgradedAt"`
}

// OwnershipInfo is the deployment-level privileged state.
type OwnershipInfo struct {
	Owner            types.Address `json:"owner"`
	PendingOwner     types.Address `json:"pendingOwner"`
	Paused           bool          `json:"paused"`
	Verifier         types.Address `json:"verifier"`
	ResponseVerifier types.Address `json:"responseVerifier"`
	URLs             []string      `json:"urls"`
	Domain           DomainInfo    `json:"domain"`
}

// DomainInfo is the typed-data domain of the deployment.
type DomainInfo struct {
	Name              string        `json:"name"`
	Version           string        `json:"version"`
	ChainID           uint64        `json:"chainId"`
	VerifyingContract types.Address `json:"verifyingContract"`
}

// Intent is the json form of a signed intent.
type Intent struct {
	From      types.Address `json:"from"`
	To        types.Address `json:"to"`
	Value     uint64        `json:"value"`
	Data      hexutil.Bytes `json:"data"`
	Nonce     uint64        `json:"nonce"`
	Deadline  uint64        `json:"deadline"`
	Signature hexutil.Bytes `json:"signature"`
}

func (i *Intent) toIntent() *types.Intent {
	return &types.Intent{
		From:      i.From,
		To:        i.To,
		Value:     i.Value,
		Data:      i.Data,
		Nonce:     i.Nonce,
		Deadline:  i.Deadline,
		Signature: i.Signature,
	}
}

// ExecuteRequest submits an intent on behalf of the relayer, who attaches value.
// RelayerSignature is produced with relay.SignSubmission by the relayer key.
type ExecuteRequest struct {
	Relayer          types.Address `json:"relayer"`
	Value            uint64        `json:"value"`
	Intent           Intent        `json:"intent"`
	RelayerSignature hexutil.Bytes `json:"relayerSignature"`
}

// ResolveRequest asks for a lookup of name.
type ResolveRequest struct {
	Caller types.Address `json:"caller"`
	Name   string        `json:"name"`
	Data   hexutil.Bytes `json:"data"`
}

// Lookup is the json form of core.OffchainLookup.
type Lookup struct {
	Sender           types.Address  `json:"sender"`
	URLs             []string       `json:"urls"`
	CallData         hexutil.Bytes  `json:"callData"`
	CallbackFunction types.Selector `json:"callbackFunction"`
	ExtraData        hexutil.Bytes  `json:"extraData"`
}

func fromLookup(l *core.OffchainLookup) Lookup {
	return Lookup{
		Sender:           l.Sender,
		URLs:             l.URLs,
		CallData:         l.CallData,
		CallbackFunction: l.CallbackFunction,
		ExtraData:        l.ExtraData,
	}
}

// CallbackRequest submits a gateway response to the continuation.
type CallbackRequest struct {
	Caller    types.Address `json:"caller"`
	Response  hexutil.Bytes `json:"response"`
	ExtraData hexutil.Bytes `json:"extraData"`
}

// CallbackResponse carries the verified result.
type CallbackResponse struct {
	Result hexutil.Bytes `json:"result"`
}
