package gateway

import (
	"encoding/binary"

	"github.com/spacemeshos/go-scale"

	"github.com/keyward/keyward/codec"
	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/signing"
)

const (
	// MaxNameSize bounds names accepted by Resolve.
	MaxNameSize = 255
	// MaxQuerySize bounds query payload accepted by Resolve.
	MaxQuerySize = 4 << 10
	// MaxResultSize bounds gateway results.
	MaxResultSize = 64 << 10
)

// Request is the payload sent to the off-chain service.
type Request struct {
	Name  []byte
	Query []byte
}

// EncodeScale implements scale codec interface.
func (r *Request) EncodeScale(enc *scale.Encoder) (total int, err error) {
	n, err := codec.EncodeBytes(enc, r.Name, MaxNameSize)
	if err != nil {
		return total, err
	}
	total += n
	n, err = codec.EncodeBytes(enc, r.Query, MaxQuerySize)
	if err != nil {
		return total, err
	}
	return total + n, nil
}

// DecodeScale implements scale codec interface.
func (r *Request) DecodeScale(dec *scale.Decoder) (total int, err error) {
	name, n, err := codec.DecodeBytes(dec, MaxNameSize)
	if err != nil {
		return total, err
	}
	total += n
	query, n, err := codec.DecodeBytes(dec, MaxQuerySize)
	if err != nil {
		return total, err
	}
	r.Name, r.Query = name, query
	return total + n, nil
}

// ExtraData is passed through the caller untouched and returned to the continuation.
type ExtraData struct {
	Sender   types.Address
	CallData []byte
}

// EncodeScale implements scale codec interface.
func (e *ExtraData) EncodeScale(enc *scale.Encoder) (total int, err error) {
	n, err := e.Sender.EncodeScale(enc)
	if err != nil {
		return total, err
	}
	total += n
	n, err = codec.EncodeBytes(enc, e.CallData, MaxNameSize+MaxQuerySize+16)
	if err != nil {
		return total, err
	}
	return total + n, nil
}

// DecodeScale implements scale codec interface.
func (e *ExtraData) DecodeScale(dec *scale.Decoder) (total int, err error) {
	n, err := e.Sender.DecodeScale(dec)
	if err != nil {
		return total, err
	}
	total += n
	data, n, err := codec.DecodeBytes(dec, MaxNameSize+MaxQuerySize+16)
	if err != nil {
		return total, err
	}
	e.CallData = data
	return total + n, nil
}

// SignedResponse is the response format understood by SignedResponseVerifier.
type SignedResponse struct {
	Result    []byte
	Expires   uint64
	Signer    [signing.PublicKeySize]byte
	Signature signing.Signature
}

// EncodeScale implements scale codec interface.
func (r *SignedResponse) EncodeScale(enc *scale.Encoder) (total int, err error) {
	n, err := codec.EncodeBytes(enc, r.Result, MaxResultSize)
	if err != nil {
		return total, err
	}
	total += n
	n, err = scale.EncodeCompact64(enc, r.Expires)
	if err != nil {
		return total, err
	}
	total += n
	for _, field := range [][]byte{r.Signer[:], r.Signature[:]} {
		n, err := scale.EncodeByteArray(enc, field)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (r *SignedResponse) DecodeScale(dec *scale.Decoder) (total int, err error) {
	result, n, err := codec.DecodeBytes(dec, MaxResultSize)
	if err != nil {
		return total, err
	}
	total += n
	r.Result = result
	expires, n, err := scale.DecodeCompact64(dec)
	if err != nil {
		return total, err
	}
	total += n
	r.Expires = expires
	for _, field := range [][]byte{r.Signer[:], r.Signature[:]} {
		n, err := scale.DecodeByteArray(dec, field)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// ResponseDigest is the message signed by the off-chain service:
// keccak(0x1900 || sender || expires || keccak(request) || keccak(result)).
func ResponseDigest(sender types.Address, expires uint64, request, result []byte) types.Hash32 {
	var exp [8]byte
	binary.BigEndian.PutUint64(exp[:], expires)
	requestHash := types.Keccak256(request)
	resultHash := types.Keccak256(result)
	return types.Keccak256([]byte{0x19, 0x00}, sender[:], exp[:], requestHash[:], resultHash[:])
}

// SignResponse produces an encoded SignedResponse for result of request.
func SignResponse(signer *signing.EdSigner, sender types.Address, expires uint64, request, result []byte) []byte {
	digest := ResponseDigest(sender, expires, request, result)
	response := &SignedResponse{
		Result:    result,
		Expires:   expires,
		Signer:    signer.PublicKey().Array(),
		Signature: signer.Sign(signing.GATEWAY, digest[:]),
	}
	return codec.MustEncode(response)
}
