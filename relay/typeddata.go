package relay

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
)

var (
	domainTypeHash = types.Keccak256([]byte(
		"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	intentTypeHash = types.Keccak256([]byte(
		"Intent(address from,address to,uint256 value,bytes32 dataHash,uint256 nonce,uint256 deadline)"))
	submissionTypeHash = types.Keccak256([]byte(
		"Submission(address relayer,bytes32 intent,uint256 value)"))
)

func word(v uint64) []byte {
	return math.U256Bytes(new(big.Int).SetUint64(v))
}

func addressWord(a types.Address) []byte {
	var w [32]byte
	copy(w[12:], a[:])
	return w[:]
}

// DomainSeparator binds signatures to one deployment on one network.
func DomainSeparator(domain types.Domain) types.Hash32 {
	name := types.Keccak256([]byte(domain.Name))
	version := types.Keccak256([]byte(domain.Version))
	return types.Keccak256(
		domainTypeHash[:],
		name[:],
		version[:],
		word(domain.ChainID),
		addressWord(domain.VerifyingContract),
	)
}

// StructHash is the typed-data hash of the intent fields, without signature.
func StructHash(intent *types.Intent) types.Hash32 {
	dataHash := intent.DataHash()
	return types.Keccak256(
		intentTypeHash[:],
		addressWord(intent.From),
		addressWord(intent.To),
		word(intent.Value),
		dataHash[:],
		word(intent.Nonce),
		word(intent.Deadline),
	)
}

// Digest is the message signed by the intent author.
func Digest(domain types.Domain, intent *types.Intent) types.Hash32 {
	separator := DomainSeparator(domain)
	structHash := StructHash(intent)
	return types.Keccak256([]byte{0x19, 0x01}, separator[:], structHash[:])
}

// Sign fills intent signature with a recoverable signature by key.
func Sign(key *ecdsa.PrivateKey, domain types.Domain, intent *types.Intent) error {
	digest := Digest(domain, intent)
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		return fmt.Errorf("sign intent: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	intent.Signature = sig
	return nil
}

// Recover returns the address that signed the intent.
func Recover(domain types.Domain, intent *types.Intent) (types.Address, error) {
	return recoverSigner(Digest(domain, intent), intent.Signature)
}

// SubmissionDigest is the message signed by the relayer that submits intent and attaches value.
func SubmissionDigest(domain types.Domain, relayer types.Address, intent *types.Intent, value uint64) types.Hash32 {
	separator := DomainSeparator(domain)
	intentDigest := Digest(domain, intent)
	structHash := types.Keccak256(
		submissionTypeHash[:],
		addressWord(relayer),
		intentDigest[:],
		word(value),
	)
	return types.Keccak256([]byte{0x19, 0x01}, separator[:], structHash[:])
}

// SignSubmission returns the relayer signature over the submission of intent with value.
func SignSubmission(key *ecdsa.PrivateKey, domain types.Domain, intent *types.Intent, value uint64) ([]byte, error) {
	digest := SubmissionDigest(domain, AddressOf(key), intent, value)
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		return nil, fmt.Errorf("sign submission: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// VerifySubmission checks that relayer signed the submission of intent with value.
func VerifySubmission(
	domain types.Domain,
	relayer types.Address,
	intent *types.Intent,
	value uint64,
	sig []byte,
) error {
	signer, err := recoverSigner(SubmissionDigest(domain, relayer, intent, value), sig)
	if err != nil {
		return fmt.Errorf("%w: relayer: %v", core.ErrInvalidSignature, err)
	}
	if signer != relayer {
		return fmt.Errorf("%w: relayer recovered %s, expected %s", core.ErrInvalidSignature, signer, relayer)
	}
	return nil
}

func recoverSigner(digest types.Hash32, sig []byte) (types.Address, error) {
	if len(sig) != types.SignatureLength {
		return types.Address{}, fmt.Errorf("signature length %d", len(sig))
	}
	v := sig[crypto.RecoveryIDOffset]
	if v >= 27 {
		v -= 27
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(v, r, s, true) {
		return types.Address{}, fmt.Errorf("signature values out of range")
	}
	normalized := make([]byte, types.SignatureLength)
	copy(normalized, sig)
	normalized[crypto.RecoveryIDOffset] = v

	pub, err := crypto.SigToPub(digest[:], normalized)
	if err != nil {
		return types.Address{}, err
	}
	return types.Address(crypto.PubkeyToAddress(*pub)), nil
}

// AddressOf returns the account address controlled by key.
func AddressOf(key *ecdsa.PrivateKey) types.Address {
	return types.Address(crypto.PubkeyToAddress(key.PublicKey))
}
