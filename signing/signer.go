package signing

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
	"github.com/spf13/afero"
)

// Domain separates signatures produced for different purposes by the same key.
type Domain byte

const (
	// LIVENESS is the domain of liveness attestations.
	LIVENESS Domain = 1
	// GATEWAY is the domain of off-chain gateway responses.
	GATEWAY Domain = 2
)

// String returns the string representation of a domain.
func (d Domain) String() string {
	switch d {
	case LIVENESS:
		return "LIVENESS"
	case GATEWAY:
		return "GATEWAY"
	default:
		return "UNKNOWN"
	}
}

// SignatureSize is the size of ed25519 signature.
const SignatureSize = ed25519.SignatureSize

// Signature is an ed25519 signature.
type Signature [SignatureSize]byte

type edSignerOption struct {
	fs     afero.Fs
	priv   PrivateKey
	file   string
	load   string
	prefix []byte
}

// EdSignerOptionFunc modifies EdSigner.
type EdSignerOptionFunc func(*edSignerOption) error

// WithPrefix sets the prefix used by EdSigner. This usually is the deployment name.
func WithPrefix(prefix []byte) EdSignerOptionFunc {
	return func(opt *edSignerOption) error {
		opt.prefix = prefix
		return nil
	}
}

// WithFilesystem sets filesystem used by ToFile and FromFile. Defaults to the os filesystem.
func WithFilesystem(fs afero.Fs) EdSignerOptionFunc {
	return func(opt *edSignerOption) error {
		opt.fs = fs
		return nil
	}
}

// ToFile writes the private key to a file after creation.
func ToFile(path string) EdSignerOptionFunc {
	return func(opt *edSignerOption) error {
		if opt.file != "" {
			return errors.New("invalid option ToFile: file already set")
		}
		opt.file = path
		return nil
	}
}

// FromFile loads the private key from a file.
func FromFile(path string) EdSignerOptionFunc {
	return func(opt *edSignerOption) error {
		if opt.priv != nil {
			return errors.New("invalid option FromFile: private key already set")
		}
		if opt.file != "" {
			return errors.New("invalid option FromFile: file already set")
		}
		opt.load = path
		opt.file = path
		return nil
	}
}

// WithPrivateKey sets the private key used by EdSigner.
func WithPrivateKey(priv PrivateKey) EdSignerOptionFunc {
	return func(opt *edSignerOption) error {
		if opt.priv != nil {
			return errors.New("invalid option WithPrivateKey: private key already set")
		}
		if err := checkKey(priv); err != nil {
			return fmt.Errorf("could not create EdSigner: %w", err)
		}
		opt.priv = priv
		return nil
	}
}

// WithKeyFromRand sets the private key used by EdSigner using predictable randomness source.
func WithKeyFromRand(rand io.Reader) EdSignerOptionFunc {
	return func(opt *edSignerOption) error {
		_, priv, err := ed25519.GenerateKey(rand)
		if err != nil {
			return fmt.Errorf("could not generate key pair: %w", err)
		}
		opt.priv = priv
		return nil
	}
}

func checkKey(priv PrivateKey) error {
	if len(priv) != PrivateKeySize {
		return errors.New("invalid key length")
	}
	keyPair := ed25519.NewKeyFromSeed(priv[:32])
	if !bytes.Equal(keyPair[32:], priv.Public().(ed25519.PublicKey)) {
		return errors.New("private and public do not match")
	}
	return nil
}

func loadKey(fsys afero.Fs, path string) (PrivateKey, error) {
	// read hex data from file
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file at %s: %w", path, err)
	}
	data = []byte(strings.TrimSpace(string(data)))
	if n := hex.DecodedLen(len(data)); n != PrivateKeySize {
		return nil, fmt.Errorf("invalid key size %d/%d for %s", n, PrivateKeySize, filepath.Base(path))
	}
	dst := make([]byte, PrivateKeySize)
	if _, err := hex.Decode(dst, data); err != nil {
		return nil, fmt.Errorf("decoding private key in %s: %w", filepath.Base(path), err)
	}
	priv := PrivateKey(dst)
	if err := checkKey(priv); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return priv, nil
}

func saveKey(fsys afero.Fs, path string, priv PrivateKey) error {
	_, err := fsys.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	// continue
	case err != nil:
		return fmt.Errorf("stat key file %s: %w", filepath.Base(path), err)
	default: // err == nil
		return fmt.Errorf("save key file %s: %w", filepath.Base(path), fs.ErrExist)
	}
	dst := make([]byte, hex.EncodedLen(len(priv)))
	hex.Encode(dst, priv)
	if err := afero.WriteFile(fsys, path, dst, 0o600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}

// EdSigner represents an ED25519 signer.
type EdSigner struct {
	priv PrivateKey
	file string

	prefix []byte
}

// NewEdSigner returns an ed signer. Key is generated unless provided or loaded from a file.
func NewEdSigner(opts ...EdSignerOptionFunc) (*EdSigner, error) {
	cfg := &edSignerOption{fs: afero.NewOsFs()}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.load != "" {
		priv, err := loadKey(cfg.fs, cfg.load)
		if err != nil {
			return nil, err
		}
		cfg.priv = priv
	}
	if cfg.priv == nil {
		_, priv, err := ed25519.GenerateKey(nil)
		if err != nil {
			return nil, fmt.Errorf("could not generate key pair: %w", err)
		}
		cfg.priv = priv
		if cfg.file != "" {
			if err := saveKey(cfg.fs, cfg.file, cfg.priv); err != nil {
				return nil, err
			}
		}
	}
	return &EdSigner{
		priv:   cfg.priv,
		prefix: cfg.prefix,
		file:   cfg.file,
	}, nil
}

// Sign signs the provided message.
func (es *EdSigner) Sign(d Domain, m []byte) Signature {
	return Signature(ed25519.Sign(es.priv, message(es.prefix, d, m)))
}

// PublicKey returns the public key of the signer.
func (es *EdSigner) PublicKey() *PublicKey {
	return NewPublicKey(es.priv.Public().(ed25519.PublicKey))
}

// PrivateKey returns private key.
func (es *EdSigner) PrivateKey() PrivateKey {
	return es.priv
}

// Name returns the name of the signer. This is the filename of the key file.
func (es *EdSigner) Name() string {
	if es.file == "" {
		return ""
	}
	return filepath.Base(es.file)
}

// Prefix returns the prefix mixed into every signed message.
func (es *EdSigner) Prefix() []byte {
	return es.prefix
}

func message(prefix []byte, d Domain, m []byte) []byte {
	msg := make([]byte, 0, len(prefix)+1+len(m))
	msg = append(msg, prefix...)
	msg = append(msg, byte(d))
	msg = append(msg, m...)
	return msg
}
