package node

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/signing"
)

const (
	// KeyEd25519 signs liveness attestations and gateway responses.
	KeyEd25519 = "ed25519"
	// KeySecp256k1 signs intents.
	KeySecp256k1 = "secp256k1"
)

func keygenCommand() *cobra.Command {
	var kind string
	c := &cobra.Command{
		Use:   "keygen <file>",
		Short: "Generate a key and write it to file",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			public, err := generateKey(afero.NewOsFs(), kind, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.OutOrStdout(), public)
			return err
		},
	}
	c.Flags().StringVar(&kind, "kind", KeyEd25519, "key kind: ed25519 or secp256k1")
	return c
}

// generateKey writes a new key to path and returns the public part: hex of the
// ed25519 public key, or the address controlled by a secp256k1 key.
func generateKey(fs afero.Fs, kind, path string) (string, error) {
	if exist, err := afero.Exists(fs, path); err != nil {
		return "", err
	} else if exist {
		return "", fmt.Errorf("%s already exists", path)
	}
	switch kind {
	case KeyEd25519:
		signer, err := signing.NewEdSigner(signing.WithFilesystem(fs), signing.ToFile(path))
		if err != nil {
			return "", err
		}
		return hexutil.Encode(signer.PublicKey().Bytes()), nil
	case KeySecp256k1:
		key, err := crypto.GenerateKey()
		if err != nil {
			return "", fmt.Errorf("generate key: %w", err)
		}
		if err := afero.WriteFile(fs, path, []byte(hexutil.Encode(crypto.FromECDSA(key))[2:]), 0o600); err != nil {
			return "", fmt.Errorf("write key: %w", err)
		}
		return types.Address(crypto.PubkeyToAddress(key.PublicKey)).Hex(), nil
	default:
		return "", errors.New("unknown key kind " + kind)
	}
}
