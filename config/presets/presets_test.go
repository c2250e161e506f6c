package presets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keyward/keyward/common/types"
)

func TestGet(t *testing.T) {
	require.Equal(t, []string{"standalone"}, Options())

	conf, err := Get("standalone")
	require.NoError(t, err)
	require.Equal(t, uint64(1337), conf.Deployment.ChainID)
	_, err = types.HexToAddress(conf.Deployment.Address)
	require.NoError(t, err)
	_, err = types.HexToAddress(conf.Deployment.Owner)
	require.NoError(t, err)

	_, err = Get("mainnet")
	require.ErrorContains(t, err, "standalone")
}
