package presets

import (
	"os"
	"path/filepath"
	"time"

	"github.com/keyward/keyward/config"
)

func init() {
	register("standalone", standalone())
}

// standalone runs a single node with a local gateway on the loopback interface.
func standalone() config.Config {
	conf := config.DefaultConfig()
	conf.DataDir = filepath.Join(os.TempDir(), "keyward")
	conf.LogLevel = "debug"

	conf.Deployment.ChainID = 1337
	conf.Deployment.Address = "0x000000000000000000000000000000000000cafe"
	conf.Deployment.Owner = "0x00000000000000000000000000000000000000aa"
	conf.Deployment.URLs = []string{"http://" + conf.Gateway.Listen + "/{sender}/{data}.json"}
	conf.Deployment.MaxAttestationAge = time.Hour

	conf.Gateway.RecordsFile = filepath.Join(conf.DataDir, "records.json")
	conf.Gateway.KeyFile = filepath.Join(conf.DataDir, "gateway.key")
	conf.Gateway.TTL = time.Hour

	conf.Metrics.Enable = true
	return conf
}
