// keyward runs a credential recovery ledger with a json api and an off-chain lookup gateway.
package main

import (
	"fmt"
	"os"

	"github.com/keyward/keyward/cmd"
	"github.com/keyward/keyward/node"
)

var (
	version string
	commit  string
)

func main() { // run the app
	cmd.Version = version
	cmd.Commit = commit
	if err := node.GetCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
