package core

import (
	"fmt"
	"strings"

	"github.com/keyward/keyward/common/types"
)

// OffchainLookup is returned by resolve instead of a value. The caller fetches
// CallData from one of URLs and resubmits the response to CallbackFunction
// together with ExtraData.
type OffchainLookup struct {
	Sender           Address
	URLs             []string
	CallData         []byte
	CallbackFunction types.Selector
	ExtraData        []byte
}

func (l *OffchainLookup) Error() string {
	return fmt.Sprintf("offchain lookup: sender %s, callback %s, urls [%s]",
		l.Sender, l.CallbackFunction, strings.Join(l.URLs, ", "))
}
