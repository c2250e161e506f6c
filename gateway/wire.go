package gateway

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/keyward/keyward/common/types"
)

const (
	// SenderParam is replaced with the lowercase hex of the lookup sender.
	SenderParam = "{sender}"
	// DataParam is replaced with the hex of the lookup call data. Urls without it
	// are fetched with POST.
	DataParam = "{data}"
)

// LookupRequest is the POST body sent to an off-chain service.
type LookupRequest struct {
	Sender string `json:"sender"`
	Data   string `json:"data"`
}

// LookupResponse is the body returned by an off-chain service.
type LookupResponse struct {
	Data string `json:"data"`
}

// LookupError is the body returned by an off-chain service on failure.
type LookupError struct {
	Message string `json:"message"`
}

// ExpandURL substitutes sender and data into url. The second result is true
// when the request must be sent with GET.
func ExpandURL(url string, sender types.Address, data []byte) (string, bool) {
	get := strings.Contains(url, DataParam)
	url = strings.ReplaceAll(url, SenderParam, strings.ToLower(sender.Hex()))
	url = strings.ReplaceAll(url, DataParam, hexutil.Encode(data))
	return url, get
}
