package service

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
)

// Records maps a name to answers keyed by query. The empty query is the default answer.
type Records map[string]map[string]string

// Lookup returns the answer for name and query.
func (r Records) Lookup(name, query string) (string, bool) {
	answers, exist := r[name]
	if !exist {
		return "", false
	}
	answer, exist := answers[query]
	return answer, exist
}

// LoadRecords reads records from a json file.
func LoadRecords(fs afero.Fs, path string) (Records, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read records %s: %w", path, err)
	}
	var records Records
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records %s: %w", path, err)
	}
	return records, nil
}
