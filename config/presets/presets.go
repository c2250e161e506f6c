// Package presets holds named configurations that replace the defaults.
package presets

import (
	"fmt"
	"sort"

	"github.com/keyward/keyward/config"
)

var presets = map[string]config.Config{}

func register(name string, conf config.Config) {
	if _, exist := presets[name]; exist {
		panic(fmt.Sprintf("preset %s already registered", name))
	}
	presets[name] = conf
}

// Options returns names of all presets.
func Options() []string {
	rst := make([]string, 0, len(presets))
	for name := range presets {
		rst = append(rst, name)
	}
	sort.Strings(rst)
	return rst
}

// Get returns the preset with name.
func Get(name string) (config.Config, error) {
	conf, exist := presets[name]
	if !exist {
		return config.Config{}, fmt.Errorf("preset %s is not registered. options %+s", name, Options())
	}
	return conf, nil
}
