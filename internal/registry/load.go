package registry

import (
	"bytes"
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed data/vendors.yaml
var curatedVendors []byte

// Default builds the registry from the curated vendor data compiled into the
// binary.
func Default(opts Options) (*Registry, error) {
	entries, err := parseEntries(curatedVendors)
	if err != nil {
		return nil, eris.Wrap(err, "registry: parse curated vendors")
	}
	return New(entries, opts)
}

// LoadFile reads a YAML list of entries from path and builds a registry.
func LoadFile(path string, opts Options) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read vendors file")
	}

	entries, err := parseEntries(data)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: parse %s", path)
	}
	return New(entries, opts)
}

// Load builds the curated registry, or the one at path when it is set.
func Load(path string, opts Options) (*Registry, error) {
	if path == "" {
		return Default(opts)
	}
	return LoadFile(path, opts)
}

func parseEntries(data []byte) ([]Entry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var entries []Entry
	if err := dec.Decode(&entries); err != nil {
		return nil, eris.Wrap(err, "decode entries")
	}
	return entries, nil
}
