package classify

import (
	"bytes"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// RuleFile is the on-disk form of a custom rule set. When CatchAll is omitted
// the built-in catch-all is used.
type RuleFile struct {
	Rules    []Rule `yaml:"rules"`
	CatchAll *Rule  `yaml:"catch_all"`
}

// LoadRules reads a YAML rule file and builds a Fallback from it. The file's
// rules replace the built-in list entirely; order in the file is evaluation
// order.
func LoadRules(path string) (*Fallback, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "classify: read rules file")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var rf RuleFile
	if err := dec.Decode(&rf); err != nil {
		return nil, eris.Wrapf(err, "classify: parse %s", path)
	}
	if len(rf.Rules) == 0 {
		return nil, eris.Errorf("classify: %s defines no rules", path)
	}

	catchAll := DefaultCatchAll()
	if rf.CatchAll != nil {
		catchAll = *rf.CatchAll
	}
	return NewFallback(rf.Rules, catchAll)
}

// LoadFallback returns the built-in fallback, or the one defined at path when
// it is set.
func LoadFallback(path string) (*Fallback, error) {
	if path == "" {
		return DefaultFallback(), nil
	}
	return LoadRules(path)
}
