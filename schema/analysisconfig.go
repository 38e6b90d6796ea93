package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// AnalysisConfig is the parsed analysis configuration document. It is
// read-only after load; validation and file-suffix normalisation happen in
// internal/contract.
type AnalysisConfig struct {
	BasePath        string
	Folders         []string
	NominalWeight   string
	ExtraSelections map[string]string
	Flavours        []Flavour // document order
}

// Flavour is one named sub-category of simulated events with its own
// selection and file set.
type Flavour struct {
	Name           string
	Selection      string
	ExtraSelection string // optional, names an ExtraSelections entry
	Files          []string
	Systematics    []Systematic // document order
}

// Systematic describes one source of modeling uncertainty with an up and a
// down direction.
type Systematic struct {
	Name       string
	Kind       SystematicKind
	UpWeight   string
	DownWeight string
	UpFiles    []string
	DownFiles  []string
}

// Flavour returns the flavour with the given name.
func (c *AnalysisConfig) Flavour(name string) (*Flavour, bool) {
	for i := range c.Flavours {
		if c.Flavours[i].Name == name {
			return &c.Flavours[i], true
		}
	}
	return nil, false
}

// Systematic returns the systematic with the given name.
func (f *Flavour) Systematic(name string) (*Systematic, bool) {
	for i := range f.Systematics {
		if f.Systematics[i].Name == name {
			return &f.Systematics[i], true
		}
	}
	return nil, false
}

// UnmarshalYAML decodes the configuration document while preserving the
// document order of flavours and systematics. YAML maps normally decode into
// Go maps, which would lose the order the output table is expected to follow.
func (c *AnalysisConfig) UnmarshalYAML(value *yaml.Node) error {
	var doc struct {
		BasePath        string            `yaml:"base_path"`
		Folders         []string          `yaml:"folders"`
		NominalWeight   string            `yaml:"nominal_weight"`
		ExtraSelections map[string]string `yaml:"extra_selections"`
		Flavours        yaml.Node         `yaml:"flavours"`
	}
	if err := value.Decode(&doc); err != nil {
		return err
	}
	c.BasePath = doc.BasePath
	c.Folders = doc.Folders
	c.NominalWeight = doc.NominalWeight
	c.ExtraSelections = doc.ExtraSelections

	return eachMappingEntry(&doc.Flavours, "flavours", func(name string, node *yaml.Node) error {
		fl := Flavour{Name: name}
		if err := fl.decode(node); err != nil {
			return fmt.Errorf("flavour %q: %w", name, err)
		}
		c.Flavours = append(c.Flavours, fl)
		return nil
	})
}

func (f *Flavour) decode(node *yaml.Node) error {
	var body struct {
		Selection      string    `yaml:"selection"`
		ExtraSelection string    `yaml:"extra_selection"`
		Files          []string  `yaml:"files"`
		Systematics    yaml.Node `yaml:"systematics"`
	}
	if err := node.Decode(&body); err != nil {
		return err
	}
	f.Selection = body.Selection
	f.ExtraSelection = body.ExtraSelection
	f.Files = body.Files

	return eachMappingEntry(&body.Systematics, "systematics", func(name string, n *yaml.Node) error {
		sys := Systematic{Name: name, Kind: WeightKind}
		if err := sys.decode(n); err != nil {
			return fmt.Errorf("systematic %q: %w", name, err)
		}
		f.Systematics = append(f.Systematics, sys)
		return nil
	})
}

func (s *Systematic) decode(node *yaml.Node) error {
	var body struct {
		Type       string   `yaml:"type"`
		UpWeight   string   `yaml:"up_weight"`
		DownWeight string   `yaml:"down_weight"`
		UpFiles    []string `yaml:"up_files"`
		DownFiles  []string `yaml:"down_files"`
	}
	if err := node.Decode(&body); err != nil {
		return err
	}
	if body.Type != "" {
		s.Kind = SystematicKind(body.Type)
	}
	s.UpWeight = body.UpWeight
	s.DownWeight = body.DownWeight
	s.UpFiles = body.UpFiles
	s.DownFiles = body.DownFiles
	return nil
}

// eachMappingEntry walks a YAML mapping node in document order. A missing or
// null node is treated as an empty mapping.
func eachMappingEntry(node *yaml.Node, key string, fn func(name string, value *yaml.Node) error) error {
	if node == nil || node.Kind == 0 || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%s must be a mapping", key)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
