package contract

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hepworks/renorm/schema"
)

// LoadAnalysisConfig reads, parses and validates the analysis configuration
// document, and normalises sample identifiers by appending the sample-file
// suffix where it is missing.
func LoadAnalysisConfig(path string) (*schema.AnalysisConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, Configf("cannot read %s: %v", path, err)
	}
	var cfg schema.AnalysisConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, Configf("cannot parse %s: %v", path, err)
	}
	if err := validateAnalysisConfig(&cfg); err != nil {
		return nil, err
	}
	normalizeSampleFiles(&cfg)
	return &cfg, nil
}

func validateAnalysisConfig(cfg *schema.AnalysisConfig) error {
	if cfg.BasePath == "" {
		return Configf("missing required key base_path")
	}
	if len(cfg.Folders) == 0 {
		return Configf("missing required key folders")
	}
	if cfg.NominalWeight == "" {
		return Configf("missing required key nominal_weight")
	}
	if len(cfg.Flavours) == 0 {
		return Configf("missing required key flavours")
	}

	for i := range cfg.Flavours {
		if err := validateFlavour(cfg, &cfg.Flavours[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateFlavour(cfg *schema.AnalysisConfig, fl *schema.Flavour) error {
	if len(fl.Files) == 0 {
		return Configf("flavour %q defines no files", fl.Name)
	}
	if fl.ExtraSelection != "" {
		if _, ok := cfg.ExtraSelections[fl.ExtraSelection]; !ok {
			return Configf("flavour %q references unknown extra selection %q", fl.Name, fl.ExtraSelection)
		}
	}
	for i := range fl.Systematics {
		if err := validateSystematic(fl.Name, &fl.Systematics[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateSystematic(flavour string, sys *schema.Systematic) error {
	if !schema.ValidSystematicKinds[sys.Kind] {
		return Configf("flavour %q systematic %q has unknown type %q", flavour, sys.Name, sys.Kind)
	}
	switch sys.Kind {
	case schema.WeightKind:
		if sys.UpWeight == "" || sys.DownWeight == "" {
			return Configf("flavour %q systematic %q must define both up_weight and down_weight", flavour, sys.Name)
		}
		if len(sys.UpFiles) > 0 || len(sys.DownFiles) > 0 {
			return Configf("flavour %q systematic %q is weight-type and cannot define alternate files", flavour, sys.Name)
		}
	case schema.SampleKind:
		// A one-sided sample systematic is a configuration error, not a
		// silently skipped direction.
		if len(sys.UpFiles) == 0 || len(sys.DownFiles) == 0 {
			return Configf("flavour %q systematic %q must define both up_files and down_files", flavour, sys.Name)
		}
	}
	return nil
}

// normalizeSampleFiles appends the sample-file suffix to every identifier
// that lacks it, in place.
func normalizeSampleFiles(cfg *schema.AnalysisConfig) {
	for i := range cfg.Flavours {
		fl := &cfg.Flavours[i]
		fl.Files = withSuffix(fl.Files)
		for j := range fl.Systematics {
			sys := &fl.Systematics[j]
			sys.UpFiles = withSuffix(sys.UpFiles)
			sys.DownFiles = withSuffix(sys.DownFiles)
		}
	}
}

func withSuffix(files []string) []string {
	for i, f := range files {
		if !strings.HasSuffix(f, schema.SampleFileSuffix) {
			files[i] = f + schema.SampleFileSuffix
		}
	}
	return files
}
