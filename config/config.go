package config

import (
	"os"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/yaml"
)

// Source kinds.
const (
	SourceFile = "file"
	SourceKube = "kube"
)

// Encoder names.
const (
	EncoderValues          = "values"
	EncoderDownline        = "downline"
	EncoderOrderedDownline = "ordered-downline"
)

// Output formats of the print mode.
const (
	OutputJSON  = "json"
	OutputTable = "table"
)

type Config struct {
	// Source is where the forest comes from: "file" or "kube".
	Source string `json:"source,omitempty"`
	// File holds item descriptions when Source is "file".
	File string `json:"file,omitempty"`
	// Encoder picks the selection payload: "values", "downline" or
	// "ordered-downline".
	Encoder string `json:"encoder,omitempty"`
	Filter  string `json:"filter,omitempty"`
	AllText string `json:"allText,omitempty"`
	Output  string `json:"output,omitempty"`

	Kube Kube `json:"kube,omitempty"`
}

type Kube struct {
	LabelSelector string `json:"labelSelector,omitempty"`
	Concurrency   int    `json:"concurrency,omitempty"`
	Collapsed     bool   `json:"collapsed,omitempty"`
}

func Default() Config {
	return Config{
		Source:  SourceKube,
		Encoder: EncoderValues,
		AllText: "All",
		Output:  OutputJSON,
		Kube: Kube{
			Concurrency: 4,
		},
	}
}

// Load reads a YAML config file and fills unset fields from Default. An
// empty path yields the defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "reading config")
		}
		if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parsing config %s", path)
		}
	}
	if err := cfg.Complete(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Complete fills unset fields from Default.
func (c *Config) Complete() error {
	return errors.Wrap(mergo.Merge(c, Default()), "applying defaults")
}

func (c *Config) Validate() error {
	var errs field.ErrorList
	switch c.Source {
	case SourceFile:
		if c.File == "" {
			errs = append(errs, field.Required(field.NewPath("file"), "required when source is file"))
		}
	case SourceKube:
	default:
		errs = append(errs, field.NotSupported(field.NewPath("source"), c.Source, []string{SourceFile, SourceKube}))
	}
	switch c.Encoder {
	case EncoderValues, EncoderDownline, EncoderOrderedDownline:
	default:
		errs = append(errs, field.NotSupported(field.NewPath("encoder"), c.Encoder,
			[]string{EncoderValues, EncoderDownline, EncoderOrderedDownline}))
	}
	switch c.Output {
	case OutputJSON, OutputTable:
	default:
		errs = append(errs, field.NotSupported(field.NewPath("output"), c.Output, []string{OutputJSON, OutputTable}))
	}
	if c.Kube.Concurrency < 0 {
		errs = append(errs, field.Invalid(field.NewPath("kube", "concurrency"), c.Kube.Concurrency, "must not be negative"))
	}
	return errs.ToAggregate()
}
