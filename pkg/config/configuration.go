package config

import (
	"fmt"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/vartable/pkg/annotations"
	"github.com/agentstation/vartable/pkg/constants"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/functions"
	"github.com/agentstation/vartable/pkg/types"
)

// Dataset is the view of a source handed to validators.
type Dataset = functions.Dataset

// Data holds the rules for locating a source's raw data inside its directory.
type Data struct {
	// Prefix is the file name prefix of the raw data file.
	Prefix string `yaml:"prefix" json:"prefix"`
	// Format overrides the format implied by the file extension.
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// Configuration is a resolved, bound configuration. It is not modified
// after Resolve returns it.
type Configuration struct {
	Name             string
	Type             types.SourceType
	KeyCols          []string
	Description      string
	PreProcessorName string
	PreProcessor     functions.PreProcessor
	Annotations      *annotations.Set
	ValidatorName    string
	Validator        functions.Validator
	Options          map[string]any
	Data             Data

	// Defaulted is set when the source's own document could not be used
	// and the configuration is the pure default.
	Defaulted bool

	// Document is the merged document the configuration was bound from.
	Document yaml.MapSlice
}

// Validate checks the structural requirements of the configuration.
// Variant configurations need key columns.
func (c *Configuration) Validate() error {
	if !c.Type.IsValid() {
		return errors.NewUnsupportedSourceTypeError("resolve", c.Name, string(c.Type))
	}
	if c.Type == types.SourceTypeVariant && len(c.KeyCols) == 0 {
		return errors.NewConfigMalformedError(c.Name, "", fmt.Errorf("%s must list at least one column", KeyKeyCols))
	}
	return nil
}

// HasPreProcessor reports whether a pre-processor was bound.
func (c *Configuration) HasPreProcessor() bool {
	return c.PreProcessor != nil
}

// DataPrefix returns the raw data file prefix, defaulting to variants_table.
func (c *Configuration) DataPrefix() string {
	if c.Data.Prefix == "" {
		return constants.DefaultDataPrefix
	}
	return c.Data.Prefix
}

// AnnotationNames returns the annotation names in order.
func (c *Configuration) AnnotationNames() []string {
	return c.Annotations.Names()
}

// Summary is a serialisable view of a configuration.
type Summary struct {
	Name         string                    `yaml:"name" json:"name"`
	Type         string                    `yaml:"type" json:"type"`
	KeyCols      []string                  `yaml:"key_cols,omitempty" json:"key_cols,omitempty"`
	Description  string                    `yaml:"description,omitempty" json:"description,omitempty"`
	PreProcessor string                    `yaml:"pre_processor,omitempty" json:"pre_processor,omitempty"`
	Annotations  []*annotations.Annotation `yaml:"annotations,omitempty" json:"annotations,omitempty"`
	Validator    string                    `yaml:"validator,omitempty" json:"validator,omitempty"`
	Options      map[string]any            `yaml:"options,omitempty" json:"options,omitempty"`
	Data         Data                      `yaml:"data" json:"data"`
	Defaulted    bool                      `yaml:"defaulted" json:"defaulted"`
}

// Summary returns a serialisable view of c.
func (c *Configuration) Summary() Summary {
	return Summary{
		Name:         c.Name,
		Type:         c.Type.String(),
		KeyCols:      slices.Clone(c.KeyCols),
		Description:  c.Description,
		PreProcessor: c.PreProcessorName,
		Annotations:  c.Annotations.List(),
		Validator:    c.ValidatorName,
		Options:      c.Options,
		Data:         Data{Prefix: c.DataPrefix(), Format: c.Data.Format},
		Defaulted:    c.Defaulted,
	}
}
