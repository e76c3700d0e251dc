// Package collection discovers sources on disk.
//
// A collection root looks like:
//
//	<root>/variants/default/config.yaml      required
//	<root>/variants/<name>/config.yaml       optional per source
//	<root>/variants/<name>/variants_table.*  raw data
//	<root>/validation/default/config.yaml    required when validation/ exists
//	<root>/validation/<name>/...
//
// "variant" is accepted for "variants". Directories whose name starts with
// "_" or "." are ignored.
package collection

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/agentstation/vartable/pkg/config"
	"github.com/agentstation/vartable/pkg/constants"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/types"
)

// Entry is one source directory.
type Entry struct {
	Name       string           `json:"name" yaml:"name"`
	Type       types.SourceType `json:"type" yaml:"type"`
	Dir        string           `json:"dir" yaml:"dir"`
	ConfigPath string           `json:"config,omitempty" yaml:"config,omitempty"`
	DataPath   string           `json:"data,omitempty" yaml:"data,omitempty"`
}

// HasConfig reports whether the entry has its own configuration file.
func (e Entry) HasConfig() bool {
	return e.ConfigPath != ""
}

// IsDefault reports whether the entry is the default of its type.
func (e Entry) IsDefault() bool {
	return e.Name == constants.DefaultConfigName
}

// Collection is the result of scanning a collection root.
type Collection struct {
	Root     string
	Registry *config.Registry

	entries map[types.SourceType][]Entry
}

// Scan walks root and registers every configuration file it finds in a new
// config registry. Entries without a configuration file are still listed.
func Scan(root string) (*Collection, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WrapIO("stat", root, err)
	}
	if !info.IsDir() {
		return nil, errors.NewIOError("stat", root, fmt.Errorf("not a directory"))
	}

	c := &Collection{
		Root:     root,
		Registry: config.NewRegistry(),
		entries:  make(map[types.SourceType][]Entry),
	}

	variantsDir := firstDir(filepath.Join(root, constants.VariantsDir), filepath.Join(root, constants.VariantsDirAlt))
	if variantsDir == "" {
		return nil, fmt.Errorf("no %s directory in %s: %w", constants.VariantsDir, root,
			errors.NewConfigNotFoundError(constants.DefaultConfigName, types.SourceTypeVariant.String()))
	}
	if err := c.scanType(types.SourceTypeVariant, variantsDir); err != nil {
		return nil, err
	}

	if validationDir := firstDir(filepath.Join(root, constants.ValidationDir)); validationDir != "" {
		if err := c.scanType(types.SourceTypeValidation, validationDir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collection) scanType(typ types.SourceType, dir string) error {
	dirents, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return errors.WrapIO("read", dir, err)
	}
	sort.Sort(dirents)

	for _, de := range dirents {
		name := de.Name()
		if !de.IsDir() || skipped(name) {
			continue
		}
		entryDir := filepath.Join(dir, name)
		entry := Entry{Name: name, Type: typ, Dir: entryDir}

		if cfgPath := configFile(entryDir); cfgPath != "" {
			entry.ConfigPath = cfgPath
			c.Registry.RegisterFile(typ, name, cfgPath)
		}
		c.entries[typ] = append(c.entries[typ], entry)
	}

	def, ok := c.Entry(typ, constants.DefaultConfigName)
	if !ok || !def.HasConfig() {
		return fmt.Errorf("%s has no %s/%s: %w", dir, constants.DefaultConfigName, constants.ConfigFileName,
			errors.NewConfigNotFoundError(constants.DefaultConfigName, typ.String()))
	}

	for i := range c.entries[typ] {
		entry := &c.entries[typ][i]
		if data, err := FindDataFile(entry.Dir, c.dataPrefix(typ, entry.Name)); err == nil {
			entry.DataPath = data
		}
	}
	return nil
}

// dataPrefix returns the data file prefix name resolves to: its own
// document's data.prefix, else the default's, else DefaultDataPrefix.
// A document that cannot be read is skipped, as resolution falls back to
// the default for it.
func (c *Collection) dataPrefix(typ types.SourceType, name string) string {
	for _, n := range []string{name, constants.DefaultConfigName} {
		doc, err := c.Registry.Document(typ, n)
		if err != nil {
			continue
		}
		if prefix := doc.DataPrefix(); prefix != "" {
			return prefix
		}
	}
	return constants.DefaultDataPrefix
}

// Entries returns the entries of typ in lexical order, default included.
func (c *Collection) Entries(typ types.SourceType) []Entry {
	return slices.Clone(c.entries[typ])
}

// Entry returns the named entry of typ.
func (c *Collection) Entry(typ types.SourceType, name string) (Entry, bool) {
	for _, e := range c.entries[typ] {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns the source names of typ in lexical order, default excluded.
func (c *Collection) Names(typ types.SourceType) []string {
	var names []string
	for _, e := range c.entries[typ] {
		if !e.IsDefault() {
			names = append(names, e.Name)
		}
	}
	return names
}

// HasValidation reports whether the collection has a validation directory.
func (c *Collection) HasValidation() bool {
	return len(c.entries[types.SourceTypeValidation]) > 0
}

// FindDataFile returns the first regular file in dir, in lexical order,
// whose name starts with prefix.
func FindDataFile(dir, prefix string) (string, error) {
	names, err := godirwalk.ReadDirnames(dir, nil)
	if err != nil {
		return "", errors.WrapIO("read", dir, err)
	}
	slices.Sort(names)
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", errors.NewIOError("find", dir, fmt.Errorf("no file starting with %q", prefix))
}

func skipped(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

func firstDir(paths ...string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return p
		}
	}
	return ""
}

func configFile(dir string) string {
	for _, name := range []string{constants.ConfigFileName, constants.ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}
