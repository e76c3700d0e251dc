// Package provenance records which source contributed each row of the
// consolidated table and whether the row was inserted or matched.
package provenance

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/vartable/pkg/constants"
	"github.com/agentstation/vartable/pkg/errors"
)

// Action describes what a source did to a row.
type Action string

// Actions.
const (
	// ActionAdded means the source inserted the row.
	ActionAdded Action = "added"
	// ActionMatched means the row already existed and the source's indicator was set.
	ActionMatched Action = "matched"
)

// Provenance is one contribution of a source to a row.
type Provenance struct {
	Source    string   `yaml:"source" json:"source"`
	Action    Action   `yaml:"action" json:"action"`
	Timestamp utc.Time `yaml:"timestamp" json:"timestamp"`
}

// Map holds the contributions of every row, keyed by the row's key tuple.
type Map map[string][]Provenance

// Tracker records provenance during merges.
type Tracker interface {
	// Track records a contribution to the row with the given key.
	Track(key string, p Provenance)

	// Find returns the contributions to a row in the order they happened.
	Find(key string) []Provenance

	// Map returns a copy of the complete provenance map.
	Map() Map

	// Clear removes all provenance data.
	Clear()
}

type tracker struct {
	provenance Map
	enabled    bool
}

// NewTracker creates a tracker. A disabled tracker records nothing.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

// Track records a contribution to the row with the given key.
func (p *tracker) Track(key string, prov Provenance) {
	if !p.enabled {
		return
	}
	if prov.Timestamp.IsZero() {
		prov.Timestamp = utc.Now()
	}
	p.provenance[key] = append(p.provenance[key], prov)
}

// Find returns the contributions to a row.
func (p *tracker) Find(key string) []Provenance {
	if !p.enabled {
		return nil
	}
	return slices.Clone(p.provenance[key])
}

// Map returns a copy of the complete provenance map.
func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}
	result := make(Map, len(p.provenance))
	for k, v := range p.provenance {
		result[k] = slices.Clone(v)
	}
	return result
}

// Clear removes all provenance data.
func (p *tracker) Clear() {
	p.provenance = make(Map)
}

// Report summarises a provenance map.
type Report struct {
	Rows    int                     // rows with any provenance
	Shared  int                     // rows contributed by more than one source
	Sources map[string]SourceCounts // per source counts
}

// SourceCounts counts a source's contributions.
type SourceCounts struct {
	Added   int
	Matched int
}

// Total returns the number of rows the source contributed to.
func (c SourceCounts) Total() int {
	return c.Added + c.Matched
}

// GenerateReport summarises a provenance map.
func GenerateReport(provenance Map) *Report {
	report := &Report{Sources: make(map[string]SourceCounts)}
	for _, history := range provenance {
		if len(history) == 0 {
			continue
		}
		report.Rows++

		contributors := make(map[string]struct{})
		for _, p := range history {
			contributors[p.Source] = struct{}{}
			counts := report.Sources[p.Source]
			switch p.Action {
			case ActionAdded:
				counts.Added++
			case ActionMatched:
				counts.Matched++
			}
			report.Sources[p.Source] = counts
		}
		if len(contributors) > 1 {
			report.Shared++
		}
	}
	return report
}

// SourceNames returns the sources in the report in lexical order.
func (r *Report) SourceNames() []string {
	names := make([]string, 0, len(r.Sources))
	for name := range r.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the report as plain text.
func (r *Report) String() string {
	var sb strings.Builder
	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")
	fmt.Fprintf(&sb, "Rows: %d (shared by several sources: %d)\n\n", r.Rows, r.Shared)
	for _, name := range r.SourceNames() {
		c := r.Sources[name]
		fmt.Fprintf(&sb, "  %s: %d added, %d matched\n", name, c.Added, c.Matched)
	}
	return sb.String()
}

// File is the on-disk provenance document.
type File struct {
	Provenance Map `yaml:"provenance"`
}

// Save writes the provenance map to a YAML file.
func Save(path string, m Map) error {
	data, err := yaml.Marshal(&File{Provenance: m})
	if err != nil {
		return fmt.Errorf("encoding provenance: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	return errors.WrapIO("write", path, os.WriteFile(path, data, constants.FilePermissions))
}

// Load reads a provenance file. It returns nil, nil if the file doesn't exist.
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse provenance file: %w", err)
	}
	return &f, nil
}
