package sources

import (
	"github.com/agentstation/vartable/pkg/collection"
	"github.com/agentstation/vartable/pkg/table"
	"github.com/agentstation/vartable/pkg/tablefile"
)

// Option configures a Source.
type Option func(*Source) error

// WithPath reads raw data from a table file. The configuration's
// data.format overrides the extension.
func WithPath(path string) Option {
	return func(s *Source) error {
		s.path = path
		s.loader = s.fileLoader
		return nil
	}
}

// WithDir locates the raw data inside dir at load time: the first file
// whose name starts with the configuration's data prefix.
func WithDir(dir string) Option {
	return func(s *Source) error {
		s.dir = dir
		s.loader = func() ([]table.Row, error) {
			path, err := collection.FindDataFile(dir, s.cfg.DataPrefix())
			if err != nil {
				return nil, err
			}
			s.path = path
			return s.fileLoader()
		}
		return nil
	}
}

// WithRecords serves records from memory. Every load gets a fresh copy, so
// a source can be merged repeatedly with the same input.
func WithRecords(rows []table.Row) Option {
	return func(s *Source) error {
		stored := table.Batch(rows).Clone()
		s.loader = func() ([]table.Row, error) {
			return stored.Clone(), nil
		}
		return nil
	}
}

// WithLoader uses a custom loader.
func WithLoader(fn Loader) Option {
	return func(s *Source) error {
		s.loader = fn
		return nil
	}
}

func (s *Source) fileLoader() ([]table.Row, error) {
	var opts []tablefile.Option
	if s.cfg.Data.Format != "" {
		format, err := tablefile.ParseFormat(s.cfg.Data.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tablefile.WithFormat(format))
	}
	data, err := tablefile.Read(s.path, opts...)
	if err != nil {
		return nil, err
	}
	return data.Rows(), nil
}
