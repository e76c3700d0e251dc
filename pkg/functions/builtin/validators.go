package builtin

import (
	"fmt"

	"github.com/agentstation/vartable/pkg/constants"
	"github.com/agentstation/vartable/pkg/errors"
	"github.com/agentstation/vartable/pkg/functions"
	"github.com/agentstation/vartable/pkg/table"
)

// KeyCoverageValidator returns a copy of tbl with a 0/1 column named after
// the validation source, set to 1 on rows whose key appears in the source.
func KeyCoverageValidator(src functions.Dataset, tbl *table.Table) (*table.Table, error) {
	records, err := src.Records()
	if err != nil {
		return nil, err
	}

	keyCols := tbl.KeyCols()
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		key, err := table.KeyFromRow(keyCols, rec)
		if err != nil {
			return nil, errors.NewValidationFailure(KeyCoverage, src.Name(), err.Error())
		}
		seen[key.ID()] = struct{}{}
	}

	out := tbl.Clone()
	out.AddColumn(src.Name(), constants.IndicatorOff)
	for _, row := range out.Rows() {
		key, err := out.KeyOf(row)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[key.ID()]; ok {
			row[src.Name()] = constants.IndicatorOn
		}
	}
	return out, nil
}

// RequiredAnnotationsValidator fails when a column listed in the source's
// options.required_annotations is missing from tbl or holds nil on any row.
func RequiredAnnotationsValidator(src functions.Dataset, tbl *table.Table) (*table.Table, error) {
	required := stringList(src.Options()[RequiredAnnotations])
	for _, col := range required {
		if !tbl.HasColumn(col) {
			return nil, errors.NewValidationFailure(RequiredAnnotations, src.Name(), fmt.Sprintf("column %s missing", col))
		}
		missing := 0
		for _, row := range tbl.Rows() {
			if row[col] == nil {
				missing++
			}
		}
		if missing > 0 {
			failure := errors.NewValidationFailure(RequiredAnnotations, src.Name(), fmt.Sprintf("column %s has no value", col))
			failure.Rows = missing
			return nil, failure
		}
	}
	return nil, nil
}
