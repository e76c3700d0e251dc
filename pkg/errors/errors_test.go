package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/vartable/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestConfigNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := pkgerrors.NewConfigNotFoundError("acme", "variant")
		assert.Equal(t, `variant configuration "acme" not found`, err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrConfigNotFound))
		assert.True(t, pkgerrors.IsRecoverableConfig(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		wrapped := fmt.Errorf("resolving: %w", pkgerrors.NewConfigNotFoundError("x", "validation"))
		assert.True(t, pkgerrors.IsConfigNotFound(wrapped))
	})
}

func TestConfigMalformedError(t *testing.T) {
	cause := errors.New("yaml: bad indent")
	err := pkgerrors.NewConfigMalformedError("acme", "/dbs/variants/acme/config.yaml", cause)

	assert.Contains(t, err.Error(), "acme")
	assert.Contains(t, err.Error(), "bad indent")
	assert.True(t, pkgerrors.IsConfigMalformed(err))
	assert.True(t, pkgerrors.IsRecoverableConfig(err))
	assert.ErrorIs(t, err, cause)
}

func TestSourceTypeError(t *testing.T) {
	t.Run("wrong type", func(t *testing.T) {
		err := pkgerrors.NewWrongSourceTypeError("merge", "clinvar", "validation")
		assert.True(t, errors.Is(err, pkgerrors.ErrWrongSourceType))
		assert.False(t, errors.Is(err, pkgerrors.ErrUnsupportedSourceType))
		assert.Contains(t, err.Error(), "wrong source type")
	})

	t.Run("unsupported type", func(t *testing.T) {
		err := pkgerrors.NewUnsupportedSourceTypeError("register", "clinvar", "bogus")
		assert.True(t, errors.Is(err, pkgerrors.ErrUnsupportedSourceType))
		assert.False(t, errors.Is(err, pkgerrors.ErrWrongSourceType))
		assert.Contains(t, err.Error(), "unsupported source type")
	})
}

func TestRawDataError(t *testing.T) {
	cause := errors.New("no such file")
	err := pkgerrors.NewRawDataError("gnomad", "/tmp/variants_table.csv", cause)

	assert.True(t, errors.Is(err, pkgerrors.ErrRawDataUnavailable))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "/tmp/variants_table.csv")
}

func TestValidationFailure(t *testing.T) {
	err := pkgerrors.NewValidationFailure("required_annotations", "truth", "column isADARFixable missing")
	assert.True(t, pkgerrors.IsValidationFailure(err))
	assert.Equal(t, `validation required_annotations by "truth" failed: column isADARFixable missing`, err.Error())

	err.Rows = 3
	assert.Contains(t, err.Error(), "3 rows")
}

func TestKeyErrors(t *testing.T) {
	missing := pkgerrors.NewKeyMissingError("pos")
	assert.True(t, errors.Is(missing, pkgerrors.ErrKeyMissing))
	assert.False(t, errors.Is(missing, pkgerrors.ErrDuplicateKey))

	dup := pkgerrors.NewDuplicateKeyError("(1, 100)")
	assert.True(t, errors.Is(dup, pkgerrors.ErrDuplicateKey))
	assert.Contains(t, dup.Error(), "(1, 100)")
}

func TestMergeErrorUnwrap(t *testing.T) {
	inner := pkgerrors.NewRawDataError("s1", "", errors.New("gone"))
	err := pkgerrors.WrapMerge("s1", "load", inner)

	assert.True(t, errors.Is(err, pkgerrors.ErrRawDataUnavailable))

	var merr *pkgerrors.MergeError
	assert.True(t, errors.As(err, &merr))
	assert.Equal(t, "load", merr.Step)
	assert.Nil(t, pkgerrors.WrapMerge("s1", "load", nil))
}

func TestUnsupportedFormatError(t *testing.T) {
	err := pkgerrors.NewUnsupportedFormatError("parquet")
	assert.True(t, errors.Is(err, pkgerrors.ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "parquet")
}

func TestWrapIO(t *testing.T) {
	assert.Nil(t, pkgerrors.WrapIO("read", "x", nil))

	err := pkgerrors.WrapIO("read", "/tmp/x.csv", errors.New("denied"))
	var ioErr *pkgerrors.IOError
	assert.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Operation)
}

func TestColumnConflictError(t *testing.T) {
	err := pkgerrors.NewColumnConflictError("pos", "key column")
	assert.True(t, errors.Is(err, pkgerrors.ErrColumnConflict))
	assert.Equal(t, `indicator column of source "pos" would overwrite key column "pos"`, err.Error())
}
