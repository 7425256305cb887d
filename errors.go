package crud

import (
	"errors"
	"fmt"

	"github.com/TechXTT/crud/pkg/config"
)

var (
	// Matched by the error Open returns when a connection field has
	// neither a value nor a default.
	ErrMissingConnectionParameter = config.ErrMissingParameter
	// The driver rejected the generated or supplied SQL text.
	ErrStatementPreparation = errors.New("crud: statement preparation failed")
	// The statement executed but matched no row.
	ErrNoRowsAffected = errors.New("crud: no rows affected")
	// Index metadata for the table has no primary key.
	ErrUnresolvedPrimaryKey = errors.New("crud: unresolved primary key")
	// Insert or update was given a record without columns.
	ErrEmptyRecord = errors.New("crud: empty record")
	// The mapper was used after Close.
	ErrClosed = errors.New("crud: mapper is closed")
)

// MissingParameterError names the connection field that could not be
// resolved.
type MissingParameterError = config.MissingParameterError

// prepareError keeps the driver error reachable while matching
// ErrStatementPreparation.
func prepareError(query string, err error) error {
	return fmt.Errorf("%w: %q: %w", ErrStatementPreparation, query, err)
}
