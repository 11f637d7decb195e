package sheet

import "errors"

var (
	// ErrInconsistent reports drift between the compiled graph and the tables
	// derived from it.
	ErrInconsistent = errors.New("internal consistency error")
	// ErrTypeCoverage reports a value kind outside the supported set.
	ErrTypeCoverage = errors.New("unsupported value type")
	// ErrSpawnerConfig reports an invalid spawner block.
	ErrSpawnerConfig = errors.New("invalid spawner configuration")
)
