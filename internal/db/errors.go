package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrNoRows       = errors.New("db: no rows")
	ErrInvalidQuery = errors.New("db: invalid query")
)

// Op constants name the failing operation for error context.
const (
	OpConnect   = "CONNECT"
	OpPing      = "PING"
	OpQuery     = "QUERY"
	OpExec      = "EXEC"
	OpScan      = "SCAN"
	OpMigrate   = "MIGRATE"
	OpZAdd      = "ZADD"
	OpZRevRange = "ZREVRANGE"
	OpZRem      = "ZREM"
	OpDel       = "DEL"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
