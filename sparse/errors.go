package sparse

import (
	"errors"
	"fmt"
)

// ErrEmptyRow is returned by Builder.AddRow when strict mode rejects a row with no entries.
var ErrEmptyRow = errors.New("sparse: row has no entries")

// ErrNegativeValue indicates an entry with a negative value or column.
type ErrNegativeValue struct {
	Row int
	Col int32
	Val int32
}

func (e *ErrNegativeValue) Error() string {
	return fmt.Sprintf("sparse: row %d: negative entry (col=%d, val=%d)", e.Row, e.Col, e.Val)
}

// ErrDuplicateColumn indicates that a row lists the same column twice.
type ErrDuplicateColumn struct {
	Row int
	Col int32
}

func (e *ErrDuplicateColumn) Error() string {
	return fmt.Sprintf("sparse: row %d: duplicate column %d", e.Row, e.Col)
}
