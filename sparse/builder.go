package sparse

// Builder accumulates rows and produces an immutable Matrix.
// A Builder is not safe for concurrent use.
type Builder struct {
	rowPtr []int
	cols   []int32
	vals   []int32
	dims   int
	strict bool
	seen   map[int32]struct{}
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithStrictRows makes AddRow reject rows without entries.
// Such rows have a zero norm and cannot take part in cosine clustering.
func WithStrictRows() BuilderOption {
	return func(b *Builder) {
		b.strict = true
	}
}

// WithCapacity preallocates room for the given number of rows and entries.
func WithCapacity(rows, nnz int) BuilderOption {
	return func(b *Builder) {
		b.rowPtr = make([]int, 1, rows+1)
		b.cols = make([]int32, 0, nnz)
		b.vals = make([]int32, 0, nnz)
	}
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		rowPtr: []int{0},
		seen:   make(map[int32]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Rows returns the number of rows added so far.
func (b *Builder) Rows() int { return len(b.rowPtr) - 1 }

// AddRow appends a row. Entries with value zero are not stored but their
// columns still count towards Cols.
// On error the builder is left unchanged.
func (b *Builder) AddRow(entries []Entry) error {
	row := b.Rows()
	clear(b.seen)
	for _, e := range entries {
		if e.Col < 0 || e.Val < 0 {
			return &ErrNegativeValue{Row: row, Col: e.Col, Val: e.Val}
		}
		if _, dup := b.seen[e.Col]; dup {
			return &ErrDuplicateColumn{Row: row, Col: e.Col}
		}
		b.seen[e.Col] = struct{}{}
	}

	start := len(b.vals)
	for _, e := range entries {
		if int(e.Col) >= b.dims {
			b.dims = int(e.Col) + 1
		}
		if e.Val == 0 {
			continue
		}
		b.cols = append(b.cols, e.Col)
		b.vals = append(b.vals, e.Val)
	}
	if b.strict && len(b.vals) == start {
		return ErrEmptyRow
	}
	b.rowPtr = append(b.rowPtr, len(b.vals))
	return nil
}

// Build returns the Matrix. The builder must not be used afterwards.
func (b *Builder) Build() *Matrix {
	m := &Matrix{
		rowPtr: b.rowPtr,
		cols:   b.cols,
		vals:   b.vals,
		dims:   b.dims,
	}
	*b = Builder{}
	return m
}
