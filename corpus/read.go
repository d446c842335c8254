package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/sphkmeans/sparse"
)

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true
	return cr
}

// ReadMatrix parses one document per line and returns the matrix with the
// document id of every row. All triples of a line must carry the same id.
// Blank lines are skipped.
func ReadMatrix(r io.Reader, opts ...sparse.BuilderOption) (*sparse.Matrix, []int, error) {
	cr := newCSVReader(r)
	b := sparse.NewBuilder(opts...)

	var (
		docIDs []int
		row    []sparse.Entry
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := cr.FieldPos(0)

		if len(rec)%3 != 0 {
			return nil, nil, &ParseError{Line: line, Field: len(rec), cause: fmt.Errorf("%d fields is not a multiple of 3", len(rec))}
		}

		row = row[:0]
		docID := 0
		for i := 0; i < len(rec); i += 3 {
			id, err := atoi(rec[i])
			if err != nil {
				return nil, nil, &ParseError{Line: line, Field: i, cause: err}
			}
			if i == 0 {
				docID = id
			} else if id != docID {
				return nil, nil, &ParseError{Line: line, Field: i, cause: fmt.Errorf("document id %d differs from %d", id, docID)}
			}

			col, err := atoi32(rec[i+1])
			if err != nil {
				return nil, nil, &ParseError{Line: line, Field: i + 1, cause: err}
			}
			val, err := atoi32(rec[i+2])
			if err != nil {
				return nil, nil, &ParseError{Line: line, Field: i + 2, cause: err}
			}
			row = append(row, sparse.Entry{Col: col, Val: val})
		}

		if err := b.AddRow(row); err != nil {
			return nil, nil, &ParseError{Line: line, cause: err}
		}
		docIDs = append(docIDs, docID)
	}

	return b.Build(), docIDs, nil
}

// Classes holds dense class ids and the label each id stands for.
type Classes struct {
	// IDs holds the class of every document in [0, len(Names)).
	IDs []int
	// Names maps a class id to its label, in order of first appearance.
	Names []string
}

// ReadClasses parses "docid,label" lines. Labels get dense ids in order of
// first appearance. docIDs, if non-nil, must match the document ids of the
// file line by line. maxClasses <= 0 means no limit.
func ReadClasses(r io.Reader, docIDs []int, maxClasses int) (*Classes, error) {
	cr := newCSVReader(r)
	cr.FieldsPerRecord = 2

	c := &Classes{}
	index := make(map[string]int)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		id, err := atoi(rec[0])
		if err != nil {
			return nil, &ParseError{Line: line, Field: 0, cause: err}
		}
		doc := len(c.IDs)
		if docIDs != nil && (doc >= len(docIDs) || docIDs[doc] != id) {
			return nil, fmt.Errorf("%w: line %d has document %d", ErrDocumentMismatch, line, id)
		}

		label := strings.TrimSpace(rec[1])
		cls, ok := index[label]
		if !ok {
			if maxClasses > 0 && len(c.Names) == maxClasses {
				return nil, fmt.Errorf("%w: %q on line %d exceeds %d", ErrTooManyClasses, label, line, maxClasses)
			}
			cls = len(c.Names)
			index[label] = cls
			c.Names = append(c.Names, label)
		}
		c.IDs = append(c.IDs, cls)
	}

	if docIDs != nil && len(c.IDs) != len(docIDs) {
		return nil, fmt.Errorf("%w: %d labels for %d documents", ErrDocumentMismatch, len(c.IDs), len(docIDs))
	}
	return c, nil
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func atoi32(s string) (int32, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	return int32(v), err
}
