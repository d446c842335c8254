package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteAssignment writes one "docid,cluster" line per document.
func WriteAssignment(w io.Writer, docIDs []int, assignment []int) error {
	if len(docIDs) != len(assignment) {
		return fmt.Errorf("corpus: %d document ids for %d assignments", len(docIDs), len(assignment))
	}

	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for i, id := range docIDs {
		buf = strconv.AppendInt(buf[:0], int64(id), 10)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(assignment[i]), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
