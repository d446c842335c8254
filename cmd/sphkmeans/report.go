package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hupe1980/sphkmeans"
	"github.com/hupe1980/sphkmeans/corpus"
)

// report is the --json form of a run.
type report struct {
	*sphkmeans.Result

	Classes       []string `json:"classes,omitempty"`
	Sizes         []int    `json:"sizes"`
	Contingency   [][]int  `json:"contingency,omitempty"`
	AvgIterations float64  `json:"avg_iterations"`
	Elapsed       float64  `json:"elapsed_seconds"`
}

func newReport(res *sphkmeans.Result, classes *corpus.Classes, metrics *sphkmeans.BasicMetricsCollector, elapsed time.Duration) report {
	r := report{
		Result:        res,
		Classes:       classes.Names,
		Sizes:         res.Sizes(),
		AvgIterations: metrics.AvgIterations(),
		Elapsed:       elapsed.Seconds(),
	}
	if res.Contingency != nil {
		r.Contingency = res.Contingency.ByCluster()
	}
	return r
}

func printSummary(w io.Writer, res *sphkmeans.Result, classes *corpus.Classes, metrics *sphkmeans.BasicMetricsCollector, elapsed time.Duration) error {
	lines := []string{
		fmt.Sprintf("time: %.3f", elapsed.Seconds()),
		fmt.Sprintf("avg iter: %.3f", metrics.AvgIterations()),
		fmt.Sprintf("seed: %d", res.Seed),
		fmt.Sprintf("obj: %.3f", res.Objective),
		fmt.Sprintf("entropy: %.3f", res.Entropy),
		fmt.Sprintf("purity: %.3f", res.Purity),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if res.Contingency == nil {
		return nil
	}
	_, err := fmt.Fprintln(w, contingencyTable(res, classes.Names, tableStyleFor(w)))
	return err
}

// contingencyTable renders one row per cluster and one column per class.
func contingencyTable(res *sphkmeans.Result, names []string, style tableStyle) string {
	c := res.Contingency

	headers := make([]string, 0, c.Classes()+2)
	headers = append(headers, "cluster", "size")
	aligns := []columnAlignment{alignRight, alignRight}
	for i := range c.Classes() {
		name := strconv.Itoa(i)
		if i < len(names) {
			name = names[i]
		}
		headers = append(headers, name)
		aligns = append(aligns, alignRight)
	}

	rows := make([][]string, 0, c.Clusters())
	for j, counts := range c.ByCluster() {
		row := make([]string, 0, len(headers))
		row = append(row, strconv.Itoa(j), strconv.Itoa(c.Size(j)))
		for _, n := range counts {
			row = append(row, strconv.Itoa(n))
		}
		rows = append(rows, row)
	}

	return renderTable(headers, rows, aligns, style)
}
