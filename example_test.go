package sphkmeans_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/hupe1980/sphkmeans"
	"github.com/hupe1980/sphkmeans/corpus"
	"github.com/hupe1980/sphkmeans/sparse"
)

// ExampleRun clusters four two-term documents by their dominant term.
func ExampleRun() {
	b := sparse.NewBuilder()
	for _, row := range [][]sparse.Entry{
		{{Col: 0, Val: 3}, {Col: 1, Val: 4}},
		{{Col: 0, Val: 4}, {Col: 1, Val: 3}},
		{{Col: 1, Val: 5}},
		{{Col: 0, Val: 5}},
	} {
		if err := b.AddRow(row); err != nil {
			log.Fatal(err)
		}
	}

	res, err := sphkmeans.Run(context.Background(), b.Build(), 2,
		sphkmeans.WithGroundTruth([]int{0, 0, 0, 1}, 2),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("obj: %.3f\n", res.Objective)
	fmt.Printf("entropy: %.3f\n", res.Entropy)
	fmt.Printf("purity: %.3f\n", res.Purity)
	fmt.Println("sizes:", res.Sizes())
	// Output:
	// obj: 3.795
	// entropy: 0.500
	// purity: 0.750
	// sizes: [2 2]
}

// Example_corpus reads documents and classes in the text formats of the CLI.
func Example_corpus() {
	docs := "10,0,3,10,1,4\n11,0,4,11,1,3\n12,1,5\n13,0,5\n"
	labels := "10,sports\n11,sports\n12,sports\n13,politics\n"

	m, ids, err := corpus.ReadMatrix(strings.NewReader(docs))
	if err != nil {
		log.Fatal(err)
	}
	classes, err := corpus.ReadClasses(strings.NewReader(labels), ids, 20)
	if err != nil {
		log.Fatal(err)
	}

	metrics := &sphkmeans.BasicMetricsCollector{}
	res, err := sphkmeans.Run(context.Background(), m, 2,
		sphkmeans.WithGroundTruth(classes.IDs, len(classes.Names)),
		sphkmeans.WithMetricsCollector(metrics),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("classes:", classes.Names)
	fmt.Println("trials:", metrics.TrialCount.Load())
	fmt.Printf("purity: %.2f\n", res.Purity)
	// Output:
	// classes: [sports politics]
	// trials: 20
	// purity: 0.75
}
