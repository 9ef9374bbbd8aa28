package justify_test

import (
	"fmt"

	"github.com/matzehuels/imagerows/pkg/justify"
)

func ExampleJustifier_Justify() {
	j := justify.Justifier{Margin: 14, MaxHeight: 200}
	items := []justify.Item{
		{NaturalWidth: 400, NaturalHeight: 200},
		{NaturalWidth: 300, NaturalHeight: 300},
		{NaturalWidth: 100, NaturalHeight: 200},
	}

	for _, row := range j.Justify(items, 600) {
		fmt.Printf("items %d-%d height %.1f fallback=%v widths", row.Start, row.End()-1, row.Height, row.Fallback)
		for _, w := range row.Widths {
			fmt.Printf(" %.1f", w)
		}
		fmt.Println()
	}
	// Output:
	// items 0-1 height 190.7 fallback=false widths 381.3 190.7
	// items 2-2 height 200.0 fallback=true widths 100.0
}

func ExampleJustifier_RowHeight() {
	j := justify.Justifier{Margin: 14}
	h := j.RowHeight([]justify.Item{
		{NaturalWidth: 400, NaturalHeight: 200},
		{}, // not loaded yet: counted as a square
	}, 600)
	fmt.Printf("%.2f\n", h)
	// Output:
	// 190.67
}
