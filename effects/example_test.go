package effects_test

import (
	"fmt"

	"github.com/cwbudde/algo-ledviz/config"
	"github.com/cwbudde/algo-ledviz/effects"
)

func ExampleBars() {
	opts := config.Default()
	opts.Smooth = false
	opts.Multicolor = false

	buf := make([]config.Color, 5)
	effects.Bars{}.Render(2.3, &opts, buf)

	for _, c := range buf {
		fmt.Print(c.Hex(), " ")
	}
	fmt.Println()

	// Output:
	// #000000 #000000 #ffffff #ffffff #ffffff
}
