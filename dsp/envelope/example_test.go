package envelope_test

import (
	"fmt"

	"github.com/cwbudde/algo-ledviz/dsp/envelope"
)

func ExampleFollower_Step() {
	f := envelope.NewFollower()
	p := envelope.Params{Gain: 1, Fall: 2, Frequency: 20}

	fmt.Printf("%.2f\n", f.Step(1.0, p))
	fmt.Printf("%.2f\n", f.Step(0.0, p))
	fmt.Printf("%.2f\n", f.Step(0.0, p))

	// Output:
	// 1.00
	// 0.90
	// 0.80
}
