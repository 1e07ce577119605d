// main.go
//
// Entry point for compartment-sim; CLI handling lives in the Cobra commands under cmd/.

package main

import (
	"github.com/inference-sim/compartment-sim/cmd"
)

func main() {
	cmd.Execute()
}
