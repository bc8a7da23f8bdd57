// Command lockdown solves and replays optimal targeted lockdown policies for
// a two-group SIR epidemic.
//
//	lockdown config > scenario.yaml
//	lockdown solve --config scenario.yaml --grid-size 8
//	lockdown simulate --config scenario.yaml --csv out.csv --plot out.png
package main

import (
	"os"
)

func main() {
	a := &app{newLogger: productionLogger}
	if err := a.execute(newRootCmdWith(a)); err != nil {
		os.Exit(1)
	}
}
