package main

import (
	"time"

	"clockcode-go/drivers/advtim"
	"clockcode-go/rcc"
	"clockcode-go/x/freq"
)

// deadTimeNanos is the bridge dead time the motor stage needs.
const deadTimeNanos = 100

func main() {
	fam := rcc.Target
	topo := boardTopology(fam)
	clocks, err := rcc.Bringup(fam, topo, newBus(fam, topo), rcc.Options{})
	if err != nil {
		// Never run on a half-applied tree.
		for {
			println("rcc bring-up failed:", err.Error())
			time.Sleep(time.Second)
		}
	}

	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot", fam.Traits().Name)
	clocks.Each(func(id rcc.ClockID, f freq.Hertz) {
		println(" ", id.String(), f.String())
	})
	if f, ok := clocks.Get(rcc.PCLK2Tim); ok {
		dt := advtim.ComputeDeadTime(advtim.NanosToTicks(deadTimeNanos, f))
		println("  tim1 dead time: ckd", dt.CKD.Div(), "dtg", dt.DTG, "ticks", dt.Ticks())
	}

	// Periodic stats.
	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	for t := range tick.C {
		println(t.Format("15:04:05"), "Heartbeat")
	}
}
