package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clockcode-go/errcode"
	"clockcode-go/rcc"
	"clockcode-go/rcc/rccsim"
	"clockcode-go/types"
	"clockcode-go/x/mmio"
)

type simulateOptions struct {
	boardFlags
	limit int
	check bool
	stick string
}

var (
	simulateOpts simulateOptions

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "run the bring-up sequence against simulated registers",
		Long: `simulate resolves a board topology, then drives it from the power-on state
of a simulated RCC, PWR and FLASH register file. It prints the states
reached and every register store. With --check each store is verified
against the ceilings and flash table of the voltage scale in force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fam, topo, err := simulateOpts.load()
			if err != nil {
				return err
			}
			r, err := simulate(fam, topo, &simulateOpts)
			if eerr := emit(cmd, r, func(w io.Writer) { writeBringup(w, &r) }); eerr != nil {
				return eerr
			}
			return err
		},
	}
)

func init() {
	simulateOpts.register(simulateCmd)
	simulateCmd.Flags().IntVar(&simulateOpts.limit, "limit", 1000, "polls before a ready bit is declared stuck")
	simulateCmd.Flags().BoolVar(&simulateOpts.check, "check", true, "verify ceilings and flash timing after every store")
	simulateCmd.Flags().StringVar(&simulateOpts.stick, "stick", "", "hold a ready flag low, e.g. hse_rdy or pll1_rdy")
}

// readyFlag names the ready bits that can be stuck.
func readyFlag(l *rcc.Layout, name string) (mmio.Field, bool) {
	switch name {
	case "hsi_rdy":
		return l.HSIRdy, true
	case "csi_rdy":
		return l.CSIRdy, true
	case "hsi48_rdy":
		return l.HSI48Rdy, true
	case "hse_rdy":
		return l.HSERdy, true
	}
	if n, ok := strings.CutPrefix(name, "pll"); ok {
		if i, ok := strings.CutSuffix(n, "_rdy"); ok {
			if k, err := strconv.Atoi(i); err == nil && k >= 1 && k <= 3 {
				return l.PLLRdy[k-1], true
			}
		}
	}
	return mmio.Field{}, false
}

func simulate(fam rcc.Family, topo rcc.Topology, o *simulateOptions) (types.BringupReport, error) {
	var r types.BringupReport
	p, err := rcc.Resolve(fam, topo)
	if err != nil {
		r.Error = err.Error()
		return r, err
	}

	sim := rccsim.New(fam)
	if topo.HSE != nil {
		sim.HSE = topo.HSE.Freq
	}
	if o.stick != "" {
		f, ok := readyFlag(fam.Layout(), o.stick)
		if !ok {
			err := errcode.New(errcode.InvalidParams, "clockplan", "unknown ready flag "+strconv.Quote(o.stick))
			r.Error = err.Error()
			return r, err
		}
		sim.Stick(f, 0)
	}

	// Checking starts once the safe clock is in place: the reset state of
	// some parts is already outside the table of their reset scale.
	var violation error
	started := false
	if o.check {
		sim.OnStore = func(w rccsim.Write) {
			if started && violation == nil {
				if err := sim.Check(); err != nil {
					violation = errcode.New(errcode.CeilingExceeded, "simulate", w.String()+": "+err.Error())
				}
			}
		}
	}

	seq := rcc.NewSequencer(fam, sim, rcc.Options{
		Poller: rcc.BoundedPoller{Limit: o.limit},
		OnState: func(s rcc.State) {
			r.States = append(r.States, s.String())
			started = true
		},
	})
	_, err = seq.Apply(p)
	for _, w := range sim.Writes() {
		r.Writes = append(r.Writes, types.RegisterWrite{Addr: w.Addr, Old: w.Old, New: w.New})
	}
	if err == nil {
		err = violation
	}
	if err != nil {
		r.Error = err.Error()
		return r, err
	}
	cr := rcc.Report(p)
	r.Clocks = &cr
	return r, nil
}

func writeBringup(w io.Writer, r *types.BringupReport) {
	fmt.Fprintf(w, "states: %s\n", strings.Join(r.States, " -> "))
	fmt.Fprintf(w, "writes: %d\n", len(r.Writes))
	for _, wr := range r.Writes {
		fmt.Fprintf(w, "  0x%08x: 0x%08x -> 0x%08x\n", wr.Addr, wr.Old, wr.New)
	}
	if r.Error != "" {
		fmt.Fprintf(w, "error: %s\n", r.Error)
	}
	if r.Clocks != nil {
		writeClockReport(w, r.Clocks)
	}
}
