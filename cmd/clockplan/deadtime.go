package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"clockcode-go/drivers/advtim"
	"clockcode-go/errcode"
	"clockcode-go/rcc"
	"clockcode-go/types"
	"clockcode-go/x/freq"
	"clockcode-go/x/mathx"
	"clockcode-go/x/mmio"
)

type deadtimeOptions struct {
	boardFlags
	ticks uint16
	ns    uint32
	clock string
	node  string
}

// fixedClock feeds every node at one frequency.
type fixedClock freq.Hertz

func (f fixedClock) Get(rcc.ClockID) (freq.Hertz, bool) { return freq.Hertz(f), f != 0 }

var (
	deadtimeOpts deadtimeOptions

	deadtimeCmd = &cobra.Command{
		Use:   "deadtime",
		Short: "resolve an advanced-timer dead time",
		Long: `deadtime picks the CKD divider and BDTR.DTG code nearest to a dead time.
The target is either --ticks of the timer kernel clock, or --ns together
with the kernel clock given by --clock or taken from a resolved board.`,
		Example: `  clockplan deadtime --ticks 300
  clockplan deadtime --ns 250 --clock 200MHz
  clockplan deadtime --ns 250 --board nucleo-h743zi`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := &deadtimeOpts
			fl := cmd.Flags()
			r, err := deadTime(o, fl.Changed("ticks"), fl.Changed("ns"))
			if err != nil {
				return err
			}
			return emit(cmd, r, func(w io.Writer) {
				fmt.Fprintf(w, "target %d ticks: ckd /%d dtg 0x%02x = %d ticks", r.Target, r.Divider, r.DTG, r.Achieved)
				if r.Nanos != 0 {
					fmt.Fprintf(w, " (%d ns)", r.Nanos)
				}
				fmt.Fprintln(w)
			})
		},
	}
)

func init() {
	deadtimeOpts.register(deadtimeCmd)
	deadtimeCmd.Flags().Uint16Var(&deadtimeOpts.ticks, "ticks", 0, "dead time in kernel clock ticks")
	deadtimeCmd.Flags().Uint32Var(&deadtimeOpts.ns, "ns", 0, "dead time in nanoseconds")
	deadtimeCmd.Flags().StringVar(&deadtimeOpts.clock, "clock", "", "timer kernel clock, e.g. 200MHz")
	deadtimeCmd.Flags().StringVar(&deadtimeOpts.node, "node", "pclk2_tim", "clock node feeding the timer when --board or --file is used")
}

func deadTime(o *deadtimeOptions, byTicks, byNanos bool) (types.DeadTimeReport, error) {
	var r types.DeadTimeReport
	if byTicks == byNanos {
		return r, errcode.New(errcode.InvalidParams, "deadtime", "exactly one of --ticks or --ns is required")
	}
	if byTicks {
		d := advtim.ComputeDeadTime(o.ticks)
		return types.DeadTimeReport{Target: uint32(o.ticks), Divider: d.CKD.Div(), DTG: d.DTG, Achieved: d.Ticks()}, nil
	}

	var src rcc.FrequencySource
	node := rcc.PCLK2Tim
	switch {
	case o.clock != "":
		f, err := freq.Parse(o.clock)
		if err != nil {
			return r, errcode.Wrap(errcode.InvalidParams, "deadtime", err)
		}
		src = fixedClock(f)
	case o.board != "" || o.file != "":
		fam, topo, err := o.load()
		if err != nil {
			return r, err
		}
		c, err := rcc.Validate(fam, topo)
		if err != nil {
			return r, err
		}
		id, ok := rcc.ParseClockID(o.node)
		if !ok {
			return r, errcode.New(errcode.InvalidParams, "deadtime", "clock node "+strconv.Quote(o.node))
		}
		src, node = c, id
	default:
		return r, errcode.New(errcode.InvalidParams, "deadtime", "--ns needs --clock, --board or --file")
	}

	// Program a timer on a scratch register file and read the setting back.
	tim := advtim.New(mmio.NewMap(), advtim.TIM1, src)
	tim.Configure(advtim.Config{Clock: &node})
	if _, err := tim.SetDeadTimeNanos(o.ns); err != nil {
		return r, err
	}
	f, _ := src.Get(node)
	d := tim.DeadTime()
	return types.DeadTimeReport{
		Target:   uint32(advtim.NanosToTicks(o.ns, f)),
		Divider:  d.CKD.Div(),
		DTG:      d.DTG,
		Achieved: d.Ticks(),
		Nanos:    mathx.RoundDiv(uint64(d.Ticks())*1_000_000_000, uint64(f)),
	}, nil
}
