package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clockcode-go/config"
	"clockcode-go/errcode"
	"clockcode-go/rcc"
	"clockcode-go/types"
)

// boardFlags selects a topology from a built-in board or a YAML file.
type boardFlags struct {
	board string
	file  string
	set   string
}

func (b *boardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&b.board, "board", "b", "", "built-in board name")
	cmd.Flags().StringVarP(&b.file, "file", "f", "", "board YAML file")
	cmd.Flags().StringVar(&b.set, "set", "", "overrides, e.g. 'pll1.q=10 \"hse.freq=25 MHz\"'")
}

func (b *boardFlags) load() (rcc.Family, rcc.Topology, error) {
	ov, err := config.ParseOverrides(b.set)
	if err != nil {
		return nil, rcc.Topology{}, err
	}
	switch {
	case b.board != "" && b.file != "":
		return nil, rcc.Topology{}, errcode.New(errcode.InvalidParams, "clockplan", "--board and --file are exclusive")
	case b.file != "":
		raw, err := os.ReadFile(b.file)
		if err != nil {
			return nil, rcc.Topology{}, errcode.Wrap(errcode.InvalidConfig, "clockplan", err)
		}
		return config.Decode(raw, ov)
	case b.board != "":
		return config.Load(b.board, ov)
	}
	return nil, rcc.Topology{}, errcode.New(errcode.InvalidParams, "clockplan", "one of --board or --file is required")
}

var (
	resolveOpts boardFlags

	resolveCmd = &cobra.Command{
		Use:   "resolve",
		Short: "validate a board topology and print the resolved tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fam, topo, err := resolveOpts.load()
			if err != nil {
				return err
			}
			p, err := rcc.Resolve(fam, topo)
			if err != nil {
				return err
			}
			r := rcc.Report(p)
			return emit(cmd, r, func(w io.Writer) { writeClockReport(w, &r) })
		},
	}
)

func init() {
	resolveOpts.register(resolveCmd)
}

func writeClockReport(w io.Writer, r *types.ClockReport) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "family\t%s\n", r.Family)
	fmt.Fprintf(tw, "scale\t%s\n", r.Scale)
	for _, c := range r.Clocks {
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Text)
	}
	for _, p := range r.PLLs {
		outs := make([]string, 0, len(p.Outputs))
		for o := range p.Outputs {
			outs = append(outs, o)
		}
		sort.Strings(outs)
		fmt.Fprintf(tw, "pll%d\t%s/%d*%d ref %s (%s) vco %s (%s)", p.PLL, p.Source, p.PreDiv, p.Mul, p.Ref.Text, p.Band, p.VCO.Text, p.VCORange)
		for _, o := range outs {
			fmt.Fprintf(tw, " %s=%s", o, p.Outputs[o].Text)
		}
		fmt.Fprintln(tw)
	}
	for _, k := range r.Kernels {
		if k.Freq == nil {
			fmt.Fprintf(tw, "mux %s\toff\n", k.Mux)
			continue
		}
		fmt.Fprintf(tw, "mux %s\t%s (%s)\n", k.Mux, k.Freq.Text, k.Source)
	}
	fmt.Fprintf(tw, "flash\tlatency %d wrhighfreq %d\n", r.Flash.Latency, r.Flash.WrHighFreq)
	if r.Ceilings.Core != nil {
		fmt.Fprintf(tw, "ceilings\tcore %s hclk %s pclk %s\n", r.Ceilings.Core.Text, r.Ceilings.HCLK.Text, r.Ceilings.PCLK.Text)
	} else {
		fmt.Fprintf(tw, "ceilings\thclk %s pclk %s\n", r.Ceilings.HCLK.Text, r.Ceilings.PCLK.Text)
	}
	tw.Flush()
}
