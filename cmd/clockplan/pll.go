package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"clockcode-go/errcode"
	"clockcode-go/rcc"
	"clockcode-go/types"
	"clockcode-go/x/freq"
)

type pllOptions struct {
	family string
	pll    int
	source string
	in     string
	target string
	tap    string
}

var pllSources = map[string]rcc.PLLSource{"hsi": rcc.PLLSrcHSI, "csi": rcc.PLLSrcCSI, "hse": rcc.PLLSrcHSE}

var (
	pllOpts pllOptions

	pllCmd = &cobra.Command{
		Use:   "pll",
		Short: "search PLL dividers for a target output frequency",
		Example: `  clockplan pll --family stm32h7 --in 25MHz --target 480MHz
  clockplan pll --family stm32h5 --pll 2 --source hsi --in 64MHz --target 48MHz --tap q`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := planPLL(&pllOpts)
			if err != nil {
				return err
			}
			return emit(cmd, r, func(w io.Writer) {
				fmt.Fprintf(w, "pll%d %s/%d*%d vco %s %s/%d = %s (target %s)\n",
					r.PLL, r.Source, r.PreDiv, r.Mul, r.VCO.Text, r.Output, r.Div, r.Achieved.Text, r.Target.Text)
			})
		},
	}
)

func init() {
	pllCmd.Flags().StringVar(&pllOpts.family, "family", "stm32h7", "silicon family")
	pllCmd.Flags().IntVar(&pllOpts.pll, "pll", 1, "PLL number (=1, =2, =3)")
	pllCmd.Flags().StringVar(&pllOpts.source, "source", "hse", "PLL source (=hsi, =csi, =hse)")
	pllCmd.Flags().StringVar(&pllOpts.in, "in", "", "source frequency, e.g. 25MHz")
	pllCmd.Flags().StringVar(&pllOpts.target, "target", "", "wanted output frequency")
	pllCmd.Flags().StringVar(&pllOpts.tap, "tap", "p", "PLL output (=p, =q, =r, =s, =t)")
}

func planPLL(o *pllOptions) (types.PLLSearchReport, error) {
	var r types.PLLSearchReport
	fam, err := rcc.FamilyByName(o.family)
	if err != nil {
		return r, err
	}
	src, ok := pllSources[o.source]
	if !ok {
		return r, errcode.New(errcode.InvalidParams, "pll", "source "+strconv.Quote(o.source))
	}
	out, ok := rcc.ParsePLLOutput(o.tap)
	if !ok {
		return r, errcode.New(errcode.InvalidParams, "pll", "output "+strconv.Quote(o.tap))
	}
	in, err := freq.Parse(o.in)
	if err != nil {
		return r, errcode.Wrap(errcode.InvalidParams, "pll", err)
	}
	target, err := freq.Parse(o.target)
	if err != nil {
		return r, errcode.Wrap(errcode.InvalidParams, "pll", err)
	}
	pl, got, err := rcc.PlanPLL(fam, o.pll-1, src, in, target, out)
	if err != nil {
		return r, err
	}
	return types.PLLSearchReport{
		Family:   fam.Traits().Name,
		PLL:      o.pll,
		Source:   src.String(),
		In:       reportFreq(in),
		PreDiv:   pl.PreDiv,
		Mul:      pl.Mul,
		VCO:      reportFreq(in.Div(uint32(pl.PreDiv)).Mul(uint32(pl.Mul))),
		Output:   out.String(),
		Div:      uint8(pl.Outputs()[out]),
		Target:   reportFreq(target),
		Achieved: reportFreq(got),
	}, nil
}
