// Command clockplan resolves, plans and simulates STM32 clock trees on the
// host.
package main

import (
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"clockcode-go/errcode"
	"clockcode-go/types"
	"clockcode-go/x/freq"
	"clockcode-go/x/logx"
)

type rootOptions struct {
	output   string
	logLevel string
}

var (
	rootOpts rootOptions

	rootCmd = &cobra.Command{
		Use:   "clockplan",
		Short: "STM32 clock tree planner",
		Long: `clockplan validates STM32H5/H7 clock topologies, searches PLL settings,
runs the bring-up sequence against a simulated register file and resolves
advanced-timer dead times.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, ok := logx.ParseLevel(rootOpts.logLevel)
			if !ok {
				return errcode.New(errcode.InvalidParams, "clockplan", "log level "+strconv.Quote(rootOpts.logLevel))
			}
			logx.SetLevel(lvl)
			logx.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.output, "output", "o", "text", "output format (=text, =json, =yaml)")
	rootCmd.PersistentFlags().StringVar(&rootOpts.logLevel, "log-level", "warn", "log level (=debug, =info, =warn, =error, =off)")
	rootCmd.AddCommand(boardsCmd, resolveCmd, simulateCmd, pllCmd, deadtimeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// emit writes v in the selected format. text renders the human form.
func emit(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	switch rootOpts.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		text(w)
		return nil
	}
	return errcode.New(errcode.InvalidParams, "clockplan", "output format "+strconv.Quote(rootOpts.output))
}

func reportFreq(f freq.Hertz) types.Freq { return types.Freq{Hz: uint64(f), Text: f.String()} }
