package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"clockcode-go/config"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "list the built-in boards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := config.Boards()
		return emit(cmd, names, func(w io.Writer) {
			io.WriteString(w, strings.Join(names, "\n")+"\n")
		})
	},
}
