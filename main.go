package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "qpsimplex",
		Short:         "Minimize xᵀQx + qᵀx over a product of unit simplices",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSolveCmd(), newGenerateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "qpsimplex:", err)
		os.Exit(1)
	}
}
