package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"q.log/qpsimplex/instance"
)

func newGenerateCmd() *cobra.Command {
	var (
		ecc  float64
		seed uint64
	)
	cmd := &cobra.Command{
		Use:   "generate <n> <k> <base>",
		Short: "Write a random instance with n variables and k blocks",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("n: %w", err)
			}
			k, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("k: %w", err)
			}

			in, err := instance.Generate(n, k, ecc, seed)
			if err != nil {
				return err
			}
			if err := in.Write(args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s%s, %s%s and %s%s\n",
				args[2], instance.QuadSuffix, args[2], instance.LinearSuffix, args[2], instance.PartitionSuffix)
			return nil
		},
	}
	cmd.Flags().Float64Var(&ecc, "ecc", 0.5, "eccentricity of Q in [0,1)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	return cmd
}
