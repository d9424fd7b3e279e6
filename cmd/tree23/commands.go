package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kocubinski/tree23"
	"github.com/kocubinski/tree23/bench"
)

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func genCommand() *cobra.Command {
	gen := bench.BankLikeGenerator(0, 100)
	var changesetDir string
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generates changeset files for a deterministic workload.",
	}
	cmd.Flags().StringVar(&changesetDir, "changeset-dir", "", "Directory to write the changeset files to.")
	cmd.Flags().Int64Var(&gen.Seed, "seed", gen.Seed, "Generator seed.")
	cmd.Flags().Int64Var(&gen.Versions, "versions", gen.Versions, "Number of versions to generate.")
	cmd.Flags().IntVar(&gen.InitialSize, "initial-size", gen.InitialSize, "Live keys after version 1.")
	cmd.Flags().IntVar(&gen.FinalSize, "final-size", gen.FinalSize, "Live keys after the last version.")
	cmd.Flags().IntVar(&gen.ChangePerVersion, "change-per-version", gen.ChangePerVersion, "Updates and deletes per version.")
	cmd.Flags().Float64Var(&gen.DeleteFraction, "delete-fraction", gen.DeleteFraction, "Fraction of each version's changes that are deletes.")
	cmd.Flags().IntVar(&gen.KeyMean, "key-mean", gen.KeyMean, "Mean key length in bytes before hex encoding.")
	cmd.Flags().IntVar(&gen.ValueMean, "value-mean", gen.ValueMean, "Mean value length in bytes before hex encoding.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if changesetDir == "" {
			return fmt.Errorf("changeset-dir is required")
		}
		if err := os.MkdirAll(changesetDir, 0o755); err != nil {
			return fmt.Errorf("error creating changeset dir: %w", err)
		}
		log := newLogger()
		log.Info().Int64("versions", gen.Versions).Msg("generating changesets")
		return bench.WriteChangesets(gen, changesetDir)
	}
	return cmd
}

func runCommand() *cobra.Command {
	var changesetDir string
	var targetVersion int64
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replays changeset files into a fresh tree and reports timings.",
	}
	cmd.Flags().StringVar(&changesetDir, "changeset-dir", "", "Directory containing the changeset files.")
	cmd.Flags().Int64Var(&targetVersion, "versions", 0, "Number of versions to apply. If 0, all versions are applied.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if changesetDir == "" {
			return fmt.Errorf("changeset-dir is required")
		}
		ctx := bench.NewTreeContext(cmd.Context(), newLogger(), prometheus.DefaultRegisterer)
		m := tree23.New[string, string]()
		return ctx.Replay(m, changesetDir, targetVersion)
	}
	return cmd
}

func graphCommand() *cobra.Command {
	var seed int64
	var keys int
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Builds a small random tree and prints it in graphviz dot format.",
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "Generator seed.")
	cmd.Flags().IntVar(&keys, "keys", 12, "Number of keys to insert.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		gen := bench.ChangesetGenerator{
			Seed:             seed,
			KeyMean:          4,
			KeyStdDev:        1,
			ValueMean:        4,
			ValueStdDev:      1,
			InitialSize:      keys,
			FinalSize:        keys,
			Versions:         2,
			ChangePerVersion: 0,
		}
		itr, err := gen.Iterator()
		if err != nil {
			return err
		}
		m := tree23.New[string, string]()
		for ; itr.Valid(); err = itr.Next() {
			if err != nil {
				return err
			}
			m.Set(itr.Op.Key, itr.Op.Value)
		}
		fmt.Println(tree23.RenderDotGraph(m))
		return nil
	}
	return cmd
}
