package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ydbwellness/ydb/docstore"
	"github.com/ydbwellness/ydb/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter blog posts, papers, areas and team members",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := docstore.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	fixtures, err := seed.Default()
	if err != nil {
		return err
	}
	res, err := seed.Run(cmd.Context(), store, fixtures)
	if err != nil {
		return err
	}
	for coll, n := range res {
		log.Info("seeded", zap.String("collection", coll), zap.Int("documents", n))
		fmt.Fprintf(cmd.OutOrStdout(), "%-16s %d\n", coll, n)
	}
	return nil
}
