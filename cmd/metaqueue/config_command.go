package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/metaqueue/pkg/preview"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Value"},
				configRows(cfg),
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

// configRows lists non-secret settings.
func configRows(cfg appConfig) [][]string {
	rows := [][]string{
		{"environment", cfg.Environment},
		{"queue.max_items", strconv.Itoa(cfg.Queue.MaxItems)},
		{"queue.max_concurrent", strconv.Itoa(cfg.Queue.MaxConcurrent)},
		{"queue.quota_operation", cfg.Queue.QuotaOperation},
		{"queue.auto_start", strconv.FormatBool(cfg.Queue.AutoStart)},
		{"extract.timeout", cfg.ExtractTimeout.String()},
		{"extract.max_bytes", strconv.FormatInt(cfg.MaxFileBytes, 10)},
		{"quota.store", cfg.QuotaStore},
		{"quota.daily_limit", strconv.FormatInt(cfg.Quota.DefaultLimit, 10)},
	}
	for _, op := range slices.Sorted(maps.Keys(cfg.Quota.Limits)) {
		rows = append(rows, []string{"quota.limit." + op, strconv.FormatInt(cfg.Quota.Limits[op], 10)})
	}
	rows = append(rows, []string{"preview.driver", cfg.Preview.Driver})
	switch cfg.Preview.Driver {
	case preview.DriverLocal:
		rows = append(rows, []string{"preview.local_dir", cfg.Preview.LocalDir})
	case preview.DriverS3:
		rows = append(rows,
			[]string{"preview.s3.bucket", cfg.Preview.S3.Bucket},
			[]string{"preview.s3.region", cfg.Preview.S3.Region},
		)
	}
	return rows
}
