package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shopscope/shopscope/pkg/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Re-export the latest stored run as JSON and CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyOutputFlag(cmd)

		db, err := storage.Open(viper.GetString("db.path"))
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := db.LatestRun(context.Background())
		if err != nil {
			return err
		}
		return exportRun(db, run.ID)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("output", "", "Output directory for JSON/CSV exports")
}
