package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shopscope/shopscope/internal/server"
	"github.com/shopscope/shopscope/internal/utils"
	"github.com/shopscope/shopscope/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the latest results over HTTP and accept re-crawl triggers",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.Open(viper.GetString("db.path"))
		if err != nil {
			return err
		}
		defer db.Close()

		lock, err := utils.NewCrawlLock(viper.GetString("crawler.output_dir"))
		if err != nil {
			return err
		}

		s := server.New(db, lock,
			func() error { return runCrawl(context.Background()) },
			viper.GetString("server.username"),
			viper.GetString("server.password"))

		return s.Start(viper.GetString("server.listen"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}
