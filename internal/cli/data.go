package cli

import (
	"log/slog"

	"github.com/happyhackingspace/duygu/internal/storage"
	"github.com/spf13/cobra"
)

func (c *CLI) newDataCommand() *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Manage the review dataset",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	dataFolder := c.cfg.Data.Folder
	url := c.cfg.Data.URL
	size := c.cfg.Data.Size
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download the labeled review dataset",
		Example: `  duygu data download
  duygu data download --data-folder data --size 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := storage.NewStorage(dataFolder)
			path, err := store.Download(cmd.Context(), url, storage.DatasetFile(size))
			if err != nil {
				return err
			}
			slog.Info("Dataset ready", "path", path)
			return nil
		},
	}
	downloadCmd.Flags().StringVar(&dataFolder, "data-folder", dataFolder, "Destination folder for the dataset")
	downloadCmd.Flags().StringVar(&url, "url", url, "Dataset URL")
	downloadCmd.Flags().IntVar(&size, "size", size, "Dataset size in thousands of reviews (names the file)")

	dataCmd.AddCommand(downloadCmd)
	return dataCmd
}
