package cli

import (
	"log/slog"
	"time"

	"github.com/happyhackingspace/duygu"
	"github.com/spf13/cobra"
)

func (c *CLI) newTrainCommand() *cobra.Command {
	var dataFile string
	cfg := duygu.TrainConfig{
		Samples: c.cfg.Train.Samples,
		Seed:    c.cfg.Train.Seed,
		MinDF:   c.cfg.Train.MinDF,
	}

	cmd := &cobra.Command{
		Use:   "train <modelfile>",
		Short: "Train a model on labeled reviews",
		Args:  cobra.ExactArgs(1),
		Example: `  duygu train model.json
  duygu train model.json --data-file data/review_10k.csv --samples 5000 -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath := args[0]
			slog.Info("Training classifier", "data-file", dataFile, "output", modelPath, "samples", cfg.Samples)
			start := time.Now()
			cl, err := duygu.Train(dataFile, &cfg)
			if err != nil {
				return err
			}
			slog.Debug("Training completed", "duration", time.Since(start), "vocabulary", cl.VocabSize())
			if err := cl.Save(modelPath); err != nil {
				return err
			}
			slog.Info("Model saved", "path", modelPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataFile, "data-file", c.cfg.DataFile(), "Path to the review CSV file")
	cmd.Flags().IntVar(&cfg.Samples, "samples", cfg.Samples, "Number of reviews to use (0 = all)")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Shuffle seed")
	cmd.Flags().IntVar(&cfg.MinDF, "min-df", cfg.MinDF, "Minimum document frequency of a vocabulary word")
	return cmd
}
