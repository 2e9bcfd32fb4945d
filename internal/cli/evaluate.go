package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/happyhackingspace/duygu"
	"github.com/spf13/cobra"
)

func (c *CLI) newEvaluateCommand() *cobra.Command {
	var dataFile string
	cfg := duygu.EvalConfig{
		Samples:    c.cfg.Train.Samples,
		Seed:       c.cfg.Train.Seed,
		MinDF:      c.cfg.Train.MinDF,
		TrainRatio: c.cfg.Train.TrainRatio,
		Examples:   5,
	}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate model accuracy on a hold-out split or via cross-validation",
		Example: `  duygu evaluate --samples 1000
  duygu evaluate --ratio 0.9 --seed 7
  duygu evaluate --cv 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("Evaluating", "data-file", dataFile, "samples", cfg.Samples, "folds", cfg.Folds, "ratio", cfg.TrainRatio)
			start := time.Now()
			result, err := duygu.Evaluate(dataFile, &cfg)
			if err != nil {
				return err
			}
			slog.Debug("Evaluation completed", "duration", time.Since(start))

			if result.Folds > 1 {
				fmt.Printf("Cross-validation: %d folds\n", result.Folds)
			} else {
				fmt.Printf("Hold-out split: %d train, %d validation\n", result.TrainSize, result.TestSize)
			}
			fmt.Printf("Accuracy: %.1f%% (%d/%d)\n", result.Accuracy*100, result.Correct, result.Total)
			fmt.Printf("Majority baseline: %.1f%%\n", result.Baseline*100)
			fmt.Printf("Macro F1: %.1f%%\n", result.MacroF1*100)
			printConfusionMatrix(result.Confusion)
			printClassReport(result)
			printSamples("Correctly classified", result.CorrectSamples)
			printSamples("Misclassified", result.WrongSamples)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataFile, "data-file", c.cfg.DataFile(), "Path to the review CSV file")
	cmd.Flags().IntVar(&cfg.Samples, "samples", cfg.Samples, "Number of reviews to use (0 = all)")
	cmd.Flags().Float64Var(&cfg.TrainRatio, "ratio", cfg.TrainRatio, "Training share of the hold-out split")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Shuffle seed")
	cmd.Flags().IntVar(&cfg.MinDF, "min-df", cfg.MinDF, "Minimum document frequency of a vocabulary word")
	cmd.Flags().IntVar(&cfg.Folds, "cv", 0, "Number of cross-validation folds (0 = hold-out split)")
	cmd.Flags().IntVar(&cfg.Examples, "examples", cfg.Examples, "Number of correct and wrong samples to print")
	return cmd
}

var classes = []duygu.Sentiment{duygu.Negative, duygu.Positive}

func printClassReport(result *duygu.EvalResult) {
	fmt.Printf("\nPer-class metrics:\n")
	fmt.Printf("%8s  %6s  %6s  %6s  %7s\n", "class", "prec", "recall", "f1", "support")
	for _, cls := range classes {
		support := 0
		for _, v := range result.Confusion[cls] {
			support += v
		}
		fmt.Printf("%8s  %5.1f%%  %5.1f%%  %5.1f%%  %7d\n",
			cls, result.Precision[cls]*100, result.Recall[cls]*100, result.F1[cls]*100, support)
	}
}

func printConfusionMatrix(confusion [][]int) {
	if len(confusion) == 0 {
		return
	}

	fmt.Printf("\nConfusion matrix (rows=true, cols=predicted):\n")
	fmt.Printf("%8s", "")
	for _, c := range classes {
		fmt.Printf(" %8s", c)
	}
	fmt.Printf("  total  acc%%\n")

	for _, trueClass := range classes {
		fmt.Printf("%8s", trueClass)
		total := 0
		correct := 0
		for _, predClass := range classes {
			count := confusion[trueClass][predClass]
			total += count
			if trueClass == predClass {
				correct = count
			}
			if count == 0 {
				fmt.Printf(" %8s", ".")
			} else {
				fmt.Printf(" %8d", count)
			}
		}
		acc := 0.0
		if total > 0 {
			acc = float64(correct) / float64(total) * 100
		}
		fmt.Printf("  %5d %5.1f\n", total, acc)
	}
}

func printSamples(title string, samples []duygu.Sample) {
	if len(samples) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, s := range samples {
		fmt.Printf("  [%s -> %s] %s\n", s.Label, s.Predicted, s.Preview(100))
	}
}
