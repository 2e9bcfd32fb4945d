package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/happyhackingspace/duygu"
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCommand() *cobra.Command {
	var modelPath string
	var proba bool

	cmd := &cobra.Command{
		Use:   "run [text-or-file]",
		Short: "Classify the sentiment of a review given as text, a file, or stdin",
		Args:  cobra.MaximumNArgs(1),
		Example: `  # Classify a review directly
  duygu run "A moving story with brilliant acting."

  # Classify a review stored in a file
  duygu run review.txt

  # One review per line from stdin
  cat reviews.txt | duygu run

  # Show probability scores
  duygu run "Two hours I will never get back." --proba

  # Use custom model file
  duygu run review.txt --model custom.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var texts []string
			var err error

			if len(args) == 0 {
				if isStdinTerminal() {
					return cmd.Help()
				}
				texts, err = readFromStdin()
			} else {
				texts, err = readTarget(args[0])
			}
			if err != nil {
				return err
			}
			slog.Debug("Reviews read", "count", len(texts))

			start := time.Now()
			cl, err := c.loadModel(modelPath)
			if err != nil {
				return err
			}
			slog.Debug("Model loaded", "duration", time.Since(start), "vocabulary", cl.VocabSize())

			start = time.Now()
			if proba {
				results := make([]map[string]float64, 0, len(texts))
				for _, text := range texts {
					p, err := cl.ClassifyProba(text)
					if err != nil {
						return err
					}
					results = append(results, p)
				}
				slog.Debug("Classification completed", "reviews", len(texts), "duration", time.Since(start))
				return printJSON(results)
			}

			sentiments, err := cl.ClassifyBatch(texts)
			if err != nil {
				return err
			}
			slog.Debug("Classification completed", "reviews", len(texts), "duration", time.Since(start))
			labels := make([]string, len(sentiments))
			for i, s := range sentiments {
				labels[i] = s.String()
			}
			return printJSON(labels)
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "Path to model file (default: auto-detect)")
	cmd.Flags().BoolVar(&proba, "proba", false, "Show probabilities")
	return cmd
}

// loadModel resolves the model from the flag, the DUYGU_MODEL setting, the
// working tree, and finally the user cache directory.
func (c *CLI) loadModel(modelPath string) (*duygu.Classifier, error) {
	if modelPath != "" {
		slog.Debug("Loading custom model", "path", modelPath)
		return duygu.Load(modelPath)
	}
	if _, err := os.Stat(c.cfg.Model); err == nil {
		return duygu.Load(c.cfg.Model)
	}

	cl, err := duygu.New()
	if err == nil {
		return cl, nil
	}

	cached := filepath.Join(duygu.ModelDir(), "model.json")
	if _, statErr := os.Stat(cached); statErr == nil {
		slog.Debug("Loading cached model", "path", cached)
		return duygu.Load(cached)
	}
	return nil, fmt.Errorf("%w; train one with: duygu train %s", err, cached)
}

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func isStdinTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// readTarget treats an existing file as one review and anything else as
// the review text itself.
func readTarget(target string) ([]string, error) {
	if fi, err := os.Stat(target); err == nil && !fi.IsDir() {
		data, err := os.ReadFile(target)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return []string{string(data)}, nil
	}
	return []string{target}, nil
}

func readFromStdin() ([]string, error) {
	slog.Debug("Reading from stdin")
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return splitLines(string(body))
}

func splitLines(content string) ([]string, error) {
	var texts []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			texts = append(texts, line)
		}
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}
	return texts, nil
}
