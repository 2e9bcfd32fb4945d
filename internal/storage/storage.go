package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/net/html/charset"
)

// DefaultDatasetURL points at the 10k review dataset.
const DefaultDatasetURL = "https://raw.githubusercontent.com/dongkwan-kim/small_dataset/master/review_10k.csv"

// Storage wraps the dataset folder.
type Storage struct {
	Folder string
	Client *http.Client
}

// NewStorage creates a Storage for the given data folder.
func NewStorage(folder string) *Storage {
	return &Storage{
		Folder: folder,
		Client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// DatasetFile returns the file name of the review dataset with size thousand rows.
func DatasetFile(size int) string {
	return fmt.Sprintf("review_%dk.csv", size)
}

// Path returns the path of name inside the data folder.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.Folder, name)
}

// Download fetches url into the data folder as name and returns its path.
// An existing file is kept as is. The body is decoded to UTF-8 according
// to the response content type.
func (s *Storage) Download(ctx context.Context, url, name string) (string, error) {
	path := s.Path(name)
	if _, err := os.Stat(path); err == nil {
		slog.Info("Dataset already present", "path", path)
		return path, nil
	}
	if err := os.MkdirAll(s.Folder, 0755); err != nil {
		return "", fmt.Errorf("create data folder: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	slog.Info("Downloading dataset", "url", url)
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", url, err)
	}

	tmp, err := os.CreateTemp(s.Folder, name+".*.tmp")
	if err != nil {
		return "", err
	}
	n, err := io.Copy(tmp, body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}

	slog.Info("Dataset saved", "path", path, "bytes", n)
	return path, nil
}
