package materialize

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RecordFileName is written to the output root after every download.
const RecordFileName = "ultralight-sdk.json"

// Record describes the last SDK archive materialized into an output root.
// It is informational; staleness is always decided from the files on disk.
type Record struct {
	Version      string            `json:"version"`
	Platform     string            `json:"platform"`
	URL          string            `json:"url"`
	Categories   map[string]string `json:"categories"`
	DownloadedAt string            `json:"downloaded_at"`
}

// RecordPath returns the record location for outRoot.
func RecordPath(outRoot string) string {
	return filepath.Join(outRoot, RecordFileName)
}

// LoadRecord reads the record from outRoot. A missing record is reported as
// ok == false without an error.
func LoadRecord(outRoot string) (Record, bool, error) {
	contents, err := os.ReadFile(RecordPath(outRoot))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("read record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(contents, &rec); err != nil {
		return Record{}, false, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, true, nil
}

// SaveRecord atomically replaces the record in outRoot.
func SaveRecord(outRoot string, rec Record) error {
	path := RecordPath(outRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare record directory: %w", err)
	}

	buf, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "record-*.json")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("write record temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close record temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}

func newRecord(res Result, now time.Time) Record {
	cats := make(map[string]string, len(res.Categories))
	for _, c := range res.Categories {
		if c.Status == StatusCopied {
			cats[c.Category.String()] = c.Dir
		}
	}
	return Record{
		Version:      res.Version,
		Platform:     res.Platform.String(),
		URL:          res.URL,
		Categories:   cats,
		DownloadedAt: now.UTC().Format(time.RFC3339),
	}
}
