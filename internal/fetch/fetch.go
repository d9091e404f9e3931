// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads coordinate files from a structure archive such
// as the RCSB PDB.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/basepair-engine/internal/httputil"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

// ErrInvalidID is returned for identifiers that are not four-character
// PDB codes.
var ErrInvalidID = errors.New("invalid PDB identifier")

var pdbID = regexp.MustCompile(`^[0-9][A-Za-z0-9]{3}$`)

// NormalizeID upper-cases id and checks that it is a PDB code.
func NormalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if !pdbID.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return strings.ToUpper(id), nil
}

// Outcome reports what happened to one identifier.
type Outcome struct {
	ID      string
	Path    string
	Skipped bool
	Err     error
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Fetcher downloads structures into a directory.
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
}

// New creates a fetcher. A nil client gets one with cfg.Timeout.
func New(cfg types.FetchConfig, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{client: client, cfg: cfg}
}

// Path returns where the file for id is stored.
func (f *Fetcher) Path(id string) string {
	return filepath.Join(f.cfg.Dir, id+".pdb")
}

// Fetch downloads each identifier in turn, skipping files already present.
// Failures are reported per identifier and do not stop the batch.
func (f *Fetcher) Fetch(ctx context.Context, ids []string, w io.Writer) ([]Outcome, Summary, error) {
	if err := os.MkdirAll(f.cfg.Dir, 0o755); err != nil {
		return nil, Summary{}, fmt.Errorf("creating %s: %w", f.cfg.Dir, err)
	}

	var (
		outcomes []Outcome
		summary  Summary
	)
	for i, raw := range ids {
		if err := ctx.Err(); err != nil {
			return outcomes, summary, err
		}
		if i > 0 && f.cfg.Delay > 0 {
			select {
			case <-ctx.Done():
				return outcomes, summary, ctx.Err()
			case <-time.After(f.cfg.Delay):
			}
		}

		o := f.fetchOne(ctx, raw, w)
		switch {
		case o.Err != nil:
			summary.Failed++
			fmt.Fprintf(w, "failed  %s: %v\n", raw, o.Err)
		case o.Skipped:
			summary.Skipped++
			fmt.Fprintf(w, "skipped %s (exists)\n", o.ID)
		default:
			summary.Downloaded++
			fmt.Fprintf(w, "fetched %s -> %s\n", o.ID, o.Path)
		}
		outcomes = append(outcomes, o)
	}

	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed\n",
		summary.Downloaded, summary.Skipped, summary.Failed)
	return outcomes, summary, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, raw string, w io.Writer) Outcome {
	id, err := NormalizeID(raw)
	if err != nil {
		return Outcome{ID: raw, Err: err}
	}
	dest := f.Path(id)
	if _, err := os.Stat(dest); err == nil {
		return Outcome{ID: id, Path: dest, Skipped: true}
	}

	url := strings.TrimRight(f.cfg.BaseURL, "/") + "/" + id + ".pdb"
	if err := f.download(ctx, url, dest, w); err != nil {
		return Outcome{ID: id, Err: err}
	}
	return Outcome{ID: id, Path: dest}
}

// download writes the body of url to destPath through a temporary file
// so a failed transfer never leaves a partial structure behind.
func (f *Fetcher) download(ctx context.Context, url, destPath string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "chemical/x-pdb, text/plain")

	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.MaxRetries, w)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
