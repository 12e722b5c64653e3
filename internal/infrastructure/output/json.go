package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"JournalFeed/internal/domain"
	"JournalFeed/internal/ports"
)

var safeNameExpr = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// StreamWriter encodes feeds as indented JSON onto a single writer.
type StreamWriter struct {
	w io.Writer
}

var _ ports.FeedWriter = (*StreamWriter)(nil)

// NewStreamWriter wraps w, typically os.Stdout.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

// WriteFeed encodes feed onto the underlying writer.
func (s *StreamWriter) WriteFeed(_ context.Context, _ string, feed domain.Feed) error {
	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(feed); err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	return nil
}

// DirWriter stores each journal's feed as <dir>/<journal>.json.
type DirWriter struct {
	dir string
}

var _ ports.FeedWriter = (*DirWriter)(nil)

// NewDirWriter targets dir, creating it on first write.
func NewDirWriter(dir string) *DirWriter {
	return &DirWriter{dir: dir}
}

// Path returns the file a journal's feed is written to.
func (d *DirWriter) Path(journalID string) string {
	name := safeNameExpr.ReplaceAllString(journalID, "_")
	return filepath.Join(d.dir, name+".json")
}

// WriteFeed replaces the journal's file atomically via a temp file and rename.
func (d *DirWriter) WriteFeed(ctx context.Context, journalID string, feed domain.Feed) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, ".feed-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := NewStreamWriter(tmp).WriteFeed(ctx, journalID, feed); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, d.Path(journalID)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace feed file: %w", err)
	}
	return nil
}
