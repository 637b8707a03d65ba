// Package store persists season link files and the resume state on an afero filesystem.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Belphemur/SeriesDumpster/internal/config"
	"github.com/Belphemur/SeriesDumpster/internal/models"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// AggregatePrefix names the temporary merge files handed to the downloader.
const AggregatePrefix = "tmp_download_"

// LinkStore reads and appends one-link-per-line season files below an output directory
type LinkStore struct {
	fs     afero.Afero
	dir    string
	layout models.Layout
}

// NewLinkStore creates a LinkStore rooted at dir
func NewLinkStore(filesystem afero.Fs, dir string, layout models.Layout) *LinkStore {
	return &LinkStore{fs: afero.Afero{Fs: filesystem}, dir: dir, layout: layout}
}

// SeasonFile returns the file holding the links of season index of the named series.
// The name is used verbatim.
func (s *LinkStore) SeasonFile(series string, index int) string {
	if s.layout == models.LayoutNested {
		return filepath.Join(s.dir, series, fmt.Sprintf("season%d.txt", index))
	}
	return filepath.Join(s.dir, fmt.Sprintf("%s_season%d.txt", series, index))
}

// Load returns the set of non-blank, trimmed lines of path. A missing file is an empty set.
func (s *LinkStore) Load(path string) (map[string]struct{}, error) {
	links := make(map[string]struct{})

	file, err := s.fs.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return links, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			links[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return links, nil
}

// Append writes each link on its own line at the end of path, creating the file and its
// parent directories as needed. Nothing is touched when links is empty.
func (s *LinkStore) Append(path string, links []string) error {
	if len(links) == 0 {
		return nil
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	file, err := s.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s for append: %w", path, err)
	}

	w := bufio.NewWriter(file)
	for _, link := range links {
		_, _ = w.WriteString(link)
		_ = w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return file.Close()
}

// ListLinkFiles returns every .txt file below the output directory in lexical order,
// skipping in-flight aggregate files. A missing directory yields no files.
func (s *LinkStore) ListLinkFiles() ([]string, error) {
	if exists, err := s.fs.DirExists(s.dir); err != nil || !exists {
		return nil, err
	}

	var files []string
	err := s.fs.Walk(s.dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".txt" || strings.HasPrefix(info.Name(), AggregatePrefix) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list link files in %s: %w", s.dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// WriteAggregate concatenates the raw content of files, in order, into a fresh temporary
// file inside the output directory and returns its path.
func (s *LinkStore) WriteAggregate(files []string) (string, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, AggregatePrefix+uuid.NewString()+".txt")
	out, err := s.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create aggregate file: %w", err)
	}

	for _, file := range files {
		if err := s.copyInto(out, file); err != nil {
			out.Close()
			_ = s.fs.Remove(path)
			return "", err
		}
	}
	if err := out.Close(); err != nil {
		_ = s.fs.Remove(path)
		return "", fmt.Errorf("failed to close aggregate file: %w", err)
	}

	logger := config.GetLogger()
	logger.Debug().Str("path", path).Int("files", len(files)).Msg("Aggregate file written")
	return path, nil
}

// copyInto appends file to out, terminating the last line if the file lacks a trailing newline.
func (s *LinkStore) copyInto(out io.Writer, file string) error {
	content, err := s.fs.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	if len(content) > 0 && content[len(content)-1] != '\n' {
		content = append(content, '\n')
	}
	if _, err := out.Write(content); err != nil {
		return fmt.Errorf("failed to copy %s: %w", file, err)
	}
	return nil
}

// Remove deletes path
func (s *LinkStore) Remove(path string) error {
	return s.fs.Remove(path)
}

// Exists reports whether path exists
func (s *LinkStore) Exists(path string) bool {
	ok, err := s.fs.Exists(path)
	return err == nil && ok
}
