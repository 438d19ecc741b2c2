package groundtruth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"

	"uclevr/internal/dataset"
)

// Store persists masks keyed by question index. A path ending in .npy or
// .npz is a single archive with one array per question; any other path is a
// directory of <question_index>.npy files.
type Store struct {
	Path string
	// StatsPath overrides where stats are written; see DefaultStatsPath.
	StatsPath string
}

// NewStore returns a store rooted at path.
func NewStore(path string) Store {
	return Store{Path: path}
}

// Aggregate reports whether the store is a single archive file.
func (s Store) Aggregate() bool {
	ext := strings.ToLower(filepath.Ext(s.Path))
	return ext == ".npy" || ext == ".npz"
}

// Exists reports whether any ground truth has been persisted at the path.
func (s Store) Exists() bool {
	if s.Aggregate() {
		info, err := os.Stat(s.Path)
		return err == nil && !info.IsDir()
	}
	files, err := filepath.Glob(filepath.Join(s.Path, "*.npy"))
	return err == nil && len(files) > 0
}

// Load reads every persisted mask. The boolean is false when nothing has
// been persisted yet.
func (s Store) Load() (map[int]Mask, bool, error) {
	if s.Aggregate() {
		return s.loadArchive()
	}
	return s.loadDir()
}

func (s Store) loadArchive() (map[int]Mask, bool, error) {
	if _, err := os.Stat(s.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stat ground truth: %w", err)
	}
	archive, err := npz.Open(s.Path)
	if err != nil {
		return nil, false, fmt.Errorf("open ground truth %s: %w", s.Path, err)
	}
	defer archive.Close()

	masks := make(map[int]Mask)
	for _, key := range archive.Keys() {
		idx, err := questionIndex(key)
		if err != nil {
			return nil, false, err
		}
		var m mat.Dense
		if err := archive.Read(key, &m); err != nil {
			return nil, false, fmt.Errorf("read ground truth %s[%s]: %w", s.Path, key, err)
		}
		masks[idx] = FromMatrix(&m, NonZero)
	}
	return masks, true, nil
}

func (s Store) loadDir() (map[int]Mask, bool, error) {
	files, err := filepath.Glob(filepath.Join(s.Path, "*.npy"))
	if err != nil {
		return nil, false, fmt.Errorf("list ground truth: %w", err)
	}
	if len(files) == 0 {
		return nil, false, nil
	}
	masks := make(map[int]Mask, len(files))
	for _, file := range files {
		idx, err := questionIndex(filepath.Base(file))
		if err != nil {
			return nil, false, err
		}
		m, err := dataset.ReadMatrixFile(file)
		if err != nil {
			return nil, false, fmt.Errorf("read ground truth: %w", err)
		}
		masks[idx] = FromMatrix(m, NonZero)
	}
	return masks, true, nil
}

// Save writes masks in the store layout.
func (s Store) Save(masks map[int]Mask) error {
	keys := make([]int, 0, len(masks))
	for idx := range masks {
		keys = append(keys, idx)
	}
	sort.Ints(keys)

	if s.Aggregate() {
		if dir := filepath.Dir(s.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create ground truth dir: %w", err)
			}
		}
		archive, err := npz.Create(s.Path)
		if err != nil {
			return fmt.Errorf("create ground truth %s: %w", s.Path, err)
		}
		for _, idx := range keys {
			if err := archive.Write(strconv.Itoa(idx), masks[idx].Dense()); err != nil {
				_ = archive.Close()
				return fmt.Errorf("write ground truth %d: %w", idx, err)
			}
		}
		if err := archive.Close(); err != nil {
			return fmt.Errorf("close ground truth %s: %w", s.Path, err)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, 0o755); err != nil {
		return fmt.Errorf("create ground truth dir: %w", err)
	}
	for _, idx := range keys {
		path := filepath.Join(s.Path, strconv.Itoa(idx)+".npy")
		if err := dataset.WriteMatrixFile(path, masks[idx].Dense()); err != nil {
			return fmt.Errorf("write ground truth %d: %w", idx, err)
		}
	}
	return nil
}

// DefaultStatsPath returns where stats live when no path is configured:
// <stem>_stats.json beside an archive, or stats.json inside a directory.
func (s Store) DefaultStatsPath() string {
	if s.StatsPath != "" {
		return s.StatsPath
	}
	if s.Aggregate() {
		return strings.TrimSuffix(s.Path, filepath.Ext(s.Path)) + "_stats.json"
	}
	return filepath.Join(s.Path, "stats.json")
}

// SaveStats writes per-question stats as JSON keyed by question index.
func (s Store) SaveStats(stats map[int]Stats) error {
	path := s.DefaultStatsPath()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create stats dir: %w", err)
		}
	}
	payload, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// LoadStats reads stats written by SaveStats. Missing files yield false.
func (s Store) LoadStats() (map[int]Stats, bool, error) {
	data, err := os.ReadFile(s.DefaultStatsPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read stats: %w", err)
	}
	var stats map[int]Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false, fmt.Errorf("parse stats: %w", err)
	}
	return stats, true, nil
}

func questionIndex(name string) (int, error) {
	stem := strings.TrimSuffix(name, ".npy")
	idx, err := strconv.Atoi(stem)
	if err != nil {
		return 0, fmt.Errorf("ground truth entry %q is not a question index", name)
	}
	return idx, nil
}
