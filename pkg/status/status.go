// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrPathEscapesRoot is returned for a target outside the manager's base directory
var ErrPathEscapesRoot = errors.New("path escapes root directory")

// 📊 FileStatus represents what happened to a target file
type FileStatus int

const (
	StatusUnknown        FileStatus = iota
	StatusPatched                   // content changed and was written
	StatusUnchanged                 // no step changed the content
	StatusAlreadyPatched            // left alone because it carries the patch
	StatusDryRun                    // change computed but not written
	StatusFailed                    // reading or writing failed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusPatched:
		return "patched"
	case StatusUnchanged:
		return "unchanged"
	case StatusAlreadyPatched:
		return "already patched"
	case StatusDryRun:
		return "dry run"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about a target file
type FileInfo struct {
	Path         string      // Path relative to the base directory
	Status       FileStatus  // Current status
	Mode         os.FileMode // File permissions
	Before       string      // Content hash before patching
	After        string      // Content hash after patching
	Replacements int         // Matches across all steps
	Error        error       // Any error associated with this file
}

// 💾 FileManager handles all file system operations on targets
type FileManager interface {
	Resolve(path string) (string, error)
	Expand(ctx context.Context, patterns []string) ([]string, error)
	ReadFile(ctx context.Context, path string) ([]byte, os.FileMode, error)
	WriteFileAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error
	BackupFile(ctx context.Context, path string) error
	RestoreFile(ctx context.Context, path string) error
}

// 📈 StatusReporter tracks per-file outcomes
type StatusReporter interface {
	TrackFile(ctx context.Context, info FileInfo)
	GetFileInfo(ctx context.Context, path string) (FileInfo, error)
	ListFiles(ctx context.Context) []FileInfo
}

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	baseDir string // Base directory for all operations

	mu    sync.RWMutex
	files map[string]FileInfo
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🏭 New creates a new status manager rooted at baseDir
func New(baseDir string) (*Manager, error) {
	if baseDir == "" {
		baseDir = "."
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Errorf("resolving base directory: %w", err)
	}
	return &Manager{
		baseDir: abs,
		files:   make(map[string]FileInfo),
	}, nil
}

// BaseDir returns the absolute base directory
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// 🔒 Resolve returns the absolute path for path, which may be relative to the
// base directory or absolute inside it. Symlinks are resolved without leaving
// the base directory.
func (m *Manager) Resolve(path string) (string, error) {
	rel := path
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(m.baseDir, path)
		if err != nil {
			return "", errors.Errorf("%s: %w", path, ErrPathEscapesRoot)
		}
		rel = r
	}
	rel = filepath.Clean(rel)
	if !filepath.IsLocal(rel) {
		return "", errors.Errorf("%s: %w", path, ErrPathEscapesRoot)
	}

	abs, err := securejoin.SecureJoin(m.baseDir, rel)
	if err != nil {
		return "", errors.Errorf("joining %s: %w", path, err)
	}
	return abs, nil
}

// 🔍 Expand turns target patterns into paths relative to the base directory.
// A pattern without glob characters is passed through as is, even if the file
// does not exist, so that reading it reports the real error. A glob that
// matches no file is an error.
func (m *Manager) Expand(ctx context.Context, patterns []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			add(pattern)
			continue
		}

		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, errors.Errorf("invalid pattern %q", pattern)
		}

		matches, err := doublestar.Glob(os.DirFS(m.baseDir), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("pattern %q matched no files under %s", pattern, m.baseDir)
		}

		sort.Strings(matches)
		logger.Debug().Str("pattern", pattern).Int("matches", len(matches)).Msg("expanded target pattern")
		for _, match := range matches {
			add(filepath.FromSlash(match))
		}
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ReadFile reads a target and returns its content and permissions
func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, os.FileMode, error) {
	absPath, err := m.Resolve(path)
	if err != nil {
		return nil, 0, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, 0, errors.Errorf("reading file: %w", err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, 0, errors.Errorf("reading file: %w", err)
	}
	return content, info.Mode().Perm(), nil
}

// WriteFileAtomic writes content to a fresh temp file in the target's
// directory and renames it into place
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	absPath, err := m.Resolve(path)
	if err != nil {
		return err
	}
	if mode == 0 {
		mode = 0o644
	}

	// CreateTemp opens with O_EXCL, so an existing symlink is never followed
	tmp, err := os.CreateTemp(filepath.Dir(absPath), "."+filepath.Base(absPath)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	// CreateTemp always uses 0600
	if err := os.Chmod(tempPath, mode); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting temp file mode: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(content)).Msg("wrote file")
	return nil
}

// BackupFile copies the target to <target>.bak
func (m *Manager) BackupFile(ctx context.Context, path string) error {
	absPath, err := m.Resolve(path)
	if err != nil {
		return err
	}
	backupPath := absPath + ".bak"

	// Only backup if file exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Errorf("checking file existence: %w", err)
	}

	if err := copyFile(absPath, backupPath); err != nil {
		return errors.Errorf("creating backup: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("backup", backupPath).Msg("backed up file")
	return nil
}

// RestoreFile copies <target>.bak back over the target and removes the backup
func (m *Manager) RestoreFile(ctx context.Context, path string) error {
	absPath, err := m.Resolve(path)
	if err != nil {
		return err
	}
	backupPath := absPath + ".bak"

	// Check if backup exists
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return errors.Errorf("backup file does not exist")
	} else if err != nil {
		return errors.Errorf("checking backup existence: %w", err)
	}

	// Restore from backup
	if err := copyFile(backupPath, absPath); err != nil {
		return errors.Errorf("restoring from backup: %w", err)
	}

	// Remove backup
	if err := os.Remove(backupPath); err != nil {
		return errors.Errorf("removing backup: %w", err)
	}

	return nil
}

// StatusReporter interface implementation

func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[info.Path] = info

	event := zerolog.Ctx(ctx).Debug()
	if info.Error != nil {
		event = event.Err(info.Error)
	}
	event.Str("path", info.Path).
		Str("status", info.Status.String()).
		Int("replacements", info.Replacements).
		Msg("tracked file")
}

func (m *Manager) GetFileInfo(ctx context.Context, path string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

// ListFiles returns tracked files sorted by path
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Helper functions

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("stat source file: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file: %w", err)
	}

	return nil
}
