package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"vaultmind/internal/contextutil"
)

// Manager is the filesystem-backed note store for one vault root.
type Manager struct {
	root   string
	ignore *IgnoreMatcher
	parser *Parser
}

// NewManager creates a vault manager rooted at root. Ignore patterns are
// matched against vault-relative paths.
func NewManager(root string, ignore []string) (*Manager, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to access vault root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root is not a directory: %s", abs)
	}

	matcher, err := NewIgnoreMatcher(ignore)
	if err != nil {
		return nil, err
	}

	return &Manager{
		root:   abs,
		ignore: matcher,
		parser: NewParser(),
	}, nil
}

// Root returns the absolute vault root.
func (m *Manager) Root() string {
	return m.root
}

// AbsPath returns the absolute path for a vault-relative path.
func (m *Manager) AbsPath(relPath string) string {
	return filepath.Join(m.root, filepath.FromSlash(relPath))
}

// ListDocuments reads and parses every markdown file in the vault, ordered by path.
func (m *Manager) ListDocuments(ctx context.Context) ([]Document, error) {
	logger := contextutil.LoggerFromContext(ctx)

	files, err := m.ScanAll(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := m.load(f.RelPath, f.AbsPath)
		if err != nil {
			// A file removed between scan and read is simply absent from this snapshot.
			if errors.Is(err, ErrNotFound) {
				logger.DebugContext(ctx, "note vanished during scan", "rel_path", f.RelPath)
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}

	logger.DebugContext(ctx, "listed vault documents", "count", len(docs), "root", m.root)
	return docs, nil
}

// GetDocument reads a single note by vault-relative path.
func (m *Manager) GetDocument(ctx context.Context, relPath string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	clean, err := CleanRelPath(relPath)
	if err != nil {
		return Document{}, err
	}
	if m.ignore.Match(clean) {
		return Document{}, fmt.Errorf("%w: %s", ErrNotFound, clean)
	}
	return m.load(clean, m.AbsPath(clean))
}

func (m *Manager) load(relPath, absPath string) (Document, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, fmt.Errorf("%w: %s", ErrNotFound, relPath)
		}
		return Document{}, fmt.Errorf("failed to stat %s: %w", relPath, err)
	}
	if info.IsDir() {
		return Document{}, fmt.Errorf("%w: %s is a directory", ErrNotFound, relPath)
	}
	raw, err := os.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, fmt.Errorf("%w: %s", ErrNotFound, relPath)
		}
		return Document{}, fmt.Errorf("failed to read %s: %w", relPath, err)
	}
	return m.parser.Parse(relPath, raw, info.ModTime().UTC()), nil
}

// CleanRelPath normalizes a caller-supplied note path and rejects paths that
// escape the vault root or do not name a markdown file.
func CleanRelPath(relPath string) (string, error) {
	p := strings.TrimSpace(filepath.ToSlash(relPath))
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrNotFound)
	}
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: absolute path %s", ErrNotFound, relPath)
	}
	p = path.Clean(p)
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("%w: path escapes vault %s", ErrNotFound, relPath)
	}
	if path.Ext(p) != ".md" {
		p += ".md"
	}
	return p, nil
}
