package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ScannedFile represents a markdown file found during vault scanning.
type ScannedFile struct {
	RelPath string // Relative path from vault root (e.g., "projects/meeting-notes.md")
	Folder  string // Folder path without the file name (e.g., "projects"), empty at the root
	AbsPath string
}

// ScanAll walks the vault and returns every markdown file that is not ignored, sorted by path.
func (m *Manager) ScanAll(ctx context.Context) ([]ScannedFile, error) {
	var scannedFiles []ScannedFile

	err := filepath.Walk(m.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			// Obsidian keeps workspace state here, never notes.
			if info.Name() == ".obsidian" {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != ".md" {
			return nil
		}

		relPath, err := filepath.Rel(m.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		if m.ignore.Match(relPath) {
			return nil
		}

		folder := filepath.ToSlash(filepath.Dir(relPath))
		if folder == "." {
			folder = ""
		}

		scannedFiles = append(scannedFiles, ScannedFile{
			RelPath: relPath,
			Folder:  folder,
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault %s: %w", m.root, err)
	}

	sort.Slice(scannedFiles, func(i, j int) bool {
		return scannedFiles[i].RelPath < scannedFiles[j].RelPath
	})
	return scannedFiles, nil
}
