package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UploadArchive сохраняет принятые файлы каталога на диск
type UploadArchive struct {
	dir string
}

// NewUploadArchive создает архив в каталоге dir
func NewUploadArchive(dir string) *UploadArchive {
	return &UploadArchive{dir: dir}
}

// Store записывает файл под его базовым именем. Файл с тем же именем перезаписывается.
func (a *UploadArchive) Store(name string, content []byte) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		return "", fmt.Errorf("invalid upload name %q", name)
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(a.dir, base)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return path, nil
}
