package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"catalogdedup/internal/domain/grouping"
)

// DumpEntry элемент группы в JSON-выгрузке
type DumpEntry struct {
	Description  string `json:"description"`
	SystemItemID string `json:"systemItemId"`
	OriginFile   string `json:"originFile"`
}

// JSONDumpWriter пишет итоговое состояние групп в JSON-файл
// вида {"<groupId>": [{"description", "systemItemId", "originFile"}]}
type JSONDumpWriter struct {
	path   string
	logger *slog.Logger
}

// NewJSONDumpWriter создает writer
func NewJSONDumpWriter(path string, logger *slog.Logger) *JSONDumpWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONDumpWriter{path: path, logger: logger}
}

// Path путь к файлу выгрузки
func (w *JSONDumpWriter) Path() string {
	return w.path
}

// WriteSnapshot реализует SnapshotWriter. Файл заменяется атомарно через временный файл.
func (w *JSONDumpWriter) WriteSnapshot(ctx context.Context, reason string, groups []grouping.GroupView) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dump := BuildDump(groups)
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dump: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".dump-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write dump: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close dump: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("failed to replace dump: %w", err)
	}

	w.logger.Info("Groups dumped", "path", w.path, "groups", len(dump), "reason", reason)
	return nil
}

// BuildDump строит содержимое выгрузки
func BuildDump(groups []grouping.GroupView) map[string][]DumpEntry {
	dump := make(map[string][]DumpEntry, len(groups))
	for _, g := range groups {
		entries := make([]DumpEntry, 0, len(g.Items))
		for _, item := range g.Items {
			entries = append(entries, DumpEntry{
				Description:  item.OriginalDescription,
				SystemItemID: item.SystemID,
				OriginFile:   item.OriginFile,
			})
		}
		dump[strconv.Itoa(g.ID)] = entries
	}
	return dump
}
