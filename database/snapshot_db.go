package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBConfig конфигурация пула соединений
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SnapshotDB база диагностических снимков групп
type SnapshotDB struct {
	conn *sql.DB
}

// SnapshotRecord заголовок снимка
type SnapshotRecord struct {
	ID        string
	Reason    string
	Groups    int
	Items     int
	CreatedAt time.Time
}

// SnapshotGroup группа внутри снимка
type SnapshotGroup struct {
	GroupID  int
	KeyWords []string
	Items    []SnapshotItem
}

// SnapshotItem элемент внутри снимка
type SnapshotItem struct {
	SystemID    string
	OriginalID  string
	OriginFile  string
	Description string
}

// NewSnapshotDB открывает (и при необходимости создает) базу снимков
func NewSnapshotDB(dbPath string) (*SnapshotDB, error) {
	config := DBConfig{}

	// Для in-memory SQLite требуется ровно одно соединение,
	// иначе каждое новое соединение получит пустую БД без таблиц.
	if isInMemory(dbPath) {
		config.MaxOpenConns = 1
		config.MaxIdleConns = 1
	}
	return NewSnapshotDBWithConfig(dbPath, config)
}

func isInMemory(dbPath string) bool {
	if dbPath == ":memory:" {
		return true
	}
	return strings.HasPrefix(dbPath, "file:") && strings.Contains(dbPath, "mode=memory")
}

// NewSnapshotDBWithConfig открывает базу снимков с конфигурацией пула
func NewSnapshotDBWithConfig(dbPath string, config DBConfig) (*SnapshotDB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		// SQLite плохо справляется с большим количеством одновременных соединений
		conn.SetMaxOpenConns(4)
	}
	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(2)
	}
	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping snapshot database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if !isInMemory(dbPath) {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			slog.Warn("Failed to enable WAL mode", "error", err)
		}
	}

	if err := applyMigrations(conn, snapshotMigrations); err != nil {
		conn.Close()
		return nil, err
	}

	return &SnapshotDB{conn: conn}, nil
}

// Close закрывает подключение
func (db *SnapshotDB) Close() error {
	return db.conn.Close()
}

// Ping проверяет подключение к базе данных
func (db *SnapshotDB) Ping() error {
	return db.conn.Ping()
}

// SaveSnapshot сохраняет снимок в одной транзакции
func (db *SnapshotDB) SaveSnapshot(ctx context.Context, record SnapshotRecord, groups []SnapshotGroup) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots(id, reason, groups_count, items_count, created_at) VALUES(?, ?, ?, ?, ?)`,
		record.ID, record.Reason, record.Groups, record.Items, record.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	groupStmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_groups(snapshot_id, group_id, key_words) VALUES(?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare group insert: %w", err)
	}
	defer groupStmt.Close()

	itemStmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_items(snapshot_id, group_id, position, system_id, original_id, origin_file, description) VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer itemStmt.Close()

	for _, g := range groups {
		if _, err := groupStmt.ExecContext(ctx, record.ID, g.GroupID, strings.Join(g.KeyWords, ",")); err != nil {
			return fmt.Errorf("failed to insert group %d: %w", g.GroupID, err)
		}
		for pos, item := range g.Items {
			if _, err := itemStmt.ExecContext(ctx, record.ID, g.GroupID, pos, item.SystemID, item.OriginalID, item.OriginFile, item.Description); err != nil {
				return fmt.Errorf("failed to insert item %s: %w", item.SystemID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// ListSnapshots возвращает заголовки снимков, новые первыми
func (db *SnapshotDB) ListSnapshots(ctx context.Context, limit int) ([]SnapshotRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, reason, groups_count, items_count, created_at FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var records []SnapshotRecord
	for rows.Next() {
		var r SnapshotRecord
		if err := rows.Scan(&r.ID, &r.Reason, &r.Groups, &r.Items, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// LoadSnapshotGroups читает группы снимка по возрастанию ID
func (db *SnapshotDB) LoadSnapshotGroups(ctx context.Context, snapshotID string) ([]SnapshotGroup, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT g.group_id, g.key_words, i.system_id, i.original_id, i.origin_file, i.description
		FROM snapshot_groups g
		LEFT JOIN snapshot_items i ON i.snapshot_id = g.snapshot_id AND i.group_id = g.group_id
		WHERE g.snapshot_id = ?
		ORDER BY g.group_id, i.position`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot groups: %w", err)
	}
	defer rows.Close()

	var groups []SnapshotGroup
	for rows.Next() {
		var groupID int
		var keyWords string
		var systemID, originalID, originFile, description sql.NullString
		if err := rows.Scan(&groupID, &keyWords, &systemID, &originalID, &originFile, &description); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot group: %w", err)
		}
		if len(groups) == 0 || groups[len(groups)-1].GroupID != groupID {
			g := SnapshotGroup{GroupID: groupID}
			if keyWords != "" {
				g.KeyWords = strings.Split(keyWords, ",")
			}
			groups = append(groups, g)
		}
		if systemID.Valid {
			last := &groups[len(groups)-1]
			last.Items = append(last.Items, SnapshotItem{
				SystemID:    systemID.String,
				OriginalID:  originalID.String,
				OriginFile:  originFile.String,
				Description: description.String,
			})
		}
	}
	return groups, rows.Err()
}
