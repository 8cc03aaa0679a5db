package database

import "database/sql"

// snapshotMigrations миграции схемы снимков в порядке применения
var snapshotMigrations = []migration{
	{"001_create_snapshots", createSnapshotTables},
}

func createSnapshotTables(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			reason TEXT NOT NULL,
			groups_count INTEGER NOT NULL,
			items_count INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		);

		CREATE TABLE IF NOT EXISTS snapshot_groups (
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			group_id INTEGER NOT NULL,
			key_words TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (snapshot_id, group_id)
		);

		CREATE TABLE IF NOT EXISTS snapshot_items (
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			group_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			system_id TEXT NOT NULL,
			original_id TEXT NOT NULL DEFAULT '',
			origin_file TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (snapshot_id, system_id)
		);

		CREATE INDEX IF NOT EXISTS idx_snapshot_items_group
			ON snapshot_items(snapshot_id, group_id);
	`)
	return err
}
