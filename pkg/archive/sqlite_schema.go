package archive

// SchemaVersion is the current archive schema version.
const SchemaVersion = 1

// Schema creates the archive tables. Timestamps are stored as Unix
// nanoseconds so both drivers read them back identically.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at INTEGER NOT NULL,
    finished_at INTEGER NOT NULL,

    rules_file TEXT NOT NULL,
    model_file TEXT NOT NULL,

    status TEXT NOT NULL,
    rules INTEGER NOT NULL,
    valid_rules INTEGER NOT NULL,
    instances INTEGER NOT NULL,
    valid_instances INTEGER NOT NULL,

    report TEXT NOT NULL,
    document TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_rules_file ON runs(rules_file);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

const (
	InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`
	GetSchemaVersion    = `SELECT MAX(version) FROM schema_version`

	insertRun = `
INSERT OR REPLACE INTO runs (
    id, started_at, finished_at, rules_file, model_file,
    status, rules, valid_rules, instances, valid_instances,
    report, document
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectRunColumns = `
SELECT id, started_at, finished_at, rules_file, model_file,
    status, rules, valid_rules, instances, valid_instances,
    report, document
FROM runs`

	countRuns        = `SELECT COUNT(*) FROM runs`
	deleteRunsBefore = `DELETE FROM runs WHERE started_at < ?`
	deleteOldestRuns = `
DELETE FROM runs WHERE id NOT IN (
    SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT ?
)`
)
