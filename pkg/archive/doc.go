// Package archive stores validation runs so earlier results can be listed,
// inspected and pruned.
//
// Two backends are provided. MemoryStorage keeps runs in a map and is meant
// for tests and one-shot invocations. SQLiteStorage persists runs in a
// SQLite database through either the cgo driver (github.com/mattn/go-sqlite3,
// driver name "sqlite3") or the pure Go driver (modernc.org/sqlite, driver
// name "sqlite").
//
// A Pruner enforces the retention settings and a Scheduler runs it on a cron
// schedule while ifccheck is watching rule files.
package archive
