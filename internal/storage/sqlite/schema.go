// ABOUTME: SQLite database schema for the course corpus
// ABOUTME: Courses keep their load position; embeddings are keyed by model and code
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Course records in corpus load order
CREATE TABLE IF NOT EXISTS courses (
    code TEXT PRIMARY KEY,
    position INTEGER NOT NULL UNIQUE,
    name TEXT NOT NULL,
    credits TEXT,
    description TEXT,
    url TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- One vector per course per embedding model
CREATE TABLE IF NOT EXISTS embeddings (
    model TEXT NOT NULL,
    code TEXT NOT NULL REFERENCES courses(code) ON DELETE CASCADE,
    dimension INTEGER NOT NULL,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (model, code)
);

-- Stored evaluation runs
CREATE TABLE IF NOT EXISTS eval_runs (
    id TEXT PRIMARY KEY,
    model TEXT NOT NULL,
    k INTEGER NOT NULL,
    ndcg REAL NOT NULL,
    query_count INTEGER NOT NULL,
    created_at DATETIME NOT NULL
);

-- Per-query scores of a run, in eval set order
CREATE TABLE IF NOT EXISTS eval_scores (
    run_id TEXT NOT NULL REFERENCES eval_runs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    query TEXT NOT NULL,
    ndcg REAL NOT NULL,
    predictions TEXT NOT NULL,
    PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_embeddings_model ON embeddings(model);
CREATE INDEX IF NOT EXISTS idx_eval_runs_created ON eval_runs(created_at);
`

// SchemaVersion is the current schema version, stored in PRAGMA user_version
const SchemaVersion = 1
