package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
    seq                  INTEGER PRIMARY KEY AUTOINCREMENT,
    value_stream         TEXT NOT NULL,
    sub_stream           TEXT NOT NULL,
    project_name         TEXT NOT NULL,
    value_stream_lead    TEXT NOT NULL,
    engineering_manager  TEXT NOT NULL,
    task_name            TEXT NOT NULL,
    resource_count       REAL,
    weekly_hours         REAL,
    monthly_hours        REAL,
    quarterly_hours      REAL,
    category             TEXT NOT NULL,
    target               REAL,
    achieved             REAL,
    imported_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_projects_value_stream ON projects(value_stream, sub_stream);
`
