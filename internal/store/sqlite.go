package store

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/cxdash/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLite persists records in a single table ordered by an autoincrement
// sequence. NaN numeric values are stored as NULL.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at dbPath. An empty path opens a
// private in-memory database that lives as long as the store.
func OpenSQLite(dbPath string) (*SQLite, error) {
	dsn := ":memory:"
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
		dsn = dbPath + "?_pragma=journal_mode(wal)&_pragma=synchronous(normal)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}
	// One connection: an in-memory database is per connection, and a file
	// database only ever has one writer here.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Append inserts records in one transaction.
func (s *SQLite) Append(records []model.Project) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO projects
		(value_stream, sub_stream, project_name, value_stream_lead, engineering_manager,
		 task_name, resource_count, weekly_hours, monthly_hours, quarterly_hours,
		 category, target, achieved, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range records {
		_, err = stmt.Exec(
			p.ValueStream, p.SubStream, p.ProjectName, p.ValueStreamLead, p.EngineeringManager,
			p.TaskName, nullable(p.ResourceCount), nullable(p.WeeklyHours), nullable(p.MonthlyHours),
			nullable(p.QuarterlyHours), string(p.Category), nullable(p.Target), nullable(p.Achieved), now,
		)
		if err != nil {
			return fmt.Errorf("inserting %q: %w", p.ProjectName, err)
		}
	}
	return tx.Commit()
}

// All reads every record in insertion order.
func (s *SQLite) All() ([]model.Project, error) {
	rows, err := s.db.Query(`SELECT
		value_stream, sub_stream, project_name, value_stream_lead, engineering_manager,
		task_name, resource_count, weekly_hours, monthly_hours, quarterly_hours,
		category, target, achieved
		FROM projects ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []model.Project{}
	for rows.Next() {
		var (
			p                         model.Project
			category                  string
			res, week, month, quarter sql.NullFloat64
			target, achieved          sql.NullFloat64
		)
		if err := rows.Scan(
			&p.ValueStream, &p.SubStream, &p.ProjectName, &p.ValueStreamLead, &p.EngineeringManager,
			&p.TaskName, &res, &week, &month, &quarter,
			&category, &target, &achieved,
		); err != nil {
			return nil, err
		}
		p.Category = model.Category(category)
		p.ResourceCount = fromNullable(res)
		p.WeeklyHours = fromNullable(week)
		p.MonthlyHours = fromNullable(month)
		p.QuarterlyHours = fromNullable(quarter)
		p.Target = fromNullable(target)
		p.Achieved = fromNullable(achieved)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLite) Len() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&n)
	return n, err
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
