/*
Package sqlite provides a SQLite-backed implementation of
repository.Repository.

PURPOSE:
  Persists departments (implicitly, as a column on people/tasks), people,
  tasks, and PTO records. This is the only concrete Repository in this
  repository; an HTTP facade or CLI wires it in at startup.

KEY TABLES:
  people:       one row per person, skills stored as a JSON array
  tasks:        one row per task, daily_requirements stored as JSON
  pto_records:  one row per (person, date), status pending/approved

WAL MODE:
  Opened with WAL for concurrent readers.

MIGRATION:
  Schema is auto-migrated on New(). ":memory:" is a valid dbPath for tests.

SEE ALSO:
  - repository/repository.go: the interface this implements
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/shift-scheduler/core"
	"github.com/warp/shift-scheduler/repository"
)

// Store implements repository.Repository over SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	cal core.Calendar
}

var _ repository.Repository = (*Store)(nil)

// New opens (and migrates) a SQLite-backed Store. Use ":memory:" for an
// in-memory database in tests.
func New(dbPath string, cal core.Calendar) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db, cal: cal}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		department TEXT NOT NULL,
		name TEXT NOT NULL,
		skills_json TEXT NOT NULL,
		preworked_in_last_6 INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_people_department ON people(department);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		department TEXT NOT NULL,
		name TEXT NOT NULL,
		start_ts INTEGER NOT NULL,
		end_ts INTEGER NOT NULL,
		requirements_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_department_span ON tasks(department, start_ts, end_ts);

	CREATE TABLE IF NOT EXISTS pto_records (
		person_id TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		PRIMARY KEY (person_id, date)
	);
	CREATE INDEX IF NOT EXISTS idx_pto_date_status ON pto_records(date, status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ListDepartments implements repository.Repository.
func (s *Store) ListDepartments(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT department FROM people UNION SELECT DISTINCT department FROM tasks ORDER BY 1`)
	if err != nil {
		return nil, &core.RepositoryFailureError{Operation: "ListDepartments", Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var dept string
		if err := rows.Scan(&dept); err != nil {
			return nil, &core.RepositoryFailureError{Operation: "ListDepartments", Err: err}
		}
		out = append(out, dept)
	}
	return out, rows.Err()
}

// ListPeopleIn implements repository.Repository.
func (s *Store) ListPeopleIn(ctx context.Context, department string) ([]core.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, skills_json, preworked_in_last_6 FROM people WHERE department = ? ORDER BY id`, department)
	if err != nil {
		return nil, &core.RepositoryFailureError{Operation: "ListPeopleIn", Err: err}
	}
	defer rows.Close()

	var out []core.Person
	for rows.Next() {
		var id, name, skillsJSON string
		var prework int
		if err := rows.Scan(&id, &name, &skillsJSON, &prework); err != nil {
			return nil, &core.RepositoryFailureError{Operation: "ListPeopleIn", Err: err}
		}
		var skills []string
		if err := json.Unmarshal([]byte(skillsJSON), &skills); err != nil {
			return nil, &core.RepositoryFailureError{Operation: "ListPeopleIn", Err: err}
		}
		out = append(out, core.Person{ID: id, Name: name, Skills: core.NewSkillSet(skills), PreworkedInLast6: prework})
	}
	return out, rows.Err()
}

// ListTasksOverlapping implements repository.Repository.
func (s *Store) ListTasksOverlapping(ctx context.Context, department string, start, end core.Day) ([]core.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	startTS, _ := s.cal.DayBounds(start)
	_, endTS := s.cal.DayBounds(end)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, start_ts, end_ts, requirements_json FROM tasks
		 WHERE department = ? AND start_ts < ? AND end_ts > ? ORDER BY id`,
		department, endTS, startTS)
	if err != nil {
		return nil, &core.RepositoryFailureError{Operation: "ListTasksOverlapping", Err: err}
	}
	defer rows.Close()

	var out []core.Task
	for rows.Next() {
		var id, name, reqJSON string
		var startTS, endTS int64
		if err := rows.Scan(&id, &name, &startTS, &endTS, &reqJSON); err != nil {
			return nil, &core.RepositoryFailureError{Operation: "ListTasksOverlapping", Err: err}
		}
		var reqs map[string]int
		if err := json.Unmarshal([]byte(reqJSON), &reqs); err != nil {
			return nil, &core.RepositoryFailureError{Operation: "ListTasksOverlapping", Err: err}
		}
		out = append(out, core.Task{ID: id, Name: name, StartTS: startTS, EndTS: endTS, DailyRequirements: reqs})
	}
	return out, rows.Err()
}

// ReadPTO implements repository.Repository, restricted to approved
// records.
func (s *Store) ReadPTO(ctx context.Context, start, end core.Day) (core.PTOMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT person_id, date FROM pto_records WHERE status = ? AND date BETWEEN ? AND ? ORDER BY date, person_id`,
		string(repository.PTOApproved), start.ISO(), end.ISO())
	if err != nil {
		return nil, &core.RepositoryFailureError{Operation: "ReadPTO", Err: err}
	}
	defer rows.Close()

	raw := map[core.Day][]string{}
	for rows.Next() {
		var personID, iso string
		if err := rows.Scan(&personID, &iso); err != nil {
			return nil, &core.RepositoryFailureError{Operation: "ReadPTO", Err: err}
		}
		day, err := core.ParseDay(s.cal.Location, iso)
		if err != nil {
			return nil, err
		}
		raw[day] = append(raw[day], personID)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.RepositoryFailureError{Operation: "ReadPTO", Err: err}
	}
	return core.NewPTOMap(raw), nil
}

// WritePTO implements repository.Repository: an idempotent upsert keyed
// by (person, date).
func (s *Store) WritePTO(ctx context.Context, personID string, days []core.Day, status repository.PTOStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &core.RepositoryFailureError{Operation: "WritePTO", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pto_records (person_id, date, status) VALUES (?, ?, ?)
		 ON CONFLICT(person_id, date) DO UPDATE SET status = excluded.status`)
	if err != nil {
		return &core.RepositoryFailureError{Operation: "WritePTO", Err: err}
	}
	defer stmt.Close()

	for _, d := range days {
		if _, err := stmt.ExecContext(ctx, personID, d.ISO(), string(status)); err != nil {
			return &core.RepositoryFailureError{Operation: "WritePTO", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &core.RepositoryFailureError{Operation: "WritePTO", Err: err}
	}
	return nil
}

// DeletePTO implements repository.Repository: idempotent removal.
func (s *Store) DeletePTO(ctx context.Context, personID string, days []core.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &core.RepositoryFailureError{Operation: "DeletePTO", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM pto_records WHERE person_id = ? AND date = ?`)
	if err != nil {
		return &core.RepositoryFailureError{Operation: "DeletePTO", Err: err}
	}
	defer stmt.Close()

	for _, d := range days {
		if _, err := stmt.ExecContext(ctx, personID, d.ISO()); err != nil {
			return &core.RepositoryFailureError{Operation: "DeletePTO", Err: err}
		}
	}
	return tx.Commit()
}

// UpsertPerson and UpsertTask are write helpers used by seeding/admin
// tooling; they are not part of repository.Repository (which the core
// consumes read-mostly) but are exercised by cmd/server's -seed flag and
// by tests; the admin HTTP surface only reads.

// UpsertPerson inserts or replaces a person row.
func (s *Store) UpsertPerson(ctx context.Context, department string, p core.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	skillsJSON, err := json.Marshal(p.SortedSkills())
	if err != nil {
		return &core.RepositoryFailureError{Operation: "UpsertPerson", Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO people (id, department, name, skills_json, preworked_in_last_6) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET department=excluded.department, name=excluded.name,
		   skills_json=excluded.skills_json, preworked_in_last_6=excluded.preworked_in_last_6`,
		p.ID, department, p.Name, string(skillsJSON), p.PreworkedInLast6)
	if err != nil {
		return &core.RepositoryFailureError{Operation: "UpsertPerson", Err: err}
	}
	return nil
}

// UpsertTask inserts or replaces a task row.
func (s *Store) UpsertTask(ctx context.Context, department string, t core.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reqJSON, err := json.Marshal(t.DailyRequirements)
	if err != nil {
		return &core.RepositoryFailureError{Operation: "UpsertTask", Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, department, name, start_ts, end_ts, requirements_json) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET department=excluded.department, name=excluded.name,
		   start_ts=excluded.start_ts, end_ts=excluded.end_ts, requirements_json=excluded.requirements_json`,
		t.ID, department, t.Name, t.StartTS, t.EndTS, string(reqJSON))
	if err != nil {
		return &core.RepositoryFailureError{Operation: "UpsertTask", Err: err}
	}
	return nil
}
