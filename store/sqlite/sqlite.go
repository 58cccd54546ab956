/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements every persistence interface of the service using SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

INTERFACES IMPLEMENTED:
  roster.EntryStore:      Schedule rows, one per employee per date
  roster.RunLog:          Generation run audit trail
  roster.StaffStore:      Employee registry with rotation profiles
  roster.PolicyStore:     Append-only settings versions
  timesheet.AbsenceStore: Absence intervals
  timesheet.LatenessStore: Late arrivals, one per employee per day

ONE ROW PER DAY:
  schedule_entries carries PRIMARY KEY (employee_id, date); a second
  insert on an occupied day maps to roster.ErrEntryExists. The table has
  no DELETE path: manual rows are frozen forever and generated rows are
  corrected by UPDATE on the next generation pass.

KEY TABLES:
  employees:        Identity plus rotation profile (never deleted)
  policy_versions:  Settings versions, append-only
  schedule_entries: The roster itself
  generation_runs:  What ran when and what it changed
  absences:         Absence intervals (may overlap)
  lateness:         Late arrivals, UNIQUE(employee_id, date)

DATA ENCODING:
  Dates are TEXT in ISO form (2006-01-02), so BETWEEN works
  lexicographically. Clock times are INTEGER minutes since midnight,
  matching roster.ClockTime. Timestamps are RFC3339 TEXT.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./skello.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - roster/store.go: Interface definitions and contracts
  - roster/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
	"github.com/geraldbelrose-cyber/skello-perso/timesheet"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees (identity + rotation profile, deactivated but never deleted)
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		ordinal INTEGER NOT NULL DEFAULT 0,
		rest_day INTEGER,
		saturday_rank INTEGER NOT NULL DEFAULT 0,
		hired_on TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Settings versions (append-only; a NULL effective_from is the
	-- founding version that covers all earlier dates)
	CREATE TABLE IF NOT EXISTS policy_versions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		weekday_start INTEGER NOT NULL,
		weekday_end INTEGER NOT NULL,
		weekday_break_min INTEGER NOT NULL,
		saturday_start INTEGER NOT NULL,
		saturday_end INTEGER NOT NULL,
		saturday_break_min INTEGER NOT NULL,
		rest_days_per_week INTEGER NOT NULL,
		saturday_off_per_month INTEGER NOT NULL,
		absent_saturday_counts INTEGER NOT NULL DEFAULT 0,
		effective_from TEXT,
		created_at TEXT NOT NULL
	);

	-- Schedule rows, exactly one per employee per date
	CREATE TABLE IF NOT EXISTS schedule_entries (
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		start_time INTEGER NOT NULL DEFAULT 0,
		end_time INTEGER NOT NULL DEFAULT 0,
		break_minutes INTEGER NOT NULL DEFAULT 0,
		manual INTEGER NOT NULL DEFAULT 0,
		replacement INTEGER NOT NULL DEFAULT 0,
		replaces_employee TEXT,
		comment TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, date)
	);

	-- For whole-roster range scans
	CREATE INDEX IF NOT EXISTS idx_entries_date
		ON schedule_entries(date);

	-- Generation run audit trail
	CREATE TABLE IF NOT EXISTS generation_runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		run_trigger TEXT NOT NULL,
		week TEXT NOT NULL,
		employees INTEGER NOT NULL DEFAULT 0,
		inserted INTEGER NOT NULL DEFAULT 0,
		superseded INTEGER NOT NULL DEFAULT 0,
		frozen INTEGER NOT NULL DEFAULT 0,
		conflicts INTEGER NOT NULL DEFAULT 0,
		warnings INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at
		ON generation_runs(started_at DESC);

	-- Absence intervals (may overlap per employee)
	CREATE TABLE IF NOT EXISTS absences (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		kind TEXT NOT NULL,
		justified INTEGER NOT NULL DEFAULT 0,
		comment TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_absences_employee
		ON absences(employee_id, start_date);

	-- Late arrivals, at most one per employee per day
	CREATE TABLE IF NOT EXISTS lateness (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		scheduled_at INTEGER NOT NULL DEFAULT 0,
		arrived_at INTEGER NOT NULL DEFAULT 0,
		minutes_late INTEGER NOT NULL DEFAULT 0,
		justified INTEGER NOT NULL DEFAULT 0,
		comment TEXT,
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_lateness_employee
		ON lateness(employee_id, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTRY STORE (roster.EntryStore interface)
// =============================================================================

// InsertEntry persists a new schedule row onto a free day.
func (s *Store) InsertEntry(ctx context.Context, entry roster.ScheduleEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO schedule_entries
		(employee_id, date, status, start_time, end_time, break_minutes,
		 manual, replacement, replaces_employee, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.EmployeeID,
		entry.Date.String(),
		entry.Status,
		int(entry.Start),
		int(entry.End),
		entry.BreakMinutes,
		boolInt(entry.Manual),
		boolInt(entry.Replacement),
		nullString(string(entry.ReplacesEmployee)),
		nullString(entry.Comment),
		now,
		now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return roster.ErrEntryExists
		}
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// UpdateEntry replaces the row for the entry's employee and date.
func (s *Store) UpdateEntry(ctx context.Context, entry roster.ScheduleEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE schedule_entries
		SET status = ?, start_time = ?, end_time = ?, break_minutes = ?,
		    manual = ?, replacement = ?, replaces_employee = ?, comment = ?,
		    updated_at = ?
		WHERE employee_id = ? AND date = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		entry.Status,
		int(entry.Start),
		int(entry.End),
		entry.BreakMinutes,
		boolInt(entry.Manual),
		boolInt(entry.Replacement),
		nullString(string(entry.ReplacesEmployee)),
		nullString(entry.Comment),
		time.Now().UTC().Format(time.RFC3339),
		entry.EmployeeID,
		entry.Date.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return roster.ErrEntryNotFound
	}
	return nil
}

// GetEntry returns the row for employee+date, or (nil, nil) when absent.
func (s *Store) GetEntry(ctx context.Context, employeeID roster.EmployeeID, date roster.Day) (*roster.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := entrySelect + ` WHERE employee_id = ? AND date = ?`
	rows, err := s.db.QueryContext(ctx, query, employeeID, date.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	entry, err := scanEntry(rows)
	if err != nil {
		return nil, err
	}
	return &entry, rows.Err()
}

// EntriesForEmployee returns the employee's rows inside r, ordered by date.
func (s *Store) EntriesForEmployee(ctx context.Context, employeeID roster.EmployeeID, r roster.DateRange) ([]roster.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := entrySelect + `
		WHERE employee_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`
	return s.queryEntries(ctx, query, employeeID, r.Start.String(), r.End.String())
}

// EntriesInRange returns every row inside r, ordered by employee then date.
func (s *Store) EntriesInRange(ctx context.Context, r roster.DateRange) ([]roster.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := entrySelect + `
		WHERE date >= ? AND date <= ?
		ORDER BY employee_id ASC, date ASC
	`
	return s.queryEntries(ctx, query, r.Start.String(), r.End.String())
}

const entrySelect = `
	SELECT employee_id, date, status, start_time, end_time, break_minutes,
	       manual, replacement, replaces_employee, comment
	FROM schedule_entries`

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]roster.ScheduleEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []roster.ScheduleEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (roster.ScheduleEntry, error) {
	var (
		entry            roster.ScheduleEntry
		date             string
		start, end       int
		manual           int
		replacement      int
		replacesEmployee sql.NullString
		comment          sql.NullString
	)

	err := rows.Scan(
		&entry.EmployeeID, &date, &entry.Status, &start, &end,
		&entry.BreakMinutes, &manual, &replacement, &replacesEmployee, &comment,
	)
	if err != nil {
		return entry, fmt.Errorf("failed to scan entry: %w", err)
	}

	entry.Date, err = roster.ParseDay(date)
	if err != nil {
		return entry, fmt.Errorf("failed to parse entry date: %w", err)
	}
	entry.Start = roster.ClockTime(start)
	entry.End = roster.ClockTime(end)
	entry.Manual = manual != 0
	entry.Replacement = replacement != 0
	entry.ReplacesEmployee = roster.EmployeeID(replacesEmployee.String)
	entry.Comment = comment.String

	return entry, nil
}

// =============================================================================
// RUN LOG (roster.RunLog interface)
// =============================================================================

// AppendRun records one generation pass.
func (s *Store) AppendRun(ctx context.Context, run roster.GenerationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO generation_runs
		(id, started_at, finished_at, run_trigger, week, employees,
		 inserted, superseded, frozen, conflicts, warnings, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		string(run.Trigger),
		run.Week.String(),
		run.Employees,
		run.Inserted,
		run.Superseded,
		run.Frozen,
		run.Conflicts,
		run.Warnings,
		nullString(run.Err),
	)
	if err != nil {
		return fmt.Errorf("failed to append run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]roster.GenerationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, started_at, finished_at, run_trigger, week, employees,
		       inserted, superseded, frozen, conflicts, warnings, error
		FROM generation_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []roster.GenerationRun
	for rows.Next() {
		var (
			run        roster.GenerationRun
			startedAt  string
			finishedAt string
			trigger    string
			week       string
			errText    sql.NullString
		)
		err := rows.Scan(
			&run.ID, &startedAt, &finishedAt, &trigger, &week,
			&run.Employees, &run.Inserted, &run.Superseded, &run.Frozen,
			&run.Conflicts, &run.Warnings, &errText,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt)
		run.Trigger = roster.RunTrigger(trigger)
		run.Week, err = roster.ParseISOWeek(week)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run week: %w", err)
		}
		run.Err = errText.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// =============================================================================
// STAFF STORE (roster.StaffStore interface)
// =============================================================================

// UpsertStaff inserts or replaces a member by employee ID.
func (s *Store) UpsertStaff(ctx context.Context, m roster.StaffMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO employees
		(id, name, active, ordinal, rest_day, saturday_rank, hired_on, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			active = excluded.active,
			ordinal = excluded.ordinal,
			rest_day = excluded.rest_day,
			saturday_rank = excluded.saturday_rank,
			hired_on = excluded.hired_on,
			updated_at = excluded.updated_at
	`

	var restDay sql.NullInt64
	if m.Profile.PinnedRestDay != nil {
		restDay = sql.NullInt64{Int64: int64(*m.Profile.PinnedRestDay), Valid: true}
	}
	var hiredOn sql.NullString
	if !m.Profile.HiredOn.IsZero() {
		hiredOn = sql.NullString{String: m.Profile.HiredOn.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		m.Employee.ID,
		m.Employee.Name,
		boolInt(m.Employee.Active),
		m.Profile.Ordinal,
		restDay,
		m.Profile.SaturdayRank,
		hiredOn,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert staff: %w", err)
	}
	return nil
}

// GetStaff returns the member, or roster.ErrEmployeeNotFound.
func (s *Store) GetStaff(ctx context.Context, id roster.EmployeeID) (roster.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := staffSelect + ` WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)

	member, err := scanStaffRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.StaffMember{}, roster.ErrEmployeeNotFound
	}
	return member, err
}

// ListStaff returns members ordered by employee ID.
func (s *Store) ListStaff(ctx context.Context, includeInactive bool) ([]roster.StaffMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := staffSelect
	if !includeInactive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	var members []roster.StaffMember
	for rows.Next() {
		member, err := scanStaffRow(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// DeactivateStaff clears the Active flag, keeping the row.
func (s *Store) DeactivateStaff(ctx context.Context, id roster.EmployeeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE employees SET active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate staff: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read deactivate result: %w", err)
	}
	if affected == 0 {
		return roster.ErrEmployeeNotFound
	}
	return nil
}

const staffSelect = `
	SELECT id, name, active, ordinal, rest_day, saturday_rank, hired_on
	FROM employees`

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStaffRow(row scanner) (roster.StaffMember, error) {
	var (
		member  roster.StaffMember
		active  int
		restDay sql.NullInt64
		hiredOn sql.NullString
	)

	err := row.Scan(
		&member.Employee.ID, &member.Employee.Name, &active,
		&member.Profile.Ordinal, &restDay, &member.Profile.SaturdayRank, &hiredOn,
	)
	if err != nil {
		return member, err
	}

	member.Employee.Active = active != 0
	member.Profile.EmployeeID = member.Employee.ID
	if restDay.Valid {
		d := time.Weekday(restDay.Int64)
		member.Profile.PinnedRestDay = &d
	}
	if hiredOn.Valid && hiredOn.String != "" {
		member.Profile.HiredOn, err = roster.ParseDay(hiredOn.String)
		if err != nil {
			return member, fmt.Errorf("failed to parse hire date: %w", err)
		}
	}
	return member, nil
}

// =============================================================================
// POLICY STORE (roster.PolicyStore interface)
// =============================================================================

// AppendPolicyVersion persists a new settings version.
func (s *Store) AppendPolicyVersion(ctx context.Context, p roster.PolicySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var effectiveFrom sql.NullString
	if !p.EffectiveFrom.IsZero() {
		effectiveFrom = sql.NullString{String: p.EffectiveFrom.String(), Valid: true}
	}

	query := `
		INSERT INTO policy_versions
		(weekday_start, weekday_end, weekday_break_min,
		 saturday_start, saturday_end, saturday_break_min,
		 rest_days_per_week, saturday_off_per_month, absent_saturday_counts,
		 effective_from, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		int(p.WeekdayStart),
		int(p.WeekdayEnd),
		p.WeekdayBreakMin,
		int(p.SaturdayStart),
		int(p.SaturdayEnd),
		p.SaturdayBreakMin,
		p.RestDaysPerWeek,
		p.SaturdayOffPerMonth,
		boolInt(p.AbsentSaturdayCountsTowardQuota),
		effectiveFrom,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append policy version: %w", err)
	}
	return nil
}

// PolicyVersions returns all versions ordered by EffectiveFrom, the
// founding (undated) version first.
func (s *Store) PolicyVersions(ctx context.Context) ([]roster.PolicySettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT weekday_start, weekday_end, weekday_break_min,
		       saturday_start, saturday_end, saturday_break_min,
		       rest_days_per_week, saturday_off_per_month, absent_saturday_counts,
		       effective_from
		FROM policy_versions
		ORDER BY COALESCE(effective_from, '') ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query policy versions: %w", err)
	}
	defer rows.Close()

	var versions []roster.PolicySettings
	for rows.Next() {
		var (
			p                          roster.PolicySettings
			weekdayStart, weekdayEnd   int
			saturdayStart, saturdayEnd int
			absentCounts               int
			effectiveFrom              sql.NullString
		)
		err := rows.Scan(
			&weekdayStart, &weekdayEnd, &p.WeekdayBreakMin,
			&saturdayStart, &saturdayEnd, &p.SaturdayBreakMin,
			&p.RestDaysPerWeek, &p.SaturdayOffPerMonth, &absentCounts,
			&effectiveFrom,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan policy version: %w", err)
		}

		p.WeekdayStart = roster.ClockTime(weekdayStart)
		p.WeekdayEnd = roster.ClockTime(weekdayEnd)
		p.SaturdayStart = roster.ClockTime(saturdayStart)
		p.SaturdayEnd = roster.ClockTime(saturdayEnd)
		p.AbsentSaturdayCountsTowardQuota = absentCounts != 0
		if effectiveFrom.Valid && effectiveFrom.String != "" {
			p.EffectiveFrom, err = roster.ParseDay(effectiveFrom.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse effective_from: %w", err)
			}
		}
		versions = append(versions, p)
	}
	return versions, rows.Err()
}

// =============================================================================
// ABSENCE STORE (timesheet.AbsenceStore interface)
// =============================================================================

// InsertAbsence persists a new absence record.
func (s *Store) InsertAbsence(ctx context.Context, rec timesheet.AbsenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO absences
		(id, employee_id, start_date, end_date, kind, justified, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.StartDate.String(),
		rec.EndDate.String(),
		string(rec.Kind),
		boolInt(rec.Justified),
		nullString(rec.Comment),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert absence: %w", err)
	}
	return nil
}

// DeleteAbsence removes the record with the given ID.
func (s *Store) DeleteAbsence(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM absences WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete absence: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return timesheet.ErrAbsenceNotFound
	}
	return nil
}

// AbsencesForEmployee returns the employee's records intersecting r.
func (s *Store) AbsencesForEmployee(ctx context.Context, employeeID roster.EmployeeID, r roster.DateRange) ([]timesheet.AbsenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := absenceSelect + `
		WHERE employee_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date ASC, id ASC
	`
	return s.queryAbsences(ctx, query, employeeID, r.End.String(), r.Start.String())
}

// AbsencesInRange returns every record intersecting r.
func (s *Store) AbsencesInRange(ctx context.Context, r roster.DateRange) ([]timesheet.AbsenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := absenceSelect + `
		WHERE start_date <= ? AND end_date >= ?
		ORDER BY employee_id ASC, start_date ASC, id ASC
	`
	return s.queryAbsences(ctx, query, r.End.String(), r.Start.String())
}

const absenceSelect = `
	SELECT id, employee_id, start_date, end_date, kind, justified, comment
	FROM absences`

func (s *Store) queryAbsences(ctx context.Context, query string, args ...any) ([]timesheet.AbsenceRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	var records []timesheet.AbsenceRecord
	for rows.Next() {
		var (
			rec        timesheet.AbsenceRecord
			start, end string
			justified  int
			comment    sql.NullString
		)
		err := rows.Scan(&rec.ID, &rec.EmployeeID, &start, &end, &rec.Kind, &justified, &comment)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}

		rec.StartDate, err = roster.ParseDay(start)
		if err != nil {
			return nil, fmt.Errorf("failed to parse absence start: %w", err)
		}
		rec.EndDate, err = roster.ParseDay(end)
		if err != nil {
			return nil, fmt.Errorf("failed to parse absence end: %w", err)
		}
		rec.Justified = justified != 0
		rec.Comment = comment.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// LATENESS STORE (timesheet.LatenessStore interface)
// =============================================================================

// InsertLateness persists a new record onto a free (employee, date) slot.
func (s *Store) InsertLateness(ctx context.Context, rec timesheet.LatenessRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO lateness
		(id, employee_id, date, scheduled_at, arrived_at, minutes_late,
		 justified, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.Date.String(),
		int(rec.ScheduledAt),
		int(rec.ArrivedAt),
		rec.MinutesLate,
		boolInt(rec.Justified),
		nullString(rec.Comment),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return timesheet.ErrLatenessExists
		}
		return fmt.Errorf("failed to insert lateness: %w", err)
	}
	return nil
}

// DeleteLateness removes the record with the given ID.
func (s *Store) DeleteLateness(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM lateness WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lateness: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return timesheet.ErrLatenessNotFound
	}
	return nil
}

// LatenessForEmployee returns the employee's records inside r, by date.
func (s *Store) LatenessForEmployee(ctx context.Context, employeeID roster.EmployeeID, r roster.DateRange) ([]timesheet.LatenessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := latenessSelect + `
		WHERE employee_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`
	return s.queryLateness(ctx, query, employeeID, r.Start.String(), r.End.String())
}

// LatenessInRange returns every record inside r, by employee then date.
func (s *Store) LatenessInRange(ctx context.Context, r roster.DateRange) ([]timesheet.LatenessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := latenessSelect + `
		WHERE date >= ? AND date <= ?
		ORDER BY employee_id ASC, date ASC
	`
	return s.queryLateness(ctx, query, r.Start.String(), r.End.String())
}

const latenessSelect = `
	SELECT id, employee_id, date, scheduled_at, arrived_at, minutes_late,
	       justified, comment
	FROM lateness`

func (s *Store) queryLateness(ctx context.Context, query string, args ...any) ([]timesheet.LatenessRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lateness: %w", err)
	}
	defer rows.Close()

	var records []timesheet.LatenessRecord
	for rows.Next() {
		var (
			rec                timesheet.LatenessRecord
			date               string
			scheduled, arrived int
			justified          int
			comment            sql.NullString
		)
		err := rows.Scan(&rec.ID, &rec.EmployeeID, &date, &scheduled, &arrived,
			&rec.MinutesLate, &justified, &comment)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lateness: %w", err)
		}

		rec.Date, err = roster.ParseDay(date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse lateness date: %w", err)
		}
		rec.ScheduledAt = roster.ClockTime(scheduled)
		rec.ArrivedAt = roster.ClockTime(arrived)
		rec.Justified = justified != 0
		rec.Comment = comment.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// RESET (for demo scenarios and tests)
// =============================================================================

// Reset clears every table. Demo scenarios call this before seeding.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"schedule_entries", "generation_runs", "absences", "lateness", "policy_versions", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
