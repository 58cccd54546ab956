/*
planner.go - Generation orchestration over the stores

PURPOSE:
  The Planner drives the week generator across the employee registry: it
  materializes each employee's prior rows and absence intervals, resolves
  the settings version in force, runs the generator, records the output
  through the schedule book, and appends a generation run to the audit
  log. Handlers, the background scheduler, and startup catch-up all go
  through it so generation behaves identically however it is triggered.

MATERIALIZATION:
  The generator's monthly Saturday quota needs more than the target week:
  the Planner loads every row from the first day of the month containing
  Monday through the last day of the month containing Sunday.

RUN RECORDING:
  Every pass appends exactly one GenerationRun, successful or not. A
  failed append is logged and swallowed; losing one audit row must not
  fail the generation that produced it.

SEE ALSO:
  - roster/generate.go: The per-employee engine underneath
  - roster/book.go: Freeze and supersede semantics on write
  - scheduler.go: Calls EnsureUpcoming on a ticker
*/
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
	"github.com/geraldbelrose-cyber/skello-perso/timesheet"
)

// Planner wires the engine to the stores.
type Planner struct {
	Staff    roster.StaffStore
	Policies roster.PolicyStore
	Entries  roster.EntryStore
	Runs     roster.RunLog
	Tracker  *timesheet.Tracker
	Logger   *logrus.Logger

	generator *roster.Generator
	book      *roster.ScheduleBook
}

func NewPlanner(staff roster.StaffStore, policies roster.PolicyStore, entries roster.EntryStore, runs roster.RunLog, tracker *timesheet.Tracker, logger *logrus.Logger) *Planner {
	if logger == nil {
		logger = logrus.New()
	}
	return &Planner{
		Staff:     staff,
		Policies:  policies,
		Entries:   entries,
		Runs:      runs,
		Tracker:   tracker,
		Logger:    logger,
		generator: roster.NewGenerator(),
		book:      roster.NewScheduleBook(entries),
	}
}

// GenerationResult bundles one pass over the workforce.
type GenerationResult struct {
	Week      roster.ISOWeek
	Schedules []roster.WeekSchedule
	Run       roster.GenerationRun
}

// History loads the settings versions. An empty store yields the default
// policy so a fresh install can generate before anyone saved settings.
func (p *Planner) History(ctx context.Context) (roster.PolicyHistory, error) {
	versions, err := p.Policies.PolicyVersions(ctx)
	if err != nil {
		return roster.PolicyHistory{}, fmt.Errorf("load policy versions: %w", err)
	}
	if len(versions) == 0 {
		versions = []roster.PolicySettings{roster.DefaultSettings()}
	}
	return roster.NewPolicyHistory(versions...)
}

// SettingsAt resolves the settings version in force on a date.
func (p *Planner) SettingsAt(ctx context.Context, d roster.Day) (roster.PolicySettings, error) {
	history, err := p.History(ctx)
	if err != nil {
		return roster.PolicySettings{}, err
	}
	return history.At(d)
}

// GenerateWeek generates the week for every active employee, or for just
// one when employeeID is non-empty. Exactly one run is recorded.
func (p *Planner) GenerateWeek(ctx context.Context, week roster.ISOWeek, employeeID roster.EmployeeID, trigger roster.RunTrigger) (GenerationResult, error) {
	members, err := p.membersFor(ctx, employeeID)
	if err != nil {
		return GenerationResult{}, err
	}
	settings, err := p.SettingsAt(ctx, week.Monday())
	if err != nil {
		return GenerationResult{}, err
	}

	run := roster.GenerationRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Trigger:   trigger,
		Week:      week,
	}
	result := GenerationResult{Week: week}

	var failed error
	for _, member := range members {
		ws, summary, genErr := p.generateFor(ctx, member.Profile, week, settings)
		if genErr != nil {
			failed = fmt.Errorf("generate %s for %s: %w", week, member.Employee.ID, genErr)
			run.Err = failed.Error()
			break
		}
		run.Employees++
		run.Inserted += summary.Inserted
		run.Superseded += summary.Superseded
		run.Frozen += summary.Frozen
		if ws.Conflict != nil {
			run.Conflicts++
		}
		run.Warnings += len(ws.Warnings)
		result.Schedules = append(result.Schedules, ws)
	}
	run.FinishedAt = time.Now().UTC()
	result.Run = run

	if appendErr := p.Runs.AppendRun(ctx, run); appendErr != nil {
		p.Logger.WithError(appendErr).Warn("append generation run")
	}
	// Regeneration rewrites planned hours; memoized reports are stale.
	p.Tracker.InvalidateReports()

	p.Logger.WithFields(logrus.Fields{
		"week":       week.String(),
		"trigger":    string(trigger),
		"employees":  run.Employees,
		"inserted":   run.Inserted,
		"superseded": run.Superseded,
		"frozen":     run.Frozen,
		"conflicts":  run.Conflicts,
		"warnings":   run.Warnings,
	}).Info("week generation completed")

	if failed != nil {
		return result, failed
	}
	return result, nil
}

// EnsureUpcoming generates the running week and the next one for the
// whole workforce. Regeneration is idempotent for untouched weeks, so
// calling this on every tick is safe.
func (p *Planner) EnsureUpcoming(ctx context.Context, trigger roster.RunTrigger) error {
	week := roster.WeekOf(roster.Today())
	for _, w := range []roster.ISOWeek{week, week.Next()} {
		if _, err := p.GenerateWeek(ctx, w, "", trigger); err != nil {
			return err
		}
	}
	return nil
}

// ApplyManualEdit writes a frozen row through the book under the settings
// in force on its date and reports any constraint conflict.
func (p *Planner) ApplyManualEdit(ctx context.Context, entry roster.ScheduleEntry) (roster.ScheduleEntry, *roster.ConstraintConflictError, error) {
	settings, err := p.SettingsAt(ctx, entry.Date)
	if err != nil {
		return roster.ScheduleEntry{}, nil, err
	}
	saved, conflict, err := p.book.ApplyManualEdit(ctx, entry, settings)
	if err != nil {
		return roster.ScheduleEntry{}, nil, err
	}
	p.Tracker.InvalidateReports()
	return saved, conflict, nil
}

// Outlook projects the Saturday-off quota for a month across the active
// workforce.
func (p *Planner) Outlook(ctx context.Context, year int, month time.Month) (roster.MonthOutlook, error) {
	members, err := p.Staff.ListStaff(ctx, false)
	if err != nil {
		return roster.MonthOutlook{}, fmt.Errorf("load staff: %w", err)
	}
	monthRange := roster.RangeOfMonth(year, month)

	entries, err := p.Entries.EntriesInRange(ctx, monthRange)
	if err != nil {
		return roster.MonthOutlook{}, fmt.Errorf("load entries: %w", err)
	}
	records, err := p.Tracker.AbsencesIn(ctx, monthRange)
	if err != nil {
		return roster.MonthOutlook{}, fmt.Errorf("load absences: %w", err)
	}
	absences := make(map[roster.EmployeeID][]roster.DateRange)
	for _, rec := range records {
		r, rangeErr := rec.Range()
		if rangeErr != nil {
			continue
		}
		absences[rec.EmployeeID] = append(absences[rec.EmployeeID], r)
	}

	settings, err := p.SettingsAt(ctx, monthRange.Start)
	if err != nil {
		return roster.MonthOutlook{}, err
	}

	profiles := make([]roster.EmployeeProfile, 0, len(members))
	for _, m := range members {
		profiles = append(profiles, m.Profile)
	}

	return roster.ProjectMonth(roster.OutlookInput{
		Year:     year,
		Month:    month,
		Profiles: profiles,
		Entries:  entries,
		Absences: absences,
		Settings: settings,
		AsOf:     roster.Today(),
	}), nil
}

func (p *Planner) membersFor(ctx context.Context, employeeID roster.EmployeeID) ([]roster.StaffMember, error) {
	if employeeID != "" {
		member, err := p.Staff.GetStaff(ctx, employeeID)
		if err != nil {
			return nil, fmt.Errorf("load employee %s: %w", employeeID, err)
		}
		return []roster.StaffMember{member}, nil
	}
	members, err := p.Staff.ListStaff(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}
	return members, nil
}

func (p *Planner) generateFor(ctx context.Context, profile roster.EmployeeProfile, week roster.ISOWeek, settings roster.PolicySettings) (roster.WeekSchedule, roster.RecordSummary, error) {
	prior, err := p.book.PriorFor(ctx, profile.EmployeeID, week)
	if err != nil {
		return roster.WeekSchedule{}, roster.RecordSummary{}, fmt.Errorf("load prior entries: %w", err)
	}
	absences, err := p.Tracker.AbsenceRangesFor(ctx, profile.EmployeeID, materializeRange(week))
	if err != nil {
		return roster.WeekSchedule{}, roster.RecordSummary{}, fmt.Errorf("load absences: %w", err)
	}

	ws, err := p.generator.GenerateWeek(roster.GenerateInput{
		Profile:  profile,
		Week:     week,
		Settings: settings,
		Prior:    prior,
		Absences: absences,
	})
	if err != nil {
		return roster.WeekSchedule{}, roster.RecordSummary{}, err
	}

	summary, err := p.book.RecordWeek(ctx, ws)
	if err != nil {
		return roster.WeekSchedule{}, roster.RecordSummary{}, fmt.Errorf("record week: %w", err)
	}
	return ws, summary, nil
}

// materializeRange spans the months the week touches, mirroring the
// book's PriorFor span, so the quota option sees every absence that can
// swallow a Saturday of the month.
func materializeRange(week roster.ISOWeek) roster.DateRange {
	monday, sunday := week.Monday(), week.Sunday()
	return roster.DateRange{
		Start: roster.StartOfMonth(monday.Year(), monday.Month()),
		End:   roster.EndOfMonth(sunday.Year(), sunday.Month()),
	}
}
