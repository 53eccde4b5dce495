package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/database"
)

type timeEntryRepository struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) payrollbasis.SessionRepository {
	return &timeEntryRepository{db: db}
}

// ListSessions implements payrollbasis.SessionRepository. Running timers
// come back with a nil end.
func (r *timeEntryRepository) ListSessions(ctx context.Context, companyID string, from, to time.Time, personIDs []string) ([]payrollbasis.RawSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT te.employee_id, te.started_at, te.ended_at, te.project_id
		FROM time_entries te
		WHERE te.company_id = $1
		  AND te.deleted_at IS NULL
		  AND te.started_at < $3
		  AND (te.ended_at IS NULL OR te.ended_at > $2)
	`
	args := []interface{}{companyID, from, to}
	if len(personIDs) > 0 {
		query += " AND te.employee_id = ANY($4::uuid[])"
		args = append(args, personIDs)
	}
	query += " ORDER BY te.employee_id, te.started_at"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var sessions []payrollbasis.RawSession
	for rows.Next() {
		s := payrollbasis.RawSession{Source: payrollbasis.SourceTimerEntry}
		if err := rows.Scan(&s.PersonID, &s.Start, &s.End, &s.SourceProjectID); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}

	return sessions, nil
}
