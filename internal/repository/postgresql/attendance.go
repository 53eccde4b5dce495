package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/payrollbasis"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/database"
)

type attendanceSessionRepository struct {
	db *database.DB
}

// NewAttendanceSessionRepository reads clock-in/clock-out pairs from the
// attendances table. Absences and leave days carry no worked time.
func NewAttendanceSessionRepository(db *database.DB) payrollbasis.SessionRepository {
	return &attendanceSessionRepository{db: db}
}

// ListSessions implements payrollbasis.SessionRepository.
func (a *attendanceSessionRepository) ListSessions(ctx context.Context, companyID string, from, to time.Time, personIDs []string) ([]payrollbasis.RawSession, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT a.employee_id, a.clock_in, a.clock_out
		FROM attendances a
		WHERE a.company_id = $1
		  AND a.clock_in IS NOT NULL
		  AND a.clock_in < $3
		  AND (a.clock_out IS NULL OR a.clock_out > $2)
		  AND a.status NOT IN ('absent', 'on_leave')
	`
	args := []interface{}{companyID, from, to}
	if len(personIDs) > 0 {
		query += " AND a.employee_id = ANY($4::uuid[])"
		args = append(args, personIDs)
	}
	query += " ORDER BY a.employee_id, a.clock_in"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance sessions: %w", err)
	}
	defer rows.Close()

	var sessions []payrollbasis.RawSession
	for rows.Next() {
		s := payrollbasis.RawSession{Source: payrollbasis.SourceAttendance}
		if err := rows.Scan(&s.PersonID, &s.Start, &s.End); err != nil {
			return nil, fmt.Errorf("failed to scan attendance session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance sessions: %w", err)
	}

	return sessions, nil
}
