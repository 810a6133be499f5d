package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var sessionEventColumns = []string{
	"id", "sequence", "timestamp", "session_id", "total", "correct", "incorrect",
	"duration_secs", "percentage", "grade", "files", "weak_added", "weak_cleared", "retry",
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	files := data.Files
	if files == nil {
		files = []string{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}

	query, args := builder().
		Insert(SessionEventsTable.Name).
		Columns(sessionEventColumns[1:]...).
		Values(
			seqNum,
			time.Now().UTC(),
			data.SessionID,
			data.Total,
			data.Correct,
			data.Incorrect,
			data.DurationSecs,
			data.Percentage,
			data.Grade,
			string(filesJSON),
			data.WeakAdded,
			data.WeakCleared,
			data.Retry,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	sel := builder().
		Select(sessionEventColumns...).
		From(entsql.Table(SessionEventsTable.Name))
	query, args := applyQueryOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var events []SessionEvent
	for rows.Next() {
		var (
			e     SessionEvent
			files string
		)
		if err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID,
			&e.Total, &e.Correct, &e.Incorrect, &e.DurationSecs,
			&e.Percentage, &e.Grade, &files, &e.WeakAdded, &e.WeakCleared, &e.Retry,
		); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		if err := json.Unmarshal([]byte(files), &e.Files); err != nil {
			return nil, fmt.Errorf("decode session files: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) PruneSessionEvents(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}

	// Find the sequence of the newest session that falls outside keep.
	query, args := builder().
		Select("sequence").
		From(entsql.Table(SessionEventsTable.Name)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()

	var threshold int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if err == sql.ErrNoRows {
		return nil // fewer than keep sessions exist
	}
	if err != nil {
		return fmt.Errorf("query sessions for prune: %w", err)
	}

	query, args = builder().
		Delete(SessionEventsTable.Name).
		Where(entsql.LTE("sequence", threshold)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune sessions: %w", err)
	}
	return nil
}

func (r *eventRepo) ClearSessionEvents(ctx context.Context) error {
	query, args := builder().Delete(SessionEventsTable.Name).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	return nil
}
