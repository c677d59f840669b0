package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

// ─── XP Configuration ───────────────────────────────────────────────────────

// XPConfig loads the level catalog, event types, and event rules.
func (d *DB) XPConfig() (domain.XPConfig, error) {
	var cfg domain.XPConfig

	rows, err := d.db.Query(
		`SELECT id, level_number, name, emoji, xp_required FROM xp_levels ORDER BY xp_required ASC`,
	)
	if err != nil {
		return cfg, fmt.Errorf("load levels: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l domain.Level
		if err := rows.Scan(&l.ID, &l.LevelNumber, &l.Name, &l.Emoji, &l.XPRequired); err != nil {
			return cfg, err
		}
		cfg.Levels = append(cfg.Levels, l)
	}
	if err := rows.Err(); err != nil {
		return cfg, err
	}

	etRows, err := d.db.Query(
		`SELECT id, key, name, base_xp, active, max_per_user, cooldown_hours FROM xp_event_types`,
	)
	if err != nil {
		return cfg, fmt.Errorf("load event types: %w", err)
	}
	defer etRows.Close()
	for etRows.Next() {
		var et domain.EventType
		var maxPer, cooldown sql.NullInt64
		if err := etRows.Scan(&et.ID, &et.Key, &et.Name, &et.BaseXP, &et.Active, &maxPer, &cooldown); err != nil {
			return cfg, err
		}
		if maxPer.Valid {
			v := int(maxPer.Int64)
			et.MaxPerUser = &v
		}
		if cooldown.Valid {
			v := int(cooldown.Int64)
			et.CooldownHours = &v
		}
		cfg.EventTypes = append(cfg.EventTypes, et)
	}
	if err := etRows.Err(); err != nil {
		return cfg, err
	}

	ruleRows, err := d.db.Query(
		`SELECT id, event_type_id, multiplier, condition_kind, condition_day, active, starts_at, ends_at
		 FROM xp_event_rules`,
	)
	if err != nil {
		return cfg, fmt.Errorf("load event rules: %w", err)
	}
	defer ruleRows.Close()
	for ruleRows.Next() {
		var r domain.EventRule
		if err := ruleRows.Scan(&r.ID, &r.EventTypeID, &r.Multiplier,
			&r.Conditions.Kind, &r.Conditions.Day, &r.Active, &r.StartsAt, &r.EndsAt); err != nil {
			return cfg, err
		}
		cfg.EventRules = append(cfg.EventRules, r)
	}
	return cfg, ruleRows.Err()
}

// ─── User Progress ──────────────────────────────────────────────────────────

// GetOrCreateProgress returns the user's progress row, creating it at the
// given initial level on first use.
func (d *DB) GetOrCreateProgress(userID, initialLevelID string) (*domain.UserProgress, error) {
	_, err := d.db.Exec(
		`INSERT OR IGNORE INTO xp_progress (user_id, current_level_id) VALUES (?, ?)`,
		userID, initialLevelID,
	)
	if err != nil {
		return nil, err
	}
	return d.getProgress(d.db, userID)
}

// UpdateProgress applies a partial update to the progress row.
func (d *DB) UpdateProgress(userID string, patch domain.ProgressPatch) (*domain.UserProgress, error) {
	if err := applyPatch(d.db, userID, patch); err != nil {
		return nil, err
	}
	return d.getProgress(d.db, userID)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func (d *DB) getProgress(q querier, userID string) (*domain.UserProgress, error) {
	row := q.QueryRow(
		`SELECT user_id, xp_total, current_level_id, current_streak, longest_streak,
		        last_login_at, last_streak_date
		 FROM xp_progress WHERE user_id = ?`, userID,
	)

	var p domain.UserProgress
	var lastLogin sql.NullInt64
	err := row.Scan(&p.UserID, &p.XPTotal, &p.CurrentLevelID,
		&p.CurrentStreak, &p.LongestStreak, &lastLogin, &p.LastStreakDate)
	if err == sql.ErrNoRows {
		return nil, domain.ErrProgressMissing
	}
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		p.LastLoginAt = time.Unix(lastLogin.Int64, 0)
	}
	return &p, nil
}

// applyPatch writes the non-nil patch fields in one statement.
func applyPatch(q querier, userID string, patch domain.ProgressPatch) error {
	set := ""
	var args []any
	add := func(col string, v any) {
		if set != "" {
			set += ", "
		}
		set += col + " = ?"
		args = append(args, v)
	}

	if patch.XPTotal != nil {
		add("xp_total", *patch.XPTotal)
	}
	if patch.CurrentLevelID != nil {
		add("current_level_id", *patch.CurrentLevelID)
	}
	if patch.CurrentStreak != nil {
		add("current_streak", *patch.CurrentStreak)
	}
	if patch.LongestStreak != nil {
		add("longest_streak", *patch.LongestStreak)
	}
	if patch.LastLoginAt != nil {
		add("last_login_at", patch.LastLoginAt.Unix())
	}
	if patch.LastStreakDate != nil {
		add("last_streak_date", *patch.LastStreakDate)
	}
	if set == "" {
		return nil
	}

	args = append(args, userID)
	_, err := q.Exec(`UPDATE xp_progress SET `+set+` WHERE user_id = ?`, args...)
	return err
}

// ─── XP Events ──────────────────────────────────────────────────────────────

// AppendXPEvent writes one award record. The log is append-only.
func (d *DB) AppendXPEvent(ev domain.XPEvent) error {
	return insertEvent(d.db, ev)
}

func insertEvent(q querier, ev domain.XPEvent) error {
	_, err := q.Exec(
		`INSERT INTO xp_events (id, user_id, event_type_id, event_key, base_xp, multiplier, delta,
		                        source_type, source_id, meta, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.UserID, ev.EventTypeID, ev.EventKey, ev.BaseXP, ev.Multiplier, ev.Delta,
		nullStr(ev.SourceType), nullStr(ev.SourceID), nullStr(ev.Meta), ev.CreatedAt.Unix(),
	)
	return err
}

// XPEventCount returns the lifetime number of awards of one event type
// for the user.
func (d *DB) XPEventCount(userID, eventTypeID string) (int, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM xp_events WHERE user_id = ? AND event_type_id = ?`,
		userID, eventTypeID,
	).Scan(&count)
	return count, err
}

// LatestXPEventAt returns the timestamp of the most recent award of one
// event type for the user. The second return is false when none exists.
func (d *DB) LatestXPEventAt(userID, eventTypeID string) (time.Time, bool, error) {
	var ts int64
	err := d.db.QueryRow(
		`SELECT created_at FROM xp_events
		 WHERE user_id = ? AND event_type_id = ?
		 ORDER BY created_at DESC LIMIT 1`,
		userID, eventTypeID,
	).Scan(&ts)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(ts, 0), true, nil
}

// AwardTx persists the event record and the progress patch as one
// transaction. Neither half becomes visible without the other.
func (d *DB) AwardTx(ev domain.XPEvent, userID string, patch domain.ProgressPatch) (*domain.UserProgress, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin award tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertEvent(tx, ev); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	if err := applyPatch(tx, userID, patch); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}
	progress, err := d.getProgress(tx, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit award tx: %w", err)
	}
	return progress, nil
}
