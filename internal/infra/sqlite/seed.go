package sqlite

import (
	"fmt"

	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

// seedXPCatalog writes the default catalog into a fresh database so a
// new install has a working leveling system. The rows are treated as
// immutable for the rest of the session.
func (d *DB) seedXPCatalog() error {
	var count int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM xp_levels`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	cfg := domain.DefaultXPConfig()

	for _, l := range cfg.Levels {
		_, err := d.db.Exec(
			`INSERT INTO xp_levels (id, level_number, name, emoji, xp_required) VALUES (?, ?, ?, ?, ?)`,
			l.ID, l.LevelNumber, l.Name, l.Emoji, l.XPRequired,
		)
		if err != nil {
			return fmt.Errorf("seed level %s: %w", l.ID, err)
		}
	}

	for _, et := range cfg.EventTypes {
		_, err := d.db.Exec(
			`INSERT INTO xp_event_types (id, key, name, base_xp, active, max_per_user, cooldown_hours)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			et.ID, et.Key, et.Name, et.BaseXP, et.Active, nullInt(et.MaxPerUser), nullInt(et.CooldownHours),
		)
		if err != nil {
			return fmt.Errorf("seed event type %s: %w", et.Key, err)
		}
	}

	for _, r := range cfg.EventRules {
		_, err := d.db.Exec(
			`INSERT INTO xp_event_rules (id, event_type_id, multiplier, condition_kind, condition_day, active, starts_at, ends_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.EventTypeID, r.Multiplier, r.Conditions.Kind, r.Conditions.Day, r.Active, r.StartsAt, r.EndsAt,
		)
		if err != nil {
			return fmt.Errorf("seed event rule %s: %w", r.ID, err)
		}
	}
	return nil
}
