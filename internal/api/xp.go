package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sparfuchs-app/sparfuchs/internal/app/xp"
	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

// ─── XP API ─────────────────────────────────────────────────────────────────
// REST endpoints for the UI to display progress and trigger awards.
//
// GET  /api/xp/progress — level, XP, streak, progress toward next level
// GET  /api/xp/levels   — the level catalog
// POST /api/xp/award    — award XP for a named event
// POST /api/lifecycle/foreground — host background→active edge

// handleXPProgress returns the current progress with resolved level data.
// GET /api/xp/progress
func (s *Server) handleXPProgress(w http.ResponseWriter, r *http.Request) {
	progress := s.engine.Progress()
	if progress == nil {
		writeError(w, http.StatusServiceUnavailable, "xp engine not initialized")
		return
	}

	cfg, err := s.engine.Config()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	level := xp.ResolveLevelByXP(cfg.Levels, progress.XPTotal)
	next := xp.NextLevel(cfg.Levels, progress.XPTotal)

	resp := map[string]interface{}{
		"xp_total":         progress.XPTotal,
		"current_streak":   progress.CurrentStreak,
		"longest_streak":   progress.LongestStreak,
		"last_streak_date": progress.LastStreakDate,
		"progress_pct":     xp.ProgressPct(cfg.Levels, progress.XPTotal),
		"level":            level,
	}
	if next != nil {
		resp["next_level"] = next
		resp["xp_to_next"] = next.XPRequired - progress.XPTotal
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleXPLevels returns the level catalog.
// GET /api/xp/levels
func (s *Server) handleXPLevels(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.engine.Config()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"levels": cfg.Levels})
}

// handleXPAward awards XP for a named event.
// POST /api/xp/award
func (s *Server) handleXPAward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventKey   string `json:"event_key"`
		SourceType string `json:"source_type,omitempty"`
		SourceID   string `json:"source_id,omitempty"`
		Meta       string `json:"meta,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.EventKey == "" {
		writeError(w, http.StatusBadRequest, "event_key is required")
		return
	}

	progress := s.engine.Award(xp.AwardInput{
		EventKey:   req.EventKey,
		SourceType: req.SourceType,
		SourceID:   req.SourceID,
		Meta:       req.Meta,
	})
	if progress == nil {
		// A nil award means no session, no configuration, or a bad event
		// key; only the last is the caller's fault.
		if s.engine.Progress() == nil {
			writeError(w, http.StatusServiceUnavailable, domain.ErrNoSession.Error())
			return
		}
		cfg, err := s.engine.Config()
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, domain.ErrConfigUnready.Error())
			return
		}
		if et := cfg.EventTypeByKey(req.EventKey); et == nil {
			writeError(w, http.StatusBadRequest, domain.ErrEventTypeUnknown.Error())
		} else {
			writeError(w, http.StatusBadRequest, domain.ErrEventTypeInactive.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"progress": progress})
}

// handleForeground runs the foreground orchestration: daily login,
// streak update, and the monthly budget reset.
// POST /api/lifecycle/foreground
func (s *Server) handleForeground(w http.ResponseWriter, r *http.Request) {
	progress := s.engine.OnForeground()

	resetApplied := false
	if s.reset != nil {
		applied, err := s.reset.ApplyMonthlyReset(time.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resetApplied = applied
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"progress":      progress,
		"reset_applied": resetApplied,
	})
}
