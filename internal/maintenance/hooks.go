package maintenance

import (
	"log/slog"

	"github.com/albapepper/scoracle-sim/internal/cache"
	"github.com/albapepper/scoracle-sim/internal/model"
	"github.com/albapepper/scoracle-sim/internal/notifications"
)

// InvalidateSchedules returns a hub handler that drops a league's cached
// schedules once its season ends, so the next season's fixtures are never
// served from an older entry.
func InvalidateSchedules(c *cache.Cache, logger *slog.Logger) notifications.Handler {
	return func(m notifications.Message) {
		if m.Kind != notifications.KindSeasonState || m.Season == nil {
			return
		}
		if m.Season.State != model.SeasonWaitingNextSeason {
			return
		}
		if n := c.InvalidatePrefix(cache.SchedulePrefix(m.LeagueID)); n > 0 {
			logger.Debug("Invalidated cached schedules", "league_id", m.LeagueID, "keys", n)
		}
	}
}
