package event

import "log/slog"

// LogListener returns a Listener that writes every event to logger at debug level.
// A nil logger means slog.Default().
func LogListener(logger *slog.Logger) Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ev Event) {
		switch ev.Kind {
		case KindDamageTaken:
			logger.Debug("combat event",
				"kind", ev.Kind,
				"entity", ev.EntityName,
				"entityID", ev.EntityID,
				"amount", ev.Value,
				"critical", ev.Critical)
		case KindEffectSpawned:
			logger.Debug("combat event",
				"kind", ev.Kind,
				"effect", ev.Effect,
				"skill", ev.Skill,
				"x", ev.Position.X,
				"y", ev.Position.Y)
		case KindMonsterKilled:
			logger.Info("monster killed",
				"monster", ev.EntityName,
				"entityID", ev.EntityID,
				"exp", ev.Exp,
				"gold", ev.Gold)
		case KindDeath, KindLevelUp:
			logger.Info("combat event",
				"kind", ev.Kind,
				"entity", ev.EntityName,
				"entityID", ev.EntityID,
				"faction", ev.Faction,
				"value", ev.Value)
		default:
			logger.Debug("combat event",
				"kind", ev.Kind,
				"entity", ev.EntityName,
				"entityID", ev.EntityID,
				"value", ev.Value,
				"status", ev.Status,
				"active", ev.Active)
		}
	}
}
