package automod

import (
	"time"

	"go.uber.org/zap"
)

// EscalationTimeout is how long escalation and automod timeouts last.
const EscalationTimeout = 10 * time.Minute

// Member identifies the target of a moderation action.
type Member struct {
	GuildID string
	UserID  string
	Tag     string
}

// Actor identifies who initiated an action: a human moderator or the bot
// itself for automod-triggered actions.
type Actor struct {
	ID    string
	Label string
}

// Moderator is the chat-platform collaborator for punitive actions. CanActOn
// is the capability predicate derived from role hierarchy; privileged actions
// are skipped, not raised, when it reports false.
type Moderator interface {
	CanActOn(guildID, userID string) bool
	Timeout(guildID, userID string, duration time.Duration, reason string) error
	Kick(guildID, userID, reason string) error
	Ban(guildID, userID, reason string) error
	DeleteMessage(channelID, messageID string) error
}

// Notifier delivers best-effort side effects: DMs to the target and posts to
// the guild's log channel. Implementations swallow delivery failures.
type Notifier interface {
	WarningDM(m Member, reason string, activeCount, maxWarnings int)
	ActionLog(logChannelID string, m Member, action ActionKind, reason string)
	ViolationLog(logChannelID string, msg Message, kind ViolationKind, action ActionKind)
}

// Recorder appends applied actions to the moderation audit trail.
type Recorder interface {
	RecordAction(guildID, userID, moderator, action, reason string) error
}

// EscalationController maps warning counts to punitive actions and executes
// them against the platform.
type EscalationController struct {
	mod      Moderator
	notifier Notifier
	recorder Recorder
	logger   *zap.Logger
}

func NewEscalationController(mod Moderator, notifier Notifier, recorder Recorder, logger *zap.Logger) *EscalationController {
	return &EscalationController{
		mod:      mod,
		notifier: notifier,
		recorder: recorder,
		logger:   logger,
	}
}

// ApplyAction executes an action against the member, mutating cfg's ledger
// for warns. A warn that pushes the active count to the threshold resolves
// the matching escalation step and applies it within the same call; the loop
// is bounded so a chain can never recurse indefinitely.
//
// Privileged actions on targets the bot cannot act on are skipped with a log
// entry; they never fail the caller. Returns the active warning count after
// any warn, or 0 for other actions.
func (e *EscalationController) ApplyAction(cfg *GuildConfig, m Member, reason string, action ActionKind, by Actor, now time.Time) int {
	activeCount := 0

	// One extra pass beyond the chain length: the initial warn plus at most
	// one escalation step resolved from it.
	maxDepth := len(cfg.WarnSystem.Escalation) + 1
	for depth := 0; depth < maxDepth+1; depth++ {
		switch action {
		case ActionWarn:
			AddWarning(cfg, m.UserID, WarningRecord{
				Reason:      reason,
				CreatedAt:   now.UnixMilli(),
				Moderator:   by.Label,
				ModeratorID: by.ID,
			})
			activeCount = ActiveWarningCount(cfg, m.UserID, now)
			e.record(m, by, ActionWarn, reason)
			e.notifier.WarningDM(m, reason, activeCount, cfg.WarnSystem.MaxWarnings)
			e.notifier.ActionLog(cfg.LogChannelID, m, ActionWarn, reason)

			if activeCount >= cfg.WarnSystem.MaxWarnings && len(cfg.WarnSystem.Escalation) > 0 {
				idx := activeCount - cfg.WarnSystem.MaxWarnings
				if idx > len(cfg.WarnSystem.Escalation)-1 {
					idx = len(cfg.WarnSystem.Escalation) - 1
				}
				action = cfg.WarnSystem.Escalation[idx]
				reason = reason + " (Escalation)"
				continue
			}
			return activeCount

		case ActionTimeout:
			e.applyPrivileged(cfg, m, reason, action, by, func() error {
				return e.mod.Timeout(m.GuildID, m.UserID, EscalationTimeout, reason)
			})
			return activeCount

		case ActionKick:
			e.applyPrivileged(cfg, m, reason, action, by, func() error {
				return e.mod.Kick(m.GuildID, m.UserID, reason)
			})
			return activeCount

		case ActionBan:
			e.applyPrivileged(cfg, m, reason, action, by, func() error {
				return e.mod.Ban(m.GuildID, m.UserID, reason)
			})
			return activeCount

		case ActionDelete:
			// Deletion happens at the message-handling layer before
			// escalation runs.
			return activeCount

		default:
			e.logger.Warn("unknown escalation action skipped",
				zap.String("guild_id", m.GuildID),
				zap.String("action", string(action)))
			return activeCount
		}
	}
	return activeCount
}

func (e *EscalationController) applyPrivileged(cfg *GuildConfig, m Member, reason string, action ActionKind, by Actor, apply func() error) {
	if !e.mod.CanActOn(m.GuildID, m.UserID) {
		e.logger.Warn("target not moderatable, action skipped",
			zap.String("guild_id", m.GuildID),
			zap.String("user_id", m.UserID),
			zap.String("action", string(action)))
		return
	}

	if err := apply(); err != nil {
		e.logger.Error("moderation action failed",
			zap.String("guild_id", m.GuildID),
			zap.String("user_id", m.UserID),
			zap.String("action", string(action)),
			zap.Error(err))
		return
	}

	e.record(m, by, action, reason)
	e.notifier.ActionLog(cfg.LogChannelID, m, action, reason)
}

func (e *EscalationController) record(m Member, by Actor, action ActionKind, reason string) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordAction(m.GuildID, m.UserID, by.Label, string(action), reason); err != nil {
		e.logger.Warn("failed to record moderation action",
			zap.String("guild_id", m.GuildID),
			zap.Error(err))
	}
}
