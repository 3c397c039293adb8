package handlers

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/internal/security"
	"github.com/leaguekit/leaguebot/internal/services"
	apperrors "github.com/leaguekit/leaguebot/pkg/errors"
	"github.com/leaguekit/leaguebot/pkg/logger"
	"github.com/leaguekit/leaguebot/pkg/utils"
)

// Callback payloads for the match inline buttons.
const (
	CallbackDispute    = "match_dispute"
	CallbackResolve    = "match_resolve"
	CallbackEndConfirm = "match_end_confirm"
	CallbackEndAbort   = "match_end_abort"
)

// AckPhrase is what a team representative types to confirm a result.
const AckPhrase = "i acknowledge"

func (h *HandlerManager) HandleMatchStart(message *tgbotapi.Message, actor services.Actor, args string, bot BotInterface) {
	chatID := message.Chat.ID

	if err := h.Policy.Authorize(chatID, actor, nil); err != nil {
		bot.SendMessage(chatID, "🚫 Only marshals and admins can start a match.", nil)
		return
	}

	bestOf := 3
	if args != "" {
		parsed, err := strconv.Atoi(args)
		if err != nil || parsed < 1 || parsed > h.Config.MaxBestOf {
			bot.SendMessage(chatID, fmt.Sprintf("⚠️ Best-of must be a number between 1 and %d.", h.Config.MaxBestOf), nil)
			return
		}
		bestOf = parsed
	}

	session, err := h.Registry.Start(chatID, chatID, actor.ID, bestOf)
	if err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}

	logger.Info("Match started",
		"channel_id", chatID, "marshal_id", actor.ID, "best_of", bestOf)
	bot.SendMessage(chatID, fmt.Sprintf(
		"🏆 <b>Match started</b> — best of %d.\nMarshal: %s\nPost results with /game_result, teams confirm by replying \"%s\".",
		session.BestOf(), actor.DisplayName, AckPhrase), nil)
}

func (h *HandlerManager) HandleGameResult(message *tgbotapi.Message, actor services.Actor, args string, bot BotInterface) {
	chatID := message.Chat.ID

	session := h.Registry.Get(chatID)
	if session == nil {
		bot.SendMessage(chatID, "⚠️ No active match in this channel. Start one with /match_start.", nil)
		return
	}
	if err := h.Policy.Authorize(chatID, actor, session); err != nil {
		bot.SendMessage(chatID, "🚫 Only the marshal can post results.", nil)
		return
	}

	result := security.SanitizeHTML(security.SanitizeString(args))
	if result == "" {
		bot.SendMessage(chatID, "Usage: /game_result <result text>", nil)
		return
	}

	game, err := session.AddGame(result)
	if err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}

	text := fmt.Sprintf(
		"🎮 <b>Game %d:</b> %s\n\nBoth teams: reply \"%s\" to confirm this result.",
		game.Number, game.Result, AckPhrase)
	msgID := bot.SendMessage(chatID, text, bot.GetDisputeKeyboard())
	if msgID != 0 {
		if err := session.SetLastMessageID(msgID); err != nil {
			logger.Error("Failed to persist result message id",
				"channel_id", chatID, "message_id", msgID, "error", err)
		}
	}
}

// HandleAckPhrase runs when a message containing the acknowledgement
// phrase arrives while a result is pending.
func (h *HandlerManager) HandleAckPhrase(message *tgbotapi.Message, actor services.Actor, bot BotInterface) {
	chatID := message.Chat.ID

	session := h.Registry.Get(chatID)
	if session == nil || session.Status() != models.MatchStatusCheckingAck {
		return
	}

	team, err := h.TeamRepo.MemberTeam(chatID, actor.ID)
	if err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}
	if team == nil {
		bot.SendMessage(chatID, fmt.Sprintf("⚠️ %s, you are not verified as a team member, so your acknowledgement does not count.", actor.DisplayName), nil)
		return
	}

	if session.IsDisputed() {
		bot.SendMessage(chatID, "⛔ A dispute is open. Acknowledgements resume once the marshal resolves it.", nil)
		return
	}

	current := session.CurrentGame()
	if current == nil {
		return
	}
	if prev := current.AckFor(team.Abbrev); prev != nil {
		bot.SendMessage(chatID, fmt.Sprintf("ℹ️ %s already acknowledged game %d (by %s).", team.Abbrev, current.Number, prev.User), nil)
		return
	}

	done, err := session.AckGame(team.Abbrev, actor.DisplayName)
	if err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}

	if done {
		bot.SendMessage(chatID, fmt.Sprintf("✅ Game %d confirmed by both teams. The marshal may post the next result.", current.Number), nil)
		h.clearResultControls(session, bot)
		return
	}
	bot.SendMessage(chatID, fmt.Sprintf("👍 %s acknowledged for %s. Waiting for the other team.", actor.DisplayName, team.Abbrev), nil)
}

func (h *HandlerManager) HandleForceAck(message *tgbotapi.Message, actor services.Actor, args string, bot BotInterface) {
	chatID := message.Chat.ID

	session := h.Registry.Get(chatID)
	if session == nil {
		bot.SendMessage(chatID, "⚠️ No active match in this channel.", nil)
		return
	}
	if err := h.Policy.Authorize(chatID, actor, session); err != nil {
		bot.SendMessage(chatID, "🚫 Only the marshal can force an acknowledgement.", nil)
		return
	}

	abbrev := strings.TrimSpace(args)
	if abbrev == "" {
		bot.SendMessage(chatID, "Usage: /match_force_ack <team abbreviation>", nil)
		return
	}
	team, err := h.TeamRepo.TeamByAbbrev(chatID, abbrev)
	if err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}

	done, err := session.ForceAck(team.Abbrev, actor.DisplayName)
	if err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}

	logger.Info("Forced acknowledgement",
		"channel_id", chatID, "team", team.Abbrev, "marshal_id", actor.ID)
	if done {
		bot.SendMessage(chatID, fmt.Sprintf("✅ Acknowledgement forced for %s. The game is confirmed.", team.Abbrev), nil)
		h.clearResultControls(session, bot)
		return
	}
	bot.SendMessage(chatID, fmt.Sprintf("☑️ Acknowledgement forced for %s. Waiting for the other team.", team.Abbrev), nil)
}

func (h *HandlerManager) HandleUndoGame(message *tgbotapi.Message, actor services.Actor, bot BotInterface) {
	chatID := message.Chat.ID

	session := h.Registry.Get(chatID)
	if session == nil {
		bot.SendMessage(chatID, "⚠️ No active match in this channel.", nil)
		return
	}
	if err := h.Policy.Authorize(chatID, actor, session); err != nil {
		bot.SendMessage(chatID, "🚫 Only the marshal can undo a game.", nil)
		return
	}

	number := session.GameCount()
	undone, err := session.UndoGame()
	if err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}
	if !undone {
		bot.SendMessage(chatID, "ℹ️ There are no games to undo.", nil)
		return
	}
	bot.SendMessage(chatID, fmt.Sprintf("↩️ Game %d removed. The marshal may repost the result.", number), nil)
}

func (h *HandlerManager) HandleMatchStatus(message *tgbotapi.Message, bot BotInterface) {
	chatID := message.Chat.ID

	session := h.Registry.Get(chatID)
	if session == nil {
		bot.SendMessage(chatID, "⚠️ No active match in this channel.", nil)
		return
	}
	bot.SendMessage(chatID, renderSummary(session.Summary()), nil)
}

func (h *HandlerManager) HandleMatchEnd(message *tgbotapi.Message, actor services.Actor, bot BotInterface) {
	chatID := message.Chat.ID

	session := h.Registry.Get(chatID)
	if session == nil {
		bot.SendMessage(chatID, "⚠️ No active match in this channel.", nil)
		return
	}
	if err := h.Policy.Authorize(chatID, actor, session); err != nil {
		bot.SendMessage(chatID, "🚫 Only the marshal can end the match.", nil)
		return
	}

	if session.GameCount() < session.MinGamesRequired() {
		bot.SendMessage(chatID, fmt.Sprintf(
			"⚠️ A best-of-%d match needs at least %d game(s); only %d have been played.",
			session.BestOf(), session.MinGamesRequired(), session.GameCount()), nil)
		return
	}

	if unacked := session.UnackedGameNumbers(); len(unacked) > 0 {
		bot.SendMessage(chatID, fmt.Sprintf(
			"⚠️ Game(s) %s are not acknowledged by both teams. End the match anyway?",
			joinInts(unacked)), bot.GetEndConfirmKeyboard())
		return
	}

	h.finishMatch(chatID, bot)
}

func (h *HandlerManager) HandleMatchCancel(message *tgbotapi.Message, actor services.Actor, bot BotInterface) {
	chatID := message.Chat.ID

	session := h.Registry.Get(chatID)
	if session == nil {
		bot.SendMessage(chatID, "⚠️ No active match in this channel.", nil)
		return
	}
	if err := h.Policy.Authorize(chatID, actor, session); err != nil {
		bot.SendMessage(chatID, "🚫 Only the marshal can cancel the match.", nil)
		return
	}

	games := session.GameCount()
	if _, err := h.Registry.Cancel(chatID); err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}
	logger.Info("Match cancelled", "channel_id", chatID, "games", games)
	bot.SendMessage(chatID, fmt.Sprintf("🗑 Match cancelled; %d game(s) discarded.", games), nil)
}

func (h *HandlerManager) HandleSetMarshalRole(message *tgbotapi.Message, actor services.Actor, args string, bot BotInterface) {
	chatID := message.Chat.ID

	if !actor.IsAdmin {
		bot.SendMessage(chatID, "🚫 Only admins can set the marshal role.", nil)
		return
	}

	roleID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || roleID <= 0 {
		bot.SendMessage(chatID, "Usage: /set_marshal_role <role id>", nil)
		return
	}

	if err := h.ConfigRepo.Set(chatID, models.ConfigKeyMarshalRole, strconv.FormatInt(roleID, 10)); err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}
	bot.SendMessage(chatID, fmt.Sprintf("✅ Marshal role set to %d.", roleID), nil)
}

// HandleMatchCallback routes the match inline buttons.
func (h *HandlerManager) HandleMatchCallback(query *tgbotapi.CallbackQuery, actor services.Actor, bot BotInterface) {
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	session := h.Registry.Get(chatID)
	if session == nil {
		bot.AnswerCallbackQuery(query.ID, "No active match in this channel.", true)
		return
	}

	switch query.Data {
	case CallbackDispute:
		if err := session.FileDispute(); err != nil {
			bot.AnswerCallbackQuery(query.ID, h.errorMessage(err), true)
			return
		}
		bot.AnswerCallbackQuery(query.ID, "Dispute filed.", false)
		bot.EditMessageReplyMarkup(chatID, query.Message.MessageID, bot.GetResolveKeyboard())
		bot.SendMessage(chatID, fmt.Sprintf(
			"⚠️ %s filed a dispute. The acknowledgement timer is paused until the marshal resolves it.",
			actor.DisplayName), nil)

	case CallbackResolve:
		if err := h.Policy.Authorize(chatID, actor, session); err != nil {
			bot.AnswerCallbackQuery(query.ID, "Only the marshal can resolve a dispute.", true)
			return
		}
		if err := session.ResolveDispute(); err != nil {
			bot.AnswerCallbackQuery(query.ID, h.errorMessage(err), true)
			return
		}
		bot.AnswerCallbackQuery(query.ID, "Dispute resolved.", false)
		bot.EditMessageReplyMarkup(chatID, query.Message.MessageID, bot.GetDisputeKeyboard())
		bot.SendMessage(chatID, "🤝 Dispute resolved. The acknowledgement timer is running again.", nil)

	case CallbackEndConfirm:
		if err := h.Policy.Authorize(chatID, actor, session); err != nil {
			bot.AnswerCallbackQuery(query.ID, "Only the marshal can end the match.", true)
			return
		}
		bot.AnswerCallbackQuery(query.ID, "", false)
		bot.EditMessageReplyMarkup(chatID, query.Message.MessageID, nil)
		h.finishMatch(chatID, bot)

	case CallbackEndAbort:
		if err := h.Policy.Authorize(chatID, actor, session); err != nil {
			bot.AnswerCallbackQuery(query.ID, "Only the marshal can do that.", true)
			return
		}
		bot.AnswerCallbackQuery(query.ID, "Kept the match running.", false)
		bot.EditMessageReplyMarkup(chatID, query.Message.MessageID, nil)
	}
}

// ReattachControls re-binds the inline buttons of restored sessions to
// their last result message after a restart.
func (h *HandlerManager) ReattachControls(sessions []*services.MatchSession, bot BotInterface) {
	for _, session := range sessions {
		if session.Status() != models.MatchStatusCheckingAck || session.LastMessageID() == 0 {
			continue
		}

		keyboard := bot.GetDisputeKeyboard()
		if session.IsDisputed() {
			keyboard = bot.GetResolveKeyboard()
		}
		bot.EditMessageReplyMarkup(session.ChannelID(), session.LastMessageID(), keyboard)
		logger.Info("Re-attached match controls",
			"channel_id", session.ChannelID(),
			"message_id", session.LastMessageID(),
			"disputed", session.IsDisputed())
	}
}

func (h *HandlerManager) finishMatch(chatID int64, bot BotInterface) {
	session, err := h.Registry.End(chatID)
	if err != nil {
		bot.SendMessage(chatID, h.errorMessage(err), nil)
		return
	}

	logger.Info("Match ended", "channel_id", chatID, "games", session.GameCount())
	bot.SendMessage(chatID, "🏁 <b>Match ended.</b>\n\n"+renderSummary(session.Summary()), nil)
}

// clearResultControls removes the inline buttons from the latest result
// message once the game is fully acknowledged.
func (h *HandlerManager) clearResultControls(session *services.MatchSession, bot BotInterface) {
	if msgID := session.LastMessageID(); msgID != 0 {
		bot.EditMessageReplyMarkup(session.ChannelID(), msgID, nil)
	}
}

func (h *HandlerManager) errorMessage(err error) string {
	var thresholdErr *services.ErrThresholdNotElapsed
	if stderrors.As(err, &thresholdErr) {
		return fmt.Sprintf("⏳ Too early to force an acknowledgement. Try again in %s.", utils.FormatMinSec(thresholdErr.Remaining))
	}

	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeAlreadyActive:
		return "⚠️ A match is already ongoing in this channel. End it first with /match_end."
	case apperrors.ErrCodePendingAck:
		return "⛔ The previous game is still awaiting acknowledgement from both teams."
	case apperrors.ErrCodeDisputeInProgress:
		return "⛔ A dispute is already in progress."
	case apperrors.ErrCodeNoDispute:
		return "ℹ️ There is no open dispute."
	case apperrors.ErrCodeNoPendingResult:
		return "ℹ️ No result is pending acknowledgement."
	case apperrors.ErrCodeDuplicateAck:
		return "ℹ️ That team has already acknowledged the current game."
	case apperrors.ErrCodeNotFound:
		return "⚠️ Unknown team. Check the abbreviation and try again."
	case apperrors.ErrCodeNoActiveSession:
		return "⚠️ No active match in this channel."
	}

	logger.Error("Unhandled handler error", "error", err)
	return "❌ Something went wrong. Please try again."
}

func renderSummary(summary services.MatchSummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 <b>Best of %d</b> — %s", summary.BestOf, statusLabel(summary)))

	if len(summary.Games) == 0 {
		sb.WriteString("\n\nNo games played yet.")
	} else {
		sb.WriteString("\n")
		for _, g := range summary.Games {
			mark := "⏳"
			if g.Acked {
				mark = "✅"
			}
			sb.WriteString(fmt.Sprintf("\n%s Game %d: %s (%d/2)", mark, g.Number, g.Result, g.AckCount))
		}
	}

	if summary.Status == models.MatchStatusCheckingAck {
		sb.WriteString(fmt.Sprintf("\n\n⏱ Waiting for acknowledgement: %s", utils.FormatMinSec(summary.Elapsed)))
		if len(summary.AckedTeams) > 0 {
			sb.WriteString(fmt.Sprintf("\nAcknowledged so far: %s", strings.Join(summary.AckedTeams, ", ")))
		}
		if summary.IsDisputed {
			sb.WriteString("\n⚠️ Dispute open — the timer is paused.")
		}
	}
	return sb.String()
}

func statusLabel(summary services.MatchSummary) string {
	switch summary.Status {
	case models.MatchStatusOngoing:
		return "in progress"
	case models.MatchStatusCheckingAck:
		if summary.IsDisputed {
			return "result disputed"
		}
		return "awaiting acknowledgement"
	case models.MatchStatusEnded:
		return "finished"
	default:
		return summary.Status
	}
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
