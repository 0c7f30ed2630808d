// Package telegram is the chat front end: it receives planning requests over
// a webhook, replies with generated plans, and drives the approve/reject flow
// through inline keyboards.
package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"event-orchestrator/internal/app"
	"event-orchestrator/internal/config"
	"event-orchestrator/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// stateAwaitingApproval marks a session whose plan awaits approve/reject.
const stateAwaitingApproval = "awaiting_approval"

// Bot wraps the Telegram API and the orchestrator app.
type Bot struct {
	api      *tgbotapi.BotAPI
	app      *app.App
	sessions *SessionRepository
	cfg      *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, orchestrator *app.App, sessions *SessionRepository) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:      bot,
		app:      orchestrator,
		sessions: sessions,
		cfg:      cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.CallbackQuery != nil {
		if b.isAllowed(update.CallbackQuery.From.ID) {
			b.handleCallbackQuery(update.CallbackQuery)
		}
		return
	}

	if update.Message == nil {
		return
	}

	if !b.isAllowed(update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) isAllowed(userID int64) bool {
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	switch {
	case msg.Text == "/metrics":
		b.handleMetricsRequest(msg)
	case msg.Text == "/pending":
		b.handlePendingRequest(msg)
	case strings.HasPrefix(msg.Text, "http://") || strings.HasPrefix(msg.Text, "https://"):
		b.handleClipperRequest(msg)
	case isApprovalReply(msg.Text):
		b.handleApprovalReply(msg)
	default:
		b.handlePlannerRequest(msg)
	}
}

func isApprovalReply(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == "approve" || t == "reject" || t == "yes" || t == "no"
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "⛔ *Access Denied*: Admin only."))
		return
	}
	b.handleMetricsCommand(msg.Chat.ID)
}

func (b *Bot) handlePendingRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "⛔ *Access Denied*: Admin only."))
		return
	}

	pending, err := b.app.PendingRequests(context.Background(), 10)
	if err != nil {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Error fetching pending requests."))
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 *Pending Approvals*\n\n")
	if len(pending) == 0 {
		sb.WriteString("_Nothing pending_\n")
	}
	for _, req := range pending {
		sb.WriteString(fmt.Sprintf("• `%s`\n  %s, PKR %.0f, %d vendors, needs *%s*\n",
			req.RequestID, req.EventType, req.TotalCost, req.VendorCount, req.Level))
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, sb.String())
	reply.ParseMode = "Markdown"
	b.api.Send(reply)
}

func (b *Bot) handleClipperRequest(msg *tgbotapi.Message) {
	statusText := "✂️ *Importing vendor...* \n(Extracting the listing details)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	profile, err := b.app.ClipVendor(ctx, msg.Text)
	var finalText string
	if err != nil {
		log.Printf("Error clipping vendor: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error importing vendor:*\n```\n%v\n```", safeErr)
	} else {
		finalText = fmt.Sprintf("✅ *Vendor Saved!*\n\n*Name:* %s\n*Category:* %s\n*ID:* `%s`",
			profile.Name, profile.Category, profile.VendorID)
	}
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) handlePlannerRequest(msg *tgbotapi.Message) {
	statusText := "🎪 *Planning...* \n(Extracting requirements and matching vendors)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	userID := fmt.Sprintf("%d", msg.From.ID)
	log.Printf("Generating plan for request: %s", msg.Text)

	result, err := b.app.ProcessRequest(ctx, userID, msg.Text)
	if err != nil {
		log.Printf("Error generating plan: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText := fmt.Sprintf("❌ *Could not plan that:*\n```\n%v\n```\nTell me the event type, guest count, date, budget and city.", safeErr)
		edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
		edit.ParseMode = "Markdown"
		b.api.Send(edit)
		return
	}

	if err := b.sessions.Set(ctx, userID, stateAwaitingApproval, SessionContextData{
		RequestID:       result.RequestID,
		OriginalRequest: msg.Text,
	}); err != nil {
		log.Printf("Warning: failed to save session for user %s: %v", userID, err)
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve & Book", "approve|"+result.RequestID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", "reject|"+result.RequestID),
		),
	)

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, formatPlanMarkdown(result))
	edit.ParseMode = "Markdown"
	edit.ReplyMarkup = &keyboard
	b.api.Send(edit)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	data := query.Data // "approve|<request_id>" or "reject|<request_id>"
	parts := strings.SplitN(data, "|", 2)
	if len(parts) < 2 {
		return
	}
	action, requestID := parts[0], parts[1]

	// Answer callback to remove spinner
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	userID := fmt.Sprintf("%d", query.From.ID)
	b.decide(context.Background(), action == "approve", requestID, userID,
		query.Message.Chat.ID, query.Message.MessageID)
}

func (b *Bot) handleApprovalReply(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := fmt.Sprintf("%d", msg.From.ID)

	session, err := b.sessions.GetActive(ctx, userID)
	if err != nil || session == nil || session.State != stateAwaitingApproval {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "There is no plan waiting for a decision. Send me an event request first."))
		return
	}

	t := strings.ToLower(strings.TrimSpace(msg.Text))
	approve := t == "approve" || t == "yes"
	b.decide(ctx, approve, session.Context.RequestID, userID, msg.Chat.ID, 0)
}

func (b *Bot) decide(ctx context.Context, approve bool, requestID, userID string, chatID int64, messageID int) {
	var finalText string
	if approve {
		result, err := b.app.Approve(ctx, requestID, userID)
		if err != nil {
			safeErr := strings.ReplaceAll(err.Error(), "`", "'")
			finalText = fmt.Sprintf("❌ *Approval failed:*\n```\n%v\n```", safeErr)
		} else {
			finalText = formatBookingMarkdown(result)
		}
	} else {
		_, err := b.app.Reject(ctx, requestID, userID, "rejected via chat")
		if err != nil {
			safeErr := strings.ReplaceAll(err.Error(), "`", "'")
			finalText = fmt.Sprintf("❌ *Rejection failed:*\n```\n%v\n```", safeErr)
		} else {
			finalText = "🚫 *Plan rejected.* Tell me what to change and I'll plan again."
		}
	}

	if err := b.sessions.Delete(ctx, userID); err != nil {
		log.Printf("Warning: failed to clear session for user %s: %v", userID, err)
	}

	if messageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, finalText)
		edit.ParseMode = "Markdown"
		b.api.Send(edit)
		return
	}
	reply := tgbotapi.NewMessage(chatID, finalText)
	reply.ParseMode = "Markdown"
	b.api.Send(reply)
}

func formatPlanMarkdown(result *app.PlanResult) string {
	plan := result.Plan

	var sb strings.Builder
	sb.WriteString("🎉 *Event Plan*\n\n")
	sb.WriteString(fmt.Sprintf("*Event:* %s\n", plan.EventDetails.EventType))
	sb.WriteString(fmt.Sprintf("*Date:* %s\n", plan.EventDetails.Date))
	sb.WriteString(fmt.Sprintf("*Guests:* %d\n", plan.EventDetails.Attendees))
	if plan.EventDetails.Location != "" {
		sb.WriteString(fmt.Sprintf("*Location:* %s\n", plan.EventDetails.Location))
	}
	sb.WriteString("\n")

	sb.WriteString("👥 *Selected Vendors*\n")
	if len(plan.SelectedVendors) == 0 {
		sb.WriteString("_No vendors fit the budget_\n")
	}
	for _, v := range plan.SelectedVendors {
		sb.WriteString(fmt.Sprintf("• `%s` — PKR %.0f\n  _%s_\n", v.VendorID, v.Cost, v.Reason))
	}
	sb.WriteString(fmt.Sprintf("\n💰 *Total:* PKR %.0f (budget PKR %.0f)\n", plan.TotalCost, plan.EventDetails.Budget))

	if len(plan.Schedule) > 0 {
		sb.WriteString("\n🗓 *Schedule*\n")
		for _, line := range plan.Schedule {
			sb.WriteString(fmt.Sprintf("• %s\n", line))
		}
	}

	sb.WriteString(fmt.Sprintf("\n🔏 Needs *%s* approval. Book it?\n", result.Level))
	return sb.String()
}

func formatBookingMarkdown(result *app.BookingResult) string {
	var sb strings.Builder
	sb.WriteString("✅ *Plan approved!*\n\n")

	if len(result.Bookings) > 0 {
		sb.WriteString("📦 *Bookings*\n")
		for _, bk := range result.Bookings {
			sb.WriteString(fmt.Sprintf("• `%s` → %s (%s)\n", bk.VendorID, bk.Status, bk.ID))
		}
	}
	if len(result.Failures) > 0 {
		sb.WriteString("\n⚠️ *Could not book:*\n")
		for _, f := range result.Failures {
			sb.WriteString(fmt.Sprintf("• %s\n", f))
		}
	}
	if len(result.Bookings) == 0 && len(result.Failures) == 0 {
		sb.WriteString("_The plan had no vendors to book._\n")
	}
	return sb.String()
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	usage, err := b.app.DailyUsage(context.Background(), 7)
	if err != nil {
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Error fetching metrics."))
		return
	}

	health := metrics.CollectSysHealth(b.cfg.DatabasePath)

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Database: %s (data dir %s)\n", health.DatabaseSize, health.DataDirSize))

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}
