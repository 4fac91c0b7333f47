package notify

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"faturadash/internal/models"
)

// Telegram pushes dashboard events to a configured chat. The notifier is
// optional: when no token is configured the loops simply run without one.
type Telegram struct {
	bot    *tele.Bot
	chat   tele.ChatID
	logger *zap.Logger
}

func NewTelegram(token string, chatID int64, logger *zap.Logger) (*Telegram, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Client: &http.Client{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram bot init failed: %w", err)
	}
	return &Telegram{bot: bot, chat: tele.ChatID(chatID), logger: logger}, nil
}

// PdfCataloged announces a newly cataloged PDF.
func (t *Telegram) PdfCataloged(p *models.GeneratedPdf) {
	t.send(fmt.Sprintf("📄 Novo %s disponível: %s (%.1f KB)",
		p.PdfType, p.Filename, float64(p.FileSize)/1024))
}

// DispatchExecuted announces a dispatch attempt and its outcome.
func (t *Telegram) DispatchExecuted(d *models.ScheduledDispatch, err error) {
	if err != nil {
		t.send(fmt.Sprintf("⚠️ Falha ao solicitar fatura da UC %s: %v", d.UC, err))
		return
	}
	t.send(fmt.Sprintf("✅ Solicitação de fatura enviada para a UC %s", d.UC))
}

func (t *Telegram) send(text string) {
	if _, err := t.bot.Send(t.chat, text); err != nil {
		t.logger.Warn("Failed to send Telegram notification", zap.Error(err))
	}
}
