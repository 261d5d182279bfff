package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/winstgrad/miniapp-api/internal/core/ports"
)

const sendTimeout = 10 * time.Second

const defaultAPIBase = "https://api.telegram.org"

// TelegramNotifier posts new-order messages to the admin chat via the
// Bot API sendMessage method.
type TelegramNotifier struct {
	client   *http.Client
	apiBase  string
	botToken string
	chatID   int64
	log      zerolog.Logger
}

func NewTelegramNotifier(botToken string, chatID int64, log zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		client:   &http.Client{Timeout: sendTimeout},
		apiBase:  defaultAPIBase,
		botToken: botToken,
		chatID:   chatID,
		log:      log,
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// NotifyOrderCreated sends a short summary of the new order. A zero chat
// id disables delivery (useful in development).
func (n *TelegramNotifier) NotifyOrderCreated(ctx context.Context, o ports.OrderNotification) error {
	if n.chatID == 0 {
		n.log.Debug().Str("order_id", o.OrderID).Msg("admin chat not configured, skipping notification")
		return nil
	}

	text := fmt.Sprintf("New order %s: %d item(s), total %s", o.OrderID, o.ItemCount, o.Total.StringFixed(2))
	if o.Username != "" {
		text += " from @" + o.Username
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: n.chatID, Text: text})
	if err != nil {
		return err
	}

	url := n.apiBase + "/bot" + n.botToken + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send notification: telegram returned %d", resp.StatusCode)
	}
	return nil
}
