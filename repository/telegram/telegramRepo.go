// Package telegramrepo delivers order notifications through the Telegram Bot
// API. It implements the cart orchestrator's Notifier port; delivery is
// best-effort and the caller decides what a failure means.
package telegramrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gearrental/model"
	"gearrental/util/httpx"
)

type Repo interface {
	OrderCreated(ctx context.Context, o model.Order) error
}

type httpRepo struct {
	token  string
	chatID string
	client *http.Client
}

// NewHTTP returns a notifier posting to the given bot token and chat.
func NewHTTP(token, chatID string) Repo {
	return &httpRepo{token: token, chatID: chatID, client: httpx.Client()}
}

func (r *httpRepo) OrderCreated(ctx context.Context, o model.Order) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New order %s\n%s <%s> %s\n", o.OrderID, o.CustomerName, o.CustomerEmail, o.CustomerPhone)
	for _, b := range o.Bookings {
		fmt.Fprintf(&sb, "- product %d x%d, %s to %s, %.0f\n",
			b.ProductID, b.Quantity,
			b.StartDate.Format("2006-01-02 15:04"), b.EndDate.Format("2006-01-02 15:04"),
			b.TotalPrice)
	}
	fmt.Fprintf(&sb, "Total: %.0f", o.TotalPrice)
	return r.sendMessage(ctx, sb.String())
}

func (r *httpRepo) sendMessage(ctx context.Context, text string) error {
	body := map[string]any{
		"chat_id": r.chatID,
		"text":    text,
	}
	b, _ := json.Marshal(body)

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", r.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("telegram sendMessage failed: %s", resp.Status)
	}
	return nil
}
