// Package notify decides when an account should be told about low stock and
// hands the alert to a Sender.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/erazemk/shramba/internal/model"
)

// DefaultThreshold alerts only when an item has run out.
const DefaultThreshold = 0

// Alert is a low-stock message for one item.
type Alert struct {
	AccountID    int64
	BusinessName string
	Phone        string
	ItemID       int64
	ItemName     string
	Quantity     int
}

// Message renders the alert text.
func (a Alert) Message() string {
	prefix := ""
	if a.BusinessName != "" {
		prefix = a.BusinessName + ": "
	}
	if a.Quantity <= 0 {
		return fmt.Sprintf("%sLow stock alert: %q is out of stock.", prefix, a.ItemName)
	}
	return fmt.Sprintf("%sLow stock alert: %q is down to %d.", prefix, a.ItemName, a.Quantity)
}

// Low reports whether item is at or below threshold.
func Low(item model.Item, threshold int) bool {
	return item.Quantity <= threshold
}

// Due returns the alert for item if it is low and the account has opted in
// to text alerts with a phone number on file.
func Due(account model.Account, item model.Item, threshold int) (Alert, bool) {
	if !Low(item, threshold) || !account.SMSEnabled || account.PhoneNumber == "" {
		return Alert{}, false
	}
	return Alert{
		AccountID:    account.ID,
		BusinessName: account.BusinessName,
		Phone:        account.PhoneNumber,
		ItemID:       item.ID,
		ItemName:     item.Name,
		Quantity:     item.Quantity,
	}, true
}

// Sender delivers alerts.
type Sender interface {
	Send(ctx context.Context, alert Alert) error
}

// LogSender writes alerts to a logger instead of delivering them.
type LogSender struct {
	Logger *slog.Logger
}

// Send logs the alert.
func (s LogSender) Send(ctx context.Context, alert Alert) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "low stock alert",
		"account_id", alert.AccountID,
		"item_id", alert.ItemID,
		"phone", alert.Phone,
		"message", alert.Message(),
	)
	return nil
}
