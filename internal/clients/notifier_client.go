package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Receipt is the payload dispatched to the notifier service after a payment
// settles. Delivery is best-effort; the caller never fails on notifier errors.
type Receipt struct {
	PaymentID     int     `json:"payment_id"`
	OrderID       int     `json:"order_id"`
	CustomerID    int     `json:"customer_id"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	TransactionID string  `json:"transaction_id"`
	Reference     string  `json:"reference"`
}

type NotifierClient interface {
	SendReceipt(ctx context.Context, receipt Receipt) error
}

type notifierHTTPClient struct {
	client *resty.Client
	log    *logrus.Logger
}

func NewNotifierHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) NotifierClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)

	return &notifierHTTPClient{
		client: client,
		log:    logger,
	}
}

func (c *notifierHTTPClient) SendReceipt(ctx context.Context, receipt Receipt) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(receipt).
		Post("/notifications/receipts")
	if err != nil {
		c.log.Warnf("Notifier request failed for payment %d: %v", receipt.PaymentID, err)
		return fmt.Errorf("notifier request failed: %w", err)
	}
	if resp.IsError() {
		c.log.Warnf("Notifier returned status %d for payment %d", resp.StatusCode(), receipt.PaymentID)
		return fmt.Errorf("notifier returned status %d", resp.StatusCode())
	}

	c.log.Infof("Receipt dispatched for payment %d (tx: %s)", receipt.PaymentID, receipt.TransactionID)
	return nil
}

// noopNotifier is used when no notifier endpoint is configured.
type noopNotifier struct {
	log *logrus.Logger
}

func NewNoopNotifier(logger *logrus.Logger) NotifierClient {
	return &noopNotifier{log: logger}
}

func (c *noopNotifier) SendReceipt(_ context.Context, receipt Receipt) error {
	c.log.Debugf("Notifier disabled; skipping receipt for payment %d", receipt.PaymentID)
	return nil
}
