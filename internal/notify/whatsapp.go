package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// WhatsAppNotifier posts a plain-text order summary to a WhatsApp messaging
// gateway.
type WhatsAppNotifier struct {
	apiURL     string
	token      string
	destNumber string
	httpClient *http.Client
}

func NewWhatsAppNotifier(apiURL, token, destNumber string) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		apiURL:     apiURL,
		token:      token,
		destNumber: destNumber,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

func (w *WhatsAppNotifier) NotifyOrderPlaced(ctx context.Context, n OrderNotification) error {
	payload, err := json.Marshal(sendTextRequest{
		Number: w.destNumber,
		Text:   formatOrderMessage(n),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.apiURL+"/send/text", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token", w.token)

	res, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp webhook: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("whatsapp webhook: %d - %s", res.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}

func formatOrderMessage(n OrderNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Novo pedido %s\n", n.OrderID)
	fmt.Fprintf(&b, "Cliente: %s (%s)\n\n", n.CustomerName, n.CustomerWhatsApp)
	for _, item := range n.Items {
		fmt.Fprintf(&b, "%dx %s - R$ %.2f\n", item.Qty, item.Name, item.UnitPrice)
	}
	fmt.Fprintf(&b, "\nTotal: R$ %.2f", n.Total)
	return b.String()
}
