package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"order-relay-bot/pkg/models"
	"order-relay-bot/pkg/ozon"
)

// Placeholder replaces any field the marketplace left out.
const Placeholder = "Не указан"

// Payload is what we keep from a marketplace order notification.
type Payload struct {
	OrderID    string
	BuyerName  string
	ItemsCount int
}

// ParsePayload never fails: missing, empty or mistyped fields fall back to
// placeholders, and a body that is not a JSON object is treated as {}.
func ParsePayload(body []byte) Payload {
	var raw map[string]any

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		raw = nil
	}

	p := Payload{
		OrderID:   scalarString(raw["order_id"]),
		BuyerName: Placeholder,
	}
	if buyer, ok := raw["buyer"].(map[string]any); ok {
		p.BuyerName = scalarString(buyer["name"])
	}
	if items, ok := raw["items"].([]any); ok {
		p.ItemsCount = len(items)
	}
	return p
}

// scalarString renders a truthy string or number, otherwise the placeholder.
func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		if val != "" {
			return val
		}
	case json.Number:
		if f, err := val.Float64(); err == nil && f != 0 {
			return val.String()
		}
	case bool:
		if val {
			return "true"
		}
	}
	return Placeholder
}

// FromPosting maps a polled posting onto the webhook payload shape.
func FromPosting(p ozon.Posting) Payload {
	out := Payload{
		OrderID:    p.PostingNumber,
		BuyerName:  Placeholder,
		ItemsCount: len(p.Products),
	}
	if out.OrderID == "" && p.OrderID != 0 {
		out.OrderID = strconv.FormatInt(p.OrderID, 10)
	}
	if out.OrderID == "" {
		out.OrderID = Placeholder
	}
	if p.Customer != nil && p.Customer.Name != "" {
		out.BuyerName = p.Customer.Name
	}
	return out
}

// Order builds the record persisted for the payload. Marketplace orders
// have no chat user.
func (p Payload) Order() models.Order {
	return models.Order{
		UserID:  nil,
		SideOne: fmt.Sprintf("OZON Order: %s", p.OrderID),
		SideTwo: fmt.Sprintf("Buyer: %s\nItems: %d", p.BuyerName, p.ItemsCount),
		Status:  models.StatusOzon,
		Source:  models.SourceOzon,
	}
}

func FormatNotification(p Payload) string {
	return fmt.Sprintf(
		"Новый заказ с Ozon:\nOrder_ID: %s\nПокупатель: %s\nКоличество товаров: %d",
		p.OrderID, p.BuyerName, p.ItemsCount,
	)
}
