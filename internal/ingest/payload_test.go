package ingest

import (
	"testing"

	"order-relay-bot/pkg/models"
	"order-relay-bot/pkg/ozon"

	"github.com/stretchr/testify/assert"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Payload
	}{
		{
			name: "empty object",
			body: `{}`,
			want: Payload{OrderID: Placeholder, BuyerName: Placeholder},
		},
		{
			name: "malformed json",
			body: `{"order_id":`,
			want: Payload{OrderID: Placeholder, BuyerName: Placeholder},
		},
		{
			name: "not an object",
			body: `[1,2,3]`,
			want: Payload{OrderID: Placeholder, BuyerName: Placeholder},
		},
		{
			name: "full payload",
			body: `{"order_id":"A-17","buyer":{"name":"Анна"},"items":[{},{},{}]}`,
			want: Payload{OrderID: "A-17", BuyerName: "Анна", ItemsCount: 3},
		},
		{
			name: "numeric id keeps its digits",
			body: `{"order_id":12345678901234567890}`,
			want: Payload{OrderID: "12345678901234567890", BuyerName: Placeholder},
		},
		{
			name: "falsy values",
			body: `{"order_id":0,"buyer":{"name":""},"items":[]}`,
			want: Payload{OrderID: Placeholder, BuyerName: Placeholder},
		},
		{
			name: "wrong types",
			body: `{"order_id":{"x":1},"buyer":"Анна","items":"abc"}`,
			want: Payload{OrderID: Placeholder, BuyerName: Placeholder},
		},
		{
			name: "buyer without name",
			body: `{"order_id":"7","buyer":{}}`,
			want: Payload{OrderID: "7", BuyerName: Placeholder},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePayload([]byte(tt.body)))
		})
	}
}

func TestPayloadOrder(t *testing.T) {
	o := Payload{OrderID: "A-17", BuyerName: "Анна", ItemsCount: 3}.Order()

	assert.Nil(t, o.UserID)
	assert.Equal(t, "OZON Order: A-17", o.SideOne)
	assert.Equal(t, "Buyer: Анна\nItems: 3", o.SideTwo)
	assert.Equal(t, models.StatusOzon, o.Status)
	assert.Equal(t, models.SourceOzon, o.Source)
}

func TestPlaceholderOrder(t *testing.T) {
	o := ParsePayload([]byte(`{}`)).Order()

	assert.Equal(t, "OZON Order: Не указан", o.SideOne)
	assert.Equal(t, "Buyer: Не указан\nItems: 0", o.SideTwo)
}

func TestFormatNotification(t *testing.T) {
	got := FormatNotification(Payload{OrderID: "A-17", BuyerName: "Анна", ItemsCount: 3})
	assert.Equal(t, "Новый заказ с Ozon:\nOrder_ID: A-17\nПокупатель: Анна\nКоличество товаров: 3", got)
}

func TestFromPosting(t *testing.T) {
	p := FromPosting(ozon.Posting{
		PostingNumber: "0570-1",
		Products:      []ozon.Product{{SKU: 1}, {SKU: 2}},
		Customer:      &ozon.Customer{Name: "Иван"},
	})
	assert.Equal(t, Payload{OrderID: "0570-1", BuyerName: "Иван", ItemsCount: 2}, p)

	p = FromPosting(ozon.Posting{OrderID: 99})
	assert.Equal(t, Payload{OrderID: "99", BuyerName: Placeholder}, p)

	p = FromPosting(ozon.Posting{})
	assert.Equal(t, Payload{OrderID: Placeholder, BuyerName: Placeholder}, p)
}
