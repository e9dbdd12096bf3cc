package models

import "time"

// OrderStatus is the label stored in the orders.status column.
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusOzon    OrderStatus = "ozon"
)

// OrderSource tells where an order came from.
type OrderSource string

const (
	SourceTelegram OrderSource = "telegram"
	SourceOzon     OrderSource = "ozon"
)

type Order struct {
	ID int64 `db:"id"`
	// UserID is nil for marketplace orders.
	UserID    *int64      `db:"user_id"`
	SideOne   string      `db:"side_one"`
	SideTwo   string      `db:"side_two"`
	Status    OrderStatus `db:"status"`
	Source    OrderSource `db:"source"`
	CreatedAt time.Time   `db:"created_at"`
}

// Stage of the two-question order conversation.
type Stage string

const (
	StageAwaitingSideOne Stage = "awaiting_side_one"
	StageAwaitingSideTwo Stage = "awaiting_side_two"
)

// UserState is the per-user conversation progress.
type UserState struct {
	Stage   Stage   `json:"stage"`
	SideOne *string `json:"side_one,omitempty"`
}
