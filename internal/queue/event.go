// Package queue carries base price change events over RabbitMQ.
package queue

// PriceChangedQueue is the durable queue price change events are routed to.
const PriceChangedQueue = "liftpass.price.changed"

// BasePriceChangedEvent is published after an administrator stores a base
// cost. Consumers get the new value without querying the database.
type BasePriceChangedEvent struct {
	PassType  string `json:"type"`
	Cost      int    `json:"cost"`
	ChangedBy string `json:"changed_by"`
	ChangedAt string `json:"changed_at"` // RFC 3339, UTC
}
