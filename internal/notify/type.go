package notify

// DeliveryResult reports the outcome of one channel's delivery attempt.
// Channels that were not enabled do not appear at all.
type DeliveryResult struct {
	Channel string `json:"channel"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Stats is a snapshot of dispatcher counters.
type Stats struct {
	Dispatched int64 `json:"dispatched"`
	Delivered  int64 `json:"delivered"`
	Failed     int64 `json:"failed"`
}
