package entity

// Domain events raised at the Content Store boundary. Each one maps to a
// configurable trigger; the dispatcher decides whether it fires.

type PostCreatedEvent struct {
	Post     Post `json:"post"`
	IsUpdate bool `json:"is_update"`
}

type PostPublishedEvent struct {
	NewStatus string `json:"new_status"`
	OldStatus string `json:"old_status"`
	Post      Post   `json:"post"`
}

type NewCommentEvent struct {
	Comment Comment `json:"comment"`
}
