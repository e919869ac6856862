package entity

// TriggerKind identifies one domain event an outbound webhook can be bound to.
type TriggerKind string

const (
	TriggerPostCreated   TriggerKind = "post_created"
	TriggerPostPublished TriggerKind = "post_published"
	TriggerNewComment    TriggerKind = "new_comment"
)

// TriggerKinds lists every configurable trigger.
var TriggerKinds = []TriggerKind{TriggerPostCreated, TriggerPostPublished, TriggerNewComment}

// ValidTriggerKind reports whether kind names a configurable trigger.
func ValidTriggerKind(kind string) bool {
	for _, k := range TriggerKinds {
		if string(k) == kind {
			return true
		}
	}
	return false
}

// TriggerConfig is the stored configuration of one trigger. A disabled
// trigger, or one with an empty target URL, never fires.
type TriggerConfig struct {
	Enabled   bool              `json:"enabled"`
	TargetURL string            `json:"target_url"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// TriggerUpdateRequest is a partial update of one trigger's configuration.
// Headers carries JSON object text and must parse as such.
type TriggerUpdateRequest struct {
	Enabled   *bool   `json:"enabled,omitempty"`
	TargetURL *string `json:"target_url,omitempty"`
	Headers   *string `json:"headers,omitempty"`
}
