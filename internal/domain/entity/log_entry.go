package entity

import "time"

// Direction marks whether a log entry records an inbound request or an
// outbound webhook delivery.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// LogEntry is one durable record of an inbound exchange or an outbound
// delivery attempt. Headers, Params, and Files hold serialized JSON objects.
type LogEntry struct {
	ID            int64     `json:"id"`
	Time          time.Time `json:"time"`
	Endpoint      string    `json:"endpoint"`
	Method        string    `json:"method"`
	Headers       string    `json:"headers"`
	Params        string    `json:"params"`
	Files         string    `json:"files"`
	Response      string    `json:"response"`
	StatusCode    int       `json:"status_code"`
	SourceAddress string    `json:"source_address"`
	Direction     Direction `json:"direction"`
}
