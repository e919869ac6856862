package entity

import "strconv"

// UploadedFile is one file received on a multipart inbound request.
type UploadedFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Content     []byte `json:"-"`
}

// InboundRequest carries everything the pipeline needs from one inbound HTTP
// call, decoded by the delivery layer. ParseError is set when the body could
// not be decoded; the request is still processed far enough to be logged.
type InboundRequest struct {
	Action        string
	Route         string
	Method        string
	SourceAddress string
	Headers       map[string]string
	Params        map[string]interface{}
	Files         map[string]*UploadedFile
	RawBody       []byte
	ParseError    string
}

// StringParam returns the named parameter as a string, or "" when absent or
// not a scalar.
func (r *InboundRequest) StringParam(key string) string {
	v, ok := r.Params[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// IntParam returns the named parameter as an int64. JSON numbers arrive as
// float64, form values as strings; both are accepted.
func (r *InboundRequest) IntParam(key string) (int64, bool) {
	v, ok := r.Params[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// ListParam returns the named parameter as a slice. A single scalar value is
// wrapped so form-encoded requests can pass one category without an array.
func (r *InboundRequest) ListParam(key string) []interface{} {
	v, ok := r.Params[key]
	if !ok || v == nil {
		return nil
	}
	if list, ok := v.([]interface{}); ok {
		return list
	}
	return []interface{}{v}
}
