package entity

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func NewSuccessResponse(data interface{}, message string) *APIResponse {
	return &APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(err *GatewayError) *APIResponse {
	return &APIResponse{
		Success: false,
		Message: err.Message,
		Error: &APIError{
			Code:    string(err.Code),
			Message: err.Message,
			Details: err.Details,
		},
	}
}
