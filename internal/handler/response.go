package handler

// Response is the standard success envelope returned by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Count   *int64      `json:"count,omitempty"`
	Token   string      `json:"token,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// DataResponse wraps a payload in the success envelope.
func DataResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// ListResponse wraps a collection and its total count in the success envelope.
func ListResponse(count int64, data interface{}) Response {
	return Response{Success: true, Count: &count, Data: data}
}

// TokenResponse wraps a session token in the success envelope.
func TokenResponse(token string) Response {
	return Response{Success: true, Token: token}
}
