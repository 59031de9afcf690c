package echo

// Response is the envelope for all handler replies.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func getSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

func getFailureResponse(err error) Response {
	return Response{Success: false, Error: err.Error()}
}
