package contract

type ResponseError struct {
	Successful bool   `json:"successful"`
	Code       any    `json:"code"`
	Message    string `json:"message"`
	TrackID    string `json:"x_track_id,omitempty"`
}

type Response struct {
	Successful bool   `json:"successful"`
	Code       string `json:"code"`
	Message    string `json:"message,omitempty"`
	TrackID    string `json:"x_track_id"`
	Result     any    `json:"result"`
}

const CodeSuccess = "success"

func Success(trackID, message string, result any) Response {
	return Response{Successful: true, Code: CodeSuccess, Message: message, TrackID: trackID, Result: result}
}
