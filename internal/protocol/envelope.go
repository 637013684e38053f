package protocol

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// MessageType tags a request with the operation it invokes. The set is
// closed; unknown tags get an ERROR response, not a connection teardown.
type MessageType string

const (
	TypeRegister         MessageType = "REGISTER"
	TypeLogin            MessageType = "LOGIN"
	TypeLogout           MessageType = "LOGOUT"
	TypeListOnline       MessageType = "LIST_ONLINE"
	TypeListGames        MessageType = "LIST_GAMES"
	TypeGetGameInfo      MessageType = "GET_GAME_INFO"
	TypeDownloadGame     MessageType = "DOWNLOAD_GAME"
	TypeUploadGame       MessageType = "UPLOAD_GAME"
	TypeUpdateGame       MessageType = "UPDATE_GAME"
	TypeRemoveGame       MessageType = "REMOVE_GAME"
	TypeListRooms        MessageType = "LIST_ROOMS"
	TypeCreateRoom       MessageType = "CREATE_ROOM"
	TypeJoinRoom         MessageType = "JOIN_ROOM"
	TypeLeaveRoom        MessageType = "LEAVE_ROOM"
	TypeStartGame        MessageType = "START_GAME"
	TypeAddReview        MessageType = "ADD_REVIEW"
	TypeGetReviews       MessageType = "GET_REVIEWS"
	TypeGetPlayerRecords MessageType = "GET_PLAYER_RECORDS"
)

// Status is the outcome tag on a response envelope
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// Request is the client→server envelope
type Request struct {
	Type MessageType         `json:"type"`
	Data jsoniter.RawMessage `json:"data,omitempty"`
}

// NewRequest builds a request, encoding data into the envelope
func NewRequest(t MessageType, data any) (*Request, error) {
	req := &Request{Type: t}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode request data: %w", err)
		}
		req.Data = raw
	}
	return req, nil
}

// Decode unmarshals the request payload into v
func (r *Request) Decode(v any) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// Response is the server→client envelope. Every request gets exactly one,
// unless the connection dies mid-request.
type Response struct {
	Status  Status              `json:"status"`
	Message string              `json:"message"`
	Data    jsoniter.RawMessage `json:"data,omitempty"`
}

// OK builds a SUCCESS response carrying data (may be nil)
func OK(message string, data any) *Response {
	resp := &Response{Status: StatusSuccess, Message: message}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Error("internal error: " + err.Error())
		}
		resp.Data = raw
	}
	return resp
}

// Error builds an ERROR response
func Error(message string) *Response {
	return &Response{Status: StatusError, Message: message}
}

// IsSuccess reports whether the response carries a SUCCESS status
func (r *Response) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// Decode unmarshals the response payload into v
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}
