package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Role tags a DateRequest as the start or end bound.
type Role string

const (
	RoleStart Role = "start"
	RoleEnd   Role = "end"
)

// Status is the outcome carried by a Response.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// YMD is a calendar date as sent by the host UI.
type YMD struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// DateRequest selects a start or end date. A nil Date is ignored.
type DateRequest struct {
	Role Role `json:"role"`
	Date *YMD `json:"date,omitempty"`
}

// CSVData carries the raw bytes of a bill export.
type CSVData struct {
	Binary []byte `json:"binary"`
}

// Response is sent back to the host UI after each CSVData.
type Response struct {
	Status Status `json:"status"`
	Result string `json:"result"`
}

// ErrUnknownMessage is returned for an envelope whose type is not recognized.
var ErrUnknownMessage = errors.New("unknown message type")

const (
	typeDate = "date"
	typeCSV  = "csv"
)

// envelope is one line of the stdio protocol.
// {"type":"date","role":"start","date":{"year":2024,"month":3,"day":1}}
// {"type":"csv","binary":"<base64>"}
type envelope struct {
	Type   string `json:"type"`
	Role   Role   `json:"role,omitempty"`
	Date   *YMD   `json:"date,omitempty"`
	Binary []byte `json:"binary,omitempty"`
}

// decodeEnvelope returns a *DateRequest or a *CSVData.
func decodeEnvelope(line []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("decoding message: %w", err)
	}
	switch env.Type {
	case typeDate:
		return &DateRequest{Role: env.Role, Date: env.Date}, nil
	case typeCSV:
		return &CSVData{Binary: env.Binary}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}
}
