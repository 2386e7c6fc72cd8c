package errors

import "encoding/json"

type WallErrorType int

const (
	MalformedPayloadError WallErrorType = 1000 + iota
	UnrecognizedShapeError
	UnpaidInvoiceError
	InvoiceDecodeError
	DirectoryQueryError
)

func New(code WallErrorType, err error) WallError {
	return WallError{Err: err, Message: err.Error(), Code: code}
}

// WallError is terminal to the single event being processed, never to
// the process.
type WallError struct {
	Message string `json:"message"`
	Err     error
	Code    WallErrorType `json:"code"`
}

func (e WallError) Error() string {
	j, err := json.Marshal(&e)
	if err != nil {
		return e.Message
	}
	return string(j)
}

func (e WallError) Unwrap() error {
	return e.Err
}
