package httpError

import "net/http"

// CommonError is the error shape returned by every usecase. Code maps
// straight to the HTTP status written by utils.ResponseError.
type CommonError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *CommonError) Error() string {
	return e.Message
}

// NewBadRequest covers validation failures; the message names the field(s).
func NewBadRequest() *CommonError {
	return &CommonError{Code: http.StatusBadRequest, Message: "bad request"}
}

// NewUnauthorized covers missing/invalid credentials and wrong-role access.
func NewUnauthorized() *CommonError {
	return &CommonError{Code: http.StatusUnauthorized, Message: "unauthorized"}
}

func NewNotFound() *CommonError {
	return &CommonError{Code: http.StatusNotFound, Message: "not found"}
}

// NewConflict covers legal requests the ride's current state does not admit,
// including the lost race on accept.
func NewConflict() *CommonError {
	return &CommonError{Code: http.StatusConflict, Message: "conflict"}
}

func NewInternalServerError() *CommonError {
	return &CommonError{Code: http.StatusInternalServerError, Message: "internal server error"}
}
