package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Code is the in-band status carried by every envelope.
type Code int

const (
	CodeSuccess          Code = 0
	CodeError            Code = 1
	CodeParamsValidError Code = 2
)

const (
	msgSuccess    = "Success!"
	msgNotExists  = "The data is not exists!"
	msgInternal   = "internal error"
	msgInvalidArg = "invalid parameters"
)

// Envelope is the uniform response wrapper.
type Envelope struct {
	StatusCode Code        `json:"status_code"`
	Message    interface{} `json:"message"`
	Data       interface{} `json:"data"`
}

// httpStatus maps an envelope code to the transport status. Domain errors stay
// in-band with 200; only schema rejections are surfaced as a client error.
func (c Code) httpStatus() int {
	if c == CodeParamsValidError {
		return http.StatusBadRequest
	}
	return http.StatusOK
}

func (c Code) defaultMessage() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeParamsValidError:
		return msgInvalidArg
	default:
		return "error"
	}
}

// Respond writes an envelope. A nil msg is replaced by the code's default text.
func Respond(c *gin.Context, code Code, msg interface{}, data interface{}) {
	RespondStatus(c, code.httpStatus(), code, msg, data)
}

// RespondStatus writes an envelope with an explicit HTTP status.
func RespondStatus(c *gin.Context, status int, code Code, msg interface{}, data interface{}) {
	if msg == nil {
		msg = code.defaultMessage()
	}
	c.JSON(status, Envelope{StatusCode: code, Message: msg, Data: data})
}
