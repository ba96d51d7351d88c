package util

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every non-2xx answer.
// Message is a string, or a list of strings for validation failures.
type ErrorResponse struct {
	StatusCode int         `json:"statusCode"`
	Message    interface{} `json:"message"`
	Error      string      `json:"error"`
}

// CallError aborts the request with status and message.
func CallError(c *gin.Context, status int, message interface{}) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

// CallUserError is for return error from user side
func CallUserError(c *gin.Context, msg string) {
	CallError(c, http.StatusBadRequest, msg)
}

// CallErrorNotFound is for return API response not found
func CallErrorNotFound(c *gin.Context, msg string) {
	CallError(c, http.StatusNotFound, msg)
}

// CallUserNotAuthorized answers 401.
func CallUserNotAuthorized(c *gin.Context, msg string) {
	CallError(c, http.StatusUnauthorized, msg)
}

// CallForbidden answers 403.
func CallForbidden(c *gin.Context, msg string) {
	CallError(c, http.StatusForbidden, msg)
}

// CallConflict answers 409.
func CallConflict(c *gin.Context, msg string) {
	CallError(c, http.StatusConflict, msg)
}

// CallServerError logs err and answers 500 with msg; err never reaches the client.
func CallServerError(c *gin.Context, msg string, err error) {
	Logger().Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
	CallError(c, http.StatusInternalServerError, msg)
}

// CallValidationError answers 400 for a failed bind. Validator failures are
// reported one message per field; a single failure is sent as a plain string.
func CallValidationError(c *gin.Context, err error) {
	msgs := ValidationMessages(err)
	if len(msgs) == 1 {
		CallUserError(c, msgs[0])
		return
	}
	CallError(c, http.StatusBadRequest, msgs)
}

// CallSuccessOK writes data with status 200.
func CallSuccessOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// CallCreated writes data with status 201.
func CallCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// ValidationMessages turns a bind error into readable messages.
func ValidationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid request payload"}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email"
	case "gt", "gte", "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// UseJSONFieldNames makes validation errors name fields by their JSON key.
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// NormalizeName normalizes a name by trimming leading/trailing whitespace
// and collapsing multiple internal spaces into single spaces.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
