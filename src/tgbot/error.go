package tgbot

import (
	"errors"
	"fmt"

	api "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessagingAPIError is returned for every failed Bot API call: transport
// errors, error responses and undecodable bodies alike.
type MessagingAPIError struct {
	Method string
	Err    error
}

func (e *MessagingAPIError) Error() string {
	return fmt.Sprintf("telegram %s failed: %v", e.Method, e.Err)
}

func (e *MessagingAPIError) Unwrap() error {
	return e.Err
}

// Code returns the Bot API error code, or 0 when the request never got a
// well-formed error response.
func (e *MessagingAPIError) Code() int {
	var apiErr *api.Error
	if errors.As(e.Err, &apiErr) {
		return apiErr.Code
	}

	return 0
}
