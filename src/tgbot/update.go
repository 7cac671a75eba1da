package tgbot

import (
	api "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Message is an incoming chat message reduced to what the bot answers.
type Message struct {
	UpdateID  int
	ChatID    int64
	MessageID int
	Text      string

	// Malformed is set when the update carries no usable message body.
	// Its UpdateID is still valid and must be acknowledged.
	Malformed bool
}

func newMessage(update api.Update) Message {
	msg := Message{UpdateID: update.UpdateID}

	if update.Message == nil || update.Message.Chat == nil {
		msg.Malformed = true
		return msg
	}

	msg.ChatID = update.Message.Chat.ID
	msg.MessageID = update.Message.MessageID
	msg.Text = update.Message.Text

	return msg
}
