package tgbot

import (
	api "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/golang/glog"
)

// GetMessages long-polls getUpdates starting from offset.
//
// The call may block server side for up to timeout seconds. Updates without
// a message body are returned flagged as Malformed instead of failing the
// whole batch.
func (bot *TgBot) GetMessages(offset, limit, timeout int) ([]Message, error) {
	updates, err := bot.poller.GetUpdates(api.UpdateConfig{
		Offset:  offset,
		Limit:   limit,
		Timeout: timeout,
	})
	if err != nil {
		return nil, &MessagingAPIError{Method: "getUpdates", Err: err}
	}

	messages := make([]Message, 0, len(updates))
	for _, u := range updates {
		msg := newMessage(u)
		if msg.Malformed {
			glog.Warningf("update %d has no message body, skipped", u.UpdateID)
		}

		messages = append(messages, msg)
	}

	return messages, nil
}

// SendReply sends text as a reply to messageID in chatID.
//
// Empty text is never sent.
func (bot *TgBot) SendReply(chatID int64, messageID int, text string) error {
	if text == "" {
		return nil
	}

	msgConfig := NewMessage(chatID, text)
	msgConfig.ReplyToMessageID = messageID
	msgConfig.AllowSendingWithoutReply = true
	msgConfig.DisableNotification = true
	msgConfig.DisableWebPagePreview = true

	if _, err := bot.Send(msgConfig); err != nil {
		return &MessagingAPIError{Method: "sendMessage", Err: err}
	}

	return nil
}
