package tgbot

import (
	"net/http"
	"time"

	api "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxTextLength is the longest message text telegram accepts, in UTF-16 code units.
const MaxTextLength = 4096

// TgBot allows you to interact with the Telegram Bot API.
//
// Long polling and replying go through separate API handles so that only
// getUpdates is allowed to block for the whole poll timeout.
type TgBot struct {
	*api.BotAPI

	poller *api.BotAPI
}

// NewTgBot creates a new TgBot instance.
//
// It requires a token, provided by @BotFather on Telegram. requestTimeout
// bounds every call except getUpdates, which may wait up to pollTimeout
// plus requestTimeout.
func NewTgBot(token string, requestTimeout, pollTimeout time.Duration) *TgBot {
	return &TgBot{
		BotAPI: newBotAPI(token, requestTimeout),
		poller: newBotAPI(token, pollTimeout+requestTimeout),
	}
}

func newBotAPI(token string, timeout time.Duration) *api.BotAPI {
	bot := &api.BotAPI{
		Token:  token,
		Buffer: 100,
		Client: &http.Client{Timeout: timeout},
	}
	bot.SetAPIEndpoint(api.APIEndpoint)
	return bot
}

// SetAPIEndpoint redirects both handles to another Bot API server.
// The endpoint is a format string taking the token and the method name.
func (bot *TgBot) SetAPIEndpoint(endpoint string) {
	bot.BotAPI.SetAPIEndpoint(endpoint)
	bot.poller.SetAPIEndpoint(endpoint)
}

// Verify checks the token against getMe and returns the bot username.
func (bot *TgBot) Verify() (string, error) {
	self, err := bot.GetMe()
	if err != nil {
		return "", &MessagingAPIError{Method: "getMe", Err: err}
	}

	bot.Self = self
	bot.poller.Self = self

	return self.UserName, nil
}

// MessageConfig contains information about a SendMessage request.
type MessageConfig = api.MessageConfig

// NewMessage creates a new HTML formatted Message.
//
// chatID is where to send it, text is the message text.
func NewMessage(chatID int64, text string) MessageConfig {
	msgConfig := api.NewMessage(chatID, text)
	msgConfig.ParseMode = api.ModeHTML
	return msgConfig
}
