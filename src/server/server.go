package server

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/HTYISABUG/tgbot-github-trending/src/command"
	"github.com/HTYISABUG/tgbot-github-trending/src/ghapi"
	"github.com/HTYISABUG/tgbot-github-trending/src/tgbot"
	"github.com/golang/glog"
)

const (
	parseFailureReply  = "Sorry, I can only understand commands. Try /help."
	internalErrorReply = "Sorry, something went wrong. Please try again later."
)

// Messenger is the chat side of the bot.
type Messenger interface {
	GetMessages(offset, limit, timeout int) ([]tgbot.Message, error)
	SendReply(chatID int64, messageID int, text string) error
}

// Searcher looks up trending repositories.
type Searcher interface {
	FindTrending(ctx context.Context, ageInDays, limit int) ([]ghapi.Repo, error)
}

// Server is a main server which integrated all function in this project.
type Server struct {
	tg      Messenger
	gh      Searcher
	offsets OffsetStore

	dispatcher *command.Dispatcher
	setting    Setting

	// offset is the next update id to request.
	offset int

	sleep func(ctx context.Context, d time.Duration)
}

// NewServer returns a pointer to a new `Server` object.
func NewServer(tg Messenger, gh Searcher, offsets OffsetStore, setting Setting) *Server {
	s := &Server{
		tg:         tg,
		gh:         gh,
		offsets:    offsets,
		dispatcher: command.NewDispatcher(),
		setting:    setting,
		sleep:      sleepContext,
	}

	s.registerHandlers()

	return s
}

// Offset returns the next update id the server will request.
func (s *Server) Offset() int {
	return s.offset
}

// Run restores the offset and polls until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	offset, err := s.offsets.Load(ctx)
	if err != nil {
		return fmt.Errorf("load offset: %w", err)
	}
	s.offset = offset

	glog.Infoln("Start polling from offset", s.offset)

	for ctx.Err() == nil {
		// Failures are logged and backed off inside RunOnce.
		_ = s.RunOnce(ctx)
	}

	glog.Infoln("Stop polling at offset", s.offset)
	return nil
}

// RunOnce polls one batch, replies to every message in it and persists the
// advanced offset.
func (s *Server) RunOnce(ctx context.Context) error {
	messages, err := s.tg.GetMessages(s.offset, s.setting.PollLimit, s.setting.PollTimeout)
	if err != nil {
		glog.Warningf("Polling failed, retry in %s: %v", s.setting.Backoff, err)
		s.sleep(ctx, s.setting.Backoff)
		return err
	}

	// A batch is always finished and persisted, even when shutdown starts
	// while it is being answered.
	batchCtx := context.WithoutCancel(ctx)

	next := s.offset
	for _, msg := range messages {
		if msg.UpdateID+1 > next {
			next = msg.UpdateID + 1
		}

		if msg.Malformed {
			continue
		}

		text := s.reply(batchCtx, msg)
		if err := s.tg.SendReply(msg.ChatID, msg.MessageID, text); err != nil {
			glog.Warningf("Reply to chat %d dropped, wait %s: %v", msg.ChatID, s.setting.Backoff, err)
			s.sleep(ctx, s.setting.Backoff)
		}
	}

	s.offset = next

	if err := s.offsets.Save(batchCtx, s.offset); err != nil {
		glog.Error(err)
		return err
	}

	return nil
}

// reply runs the command in msg and returns the text to send back.
// Command errors become a short error reply, anything else a generic one.
func (s *Server) reply(ctx context.Context, msg tgbot.Message) (text string) {
	cmd, err := command.Parse(msg.Text)
	if err != nil {
		cmd = command.Parsed{Name: cmdEcho, Args: []string{parseFailureReply}}
	}

	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("Command %s panicked: %v\n%s", cmd.Name, r, debug.Stack())
			text = internalErrorReply
		}
	}()

	text, err = s.dispatcher.Execute(ctx, cmd)
	if err == nil {
		return text
	}

	var searchErr *ghapi.SearchAPIError
	if command.IsCommandError(err) || errors.As(err, &searchErr) {
		glog.Warningf("Command %s from chat %d failed: %v", cmd.Name, msg.ChatID, err)
		return "Error: " + tgbot.EscapeText(err.Error())
	}

	glog.Errorf("Command %s from chat %d failed: %v", cmd.Name, msg.ChatID, err)
	return internalErrorReply
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
