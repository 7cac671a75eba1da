package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/HTYISABUG/tgbot-github-trending/src/command"
	"github.com/HTYISABUG/tgbot-github-trending/src/tgbot"
)

const (
	cmdStart = "/start"
	cmdHelp  = "/help"
	cmdEcho  = "/echo"
	cmdShow  = "/show"
)

var helpText = tgbot.EscapeText(strings.Join([]string{
	"I list the most starred GitHub repositories created recently.",
	"",
	"/show [days] - trending repositories created in the last days (default 7)",
	"/echo <words...> - repeat the words, one per line",
	"/help - show this message",
}, "\n"))

func (s *Server) registerHandlers() {
	s.dispatcher.Register(cmdStart, s.helpHandler)
	s.dispatcher.Register(cmdHelp, s.helpHandler)
	s.dispatcher.Register(cmdEcho, s.echoHandler)
	s.dispatcher.Register(cmdShow, s.showHandler)
}

// helpHandler handles help and start request.
func (s *Server) helpHandler(_ context.Context, _ []string) (string, error) {
	return helpText, nil
}

// echoHandler repeats its arguments, one per line.
func (s *Server) echoHandler(_ context.Context, args []string) (string, error) {
	return tgbot.EscapeText(strings.Join(args, "\n")), nil
}

// showHandler handles trending repositories request.
func (s *Server) showHandler(ctx context.Context, args []string) (string, error) {
	days := s.setting.DefaultAge

	switch len(args) {
	case 0:
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return "", &command.InvalidCommandError{
				Name:   cmdShow,
				Reason: fmt.Sprintf("%q is not a number of days", args[0]),
			}
		}
		days = n
	default:
		return "", &command.InvalidCommandError{
			Name:   cmdShow,
			Reason: fmt.Sprintf("expected at most one argument, got %d", len(args)),
		}
	}

	repos, err := s.gh.FindTrending(ctx, days, s.setting.TrendingLimit)
	if err != nil {
		return "", err
	}

	return renderRepos(repos), nil
}
