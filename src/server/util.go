package server

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/HTYISABUG/tgbot-github-trending/src/ghapi"
	"github.com/HTYISABUG/tgbot-github-trending/src/tgbot"
)

func repo2text(repo ghapi.Repo) string {
	suffix := fmt.Sprintf("%d ★", repo.StarCount)
	if repo.Language != nil {
		suffix = tgbot.EscapeText(*repo.Language) + ", " + suffix
	}

	return fmt.Sprintf(
		"%s - %s [%s]",
		tgbot.InlineLink(tgbot.EscapeText(repo.Name), tgbot.EscapeText(repo.URL)),
		tgbot.EscapeText(repo.Description),
		suffix,
	)
}

// renderRepos formats repos as HTML, one paragraph per repository.
// Repositories that would push the message past tgbot.MaxTextLength are left out.
func renderRepos(repos []ghapi.Repo) string {
	const sep = "\n\n"

	lines := make([]string, 0, len(repos))
	length := 0
	for _, r := range repos {
		line := repo2text(r)

		n := textLength(line)
		if len(lines) > 0 {
			n += len(sep)
		}
		if length+n > tgbot.MaxTextLength {
			break
		}

		lines = append(lines, line)
		length += n
	}

	return strings.Join(lines, sep)
}

// textLength counts s in UTF-16 code units, markup included.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
