package challenge

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/marcsello/joingate-bot/quiz"
)

// renderPrompt builds the HTML text of the prompt. The encoded quiz must stay
// on the last line, it is parsed back from the delivered message when the
// answer arrives.
func renderPrompt(req JoinRequest, q quiz.Quiz, window time.Duration) string {
	name := strings.TrimSpace(req.FirstName)
	if name == "" {
		name = "there"
	}
	mention := fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, req.UserID, html.EscapeString(name))

	minutes := max(int(window.Minutes()), 1)

	return fmt.Sprintf("Hi %s!\nTo join this group, pick the result of the sum below within %d minutes.\n%s",
		mention,
		minutes,
		q.Encode(),
	)
}

func lastLine(text string) string {
	text = strings.TrimRight(text, "\r\n")
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	return strings.TrimSpace(text)
}
