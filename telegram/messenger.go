package telegram

import (
	"context"
	"strconv"
	"time"

	"gopkg.in/telebot.v3"
)

// Messenger performs the chat side effects of the challenge flow.
// telebot has no context support, ctx is only checked before each call.
type Messenger struct {
	bot *telebot.Bot
}

func NewMessenger(bot *telebot.Bot) *Messenger {
	return &Messenger{bot: bot}
}

// SendPrompt sends text with one row of inline buttons, each button's
// callback data is the choice itself.
func (m *Messenger) SendPrompt(ctx context.Context, chatID int64, text string, choices []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	row := make([]telebot.InlineButton, len(choices))
	for i, c := range choices {
		row[i] = telebot.InlineButton{Text: c, Data: c}
	}
	markup := &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{row}}

	msg, err := m.bot.Send(&telebot.Chat{ID: chatID}, text, telebot.ModeHTML, markup)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (m *Messenger) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.bot.Delete(&telebot.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID})
}

func (m *Messenger) ApproveJoin(ctx context.Context, chatID, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.bot.ApproveJoinRequest(&telebot.Chat{ID: chatID}, &telebot.User{ID: userID})
}

func (m *Messenger) DeclineJoin(ctx context.Context, chatID, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.bot.DeclineJoinRequest(&telebot.Chat{ID: chatID}, &telebot.User{ID: userID})
}

// Restrict takes every right away from the member until the given time
func (m *Messenger) Restrict(ctx context.Context, chatID, userID int64, until time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.bot.Restrict(&telebot.Chat{ID: chatID}, &telebot.ChatMember{
		User:            &telebot.User{ID: userID},
		Rights:          telebot.NoRights(),
		RestrictedUntil: until.Unix(),
	})
}

// Pin pins a message of the chat without notifying the members
func (m *Messenger) Pin(ctx context.Context, chatID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.bot.Pin(&telebot.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}, telebot.Silent)
}
