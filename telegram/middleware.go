package telegram

import (
	"errors"
	"github.com/marcsello/joingate-bot/db"
	"gopkg.in/telebot.v3"
	"gorm.io/gorm"
)

const insufficentPermissionMessage = "You may not use this command"

func privateOnlyMiddleware(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(ctx telebot.Context) error {

		if ctx.Chat().Type != telebot.ChatPrivate {
			return ctx.Reply("This command is restricted to private chats!", telebot.ModeDefault)
		}

		return next(ctx)
	}
}

func groupOnlyMiddleware(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(ctx telebot.Context) error {

		if !isGroup(ctx.Chat()) {
			return ctx.Reply("This command only works in groups!", telebot.ModeDefault)
		}

		return next(ctx)
	}
}

func (h *Handlers) adminOnlyMiddleware(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(ctx telebot.Context) error {
		if ctx.Sender() == nil {
			return nil // anonymous group admins and channel posts
		}

		c, cancel := handlerContext()
		defer cancel()

		user, err := h.Repo.GetUserById(c, ctx.Sender().ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// otherwise just ignore
			user = nil
		}

		if user == nil || !user.IsAdmin() {
			return ctx.Reply(insufficentPermissionMessage, telebot.ModeDefault)
		}

		ctx.Set("user", user)
		return next(ctx)
	}
}

func getUserFromContext(ctx telebot.Context) *db.User {
	u, ok := ctx.Get("user").(*db.User)
	if !ok {
		return nil
	}
	return u
}
