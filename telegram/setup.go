package telegram

import (
	log "github.com/sirupsen/logrus"
	"gitlab.com/MikeTTh/env"
	"gopkg.in/telebot.v3"
)

// NewBot creates the webhook driven bot. Handlers are attached by Handlers.Setup.
func NewBot(debug bool) (*telebot.Bot, error) {
	return telebot.NewBot(telebot.Settings{
		Token: env.StringOrPanic("TELEGRAM_TOKEN"),
		Poller: &telebot.Webhook{
			Listen:         env.String("WEBHOOK_BIND", ":8080"),
			AllowedUpdates: []string{"message", "callback_query", "chat_join_request"},
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: env.StringOrPanic("WEBHOOK_PUBLIC_URL"),
			},
		},
		Verbose: debug,
		OnError: onError,
	})
}

func onError(err error, ctx telebot.Context) {
	entry := log.WithError(err)
	if ctx != nil {
		if ctx.Chat() != nil {
			entry = entry.WithField("chat", ctx.Chat().ID)
		}
		if ctx.Sender() != nil {
			entry = entry.WithField("user", ctx.Sender().ID)
		}
	}
	entry.Error("BOT: handler failed")
}
