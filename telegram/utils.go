package telegram

import "gopkg.in/telebot.v3"

func isGroup(chat *telebot.Chat) bool {
	return chat != nil && (chat.Type == telebot.ChatGroup || chat.Type == telebot.ChatSuperGroup)
}
