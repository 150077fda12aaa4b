package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marcsello/joingate-bot/challenge"
	"github.com/marcsello/joingate-bot/db"
	"github.com/marcsello/joingate-bot/utils"
	log "github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
	"gorm.io/gorm"
)

const (
	handlerTimeout     = 30 * time.Second
	defaultMuteMinutes = 60
	maxMuteMinutes     = 366 * 24 * 60
)

// Handlers holds everything an update handler needs, nothing is kept between updates.
type Handlers struct {
	Challenges *challenge.Service
	Repo       *db.Repo
	Messenger  *Messenger

	// ReportChatID is where /report forwards messages, 0 disables reporting
	ReportChatID int64
}

func handlerContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), handlerTimeout)
}

func (h *Handlers) Setup(bot *telebot.Bot) {
	bot.Handle(telebot.OnChatJoinRequest, h.onJoinRequest)
	bot.Handle(telebot.OnCallback, h.onCallback)

	for _, cmd := range AllCommands() {
		var middlewares []telebot.MiddlewareFunc
		if cmd.PrivateOnly() {
			middlewares = append(middlewares, privateOnlyMiddleware)
		}
		if cmd.GroupOnly() {
			middlewares = append(middlewares, groupOnlyMiddleware)
		}
		if cmd.AdminOnly() {
			middlewares = append(middlewares, h.adminOnlyMiddleware)
		}
		bot.Handle(cmd.Endpoint(), h.dispatch(cmd), middlewares...)
	}
}

func (h *Handlers) dispatch(cmd Command) telebot.HandlerFunc {
	return func(ctx telebot.Context) error {
		switch cmd {
		case CmdStart:
			return cmdStart(ctx)
		case CmdID:
			return cmdId(ctx)
		case CmdWhoami:
			return h.cmdWhoami(ctx)
		case CmdReport:
			return h.cmdReport(ctx)
		case CmdAllowChat:
			return h.cmdAllowChat(ctx)
		case CmdDenyChat:
			return h.cmdDenyChat(ctx)
		case CmdChats:
			return h.cmdChats(ctx)
		case CmdMute:
			return h.cmdMute(ctx)
		case CmdPin:
			return h.cmdPin(ctx)
		case CmdTokens:
			return h.cmdListTokens(ctx)
		case CmdMakeToken:
			return h.cmdMakeToken(ctx)
		case CmdRemoveToken:
			return h.cmdRemoveToken(ctx)
		default:
			return fmt.Errorf("no handler for command %s", cmd)
		}
	}
}

func (h *Handlers) onJoinRequest(ctx telebot.Context) error {
	r := ctx.ChatJoinRequest()
	if r == nil || r.Chat == nil || r.Sender == nil {
		return nil
	}

	c, cancel := handlerContext()
	defer cancel()

	return h.Challenges.HandleJoinRequest(c, challenge.JoinRequest{
		ChatID:    r.Chat.ID,
		UserID:    r.Sender.ID,
		FirstName: r.Sender.FirstName,
	})
}

func (h *Handlers) onCallback(ctx telebot.Context) error {
	q := ctx.Callback()
	if q == nil || q.Sender == nil {
		return nil
	}

	cb := challenge.Callback{
		SenderID: q.Sender.ID,
		Data:     strings.TrimSpace(q.Data),
	}
	if q.Message != nil && q.Message.Chat != nil {
		cb.Message = &challenge.PromptMessage{
			ChatID: q.Message.Chat.ID,
			ID:     q.Message.ID,
			Text:   q.Message.Text,
		}
	}

	c, cancel := handlerContext()
	defer cancel()

	return h.Challenges.HandleCallback(c, cb)
}

func cmdStart(ctx telebot.Context) error {
	return ctx.Send("Hi there! Add me to a group as an admin allowed to invite users, turn on join requests, "+
		"then let one of my admins /allowchat there. Everyone who asks to join will have to solve a little sum first.",
		telebot.ModeDefault)
}

func cmdId(ctx telebot.Context) error {

	text := fmt.Sprintf("The ID of this chat: %d\nType: %s\n\nID of sender: %d",
		ctx.Chat().ID,
		ctx.Chat().Type,
		ctx.Sender().ID,
	)

	return ctx.Reply(text, telebot.ModeDefault)
}

func (h *Handlers) cmdWhoami(ctx telebot.Context) error {
	c, cancel := handlerContext()
	defer cancel()

	user, err := h.Repo.GetUserById(c, ctx.Sender().ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return ctx.Reply("Sorry, I don't know you.", telebot.ModeDefault)
	}

	user.FirstName = ctx.Sender().FirstName
	user.LastName = ctx.Sender().LastName
	user.Username = ctx.Sender().Username
	if err = h.Repo.UpdateUserNames(c, user); err != nil {
		log.WithError(err).Warn("BOT: could not refresh user names")
	}

	msg := fmt.Sprintf("You are %s.", user.Greet())
	if user.IsAdmin() {
		msg += "\nYou are an admin!"
	}
	return ctx.Reply(msg, telebot.ModeDefault)
}

func (h *Handlers) cmdReport(ctx telebot.Context) error {
	if h.ReportChatID == 0 {
		return ctx.Reply("Reporting is not set up.", telebot.ModeDefault)
	}

	target := ctx.Message().ReplyTo
	if target == nil {
		return ctx.Reply("Reply to the message you want to report with /report", telebot.ModeDefault)
	}

	reportChat := &telebot.Chat{ID: h.ReportChatID}
	_, err := ctx.Bot().Forward(reportChat, target)
	if err != nil {
		return err
	}

	note := fmt.Sprintf("Reported by %d in %s (%d)", ctx.Sender().ID, ctx.Chat().Title, ctx.Chat().ID)
	_, err = ctx.Bot().Send(reportChat, note, telebot.ModeDefault)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"chat": ctx.Chat().ID, "user": ctx.Sender().ID, "message": target.ID}).Info("BOT: message reported")
	return ctx.Reply("Thanks, the admins have been notified.", telebot.ModeDefault)
}

func (h *Handlers) cmdAllowChat(ctx telebot.Context) error {
	user := getUserFromContext(ctx)
	if user == nil {
		return fmt.Errorf("could not get user")
	}

	c, cancel := handlerContext()
	defer cancel()

	err := h.Repo.AllowChat(c, &db.Chat{
		ID:        ctx.Chat().ID,
		Title:     ctx.Chat().Title,
		AddedByID: user.ID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ctx.Reply("Join requests of this chat are already moderated.", telebot.ModeDefault)
		}
		return err
	}

	log.Println("BOT: Chat allowed: ", user.Greet(), " -- c:", ctx.Chat().ID)
	return ctx.Reply("From now on, people asking to join this chat have to solve a quiz.", telebot.ModeDefault)
}

func (h *Handlers) cmdDenyChat(ctx telebot.Context) error {
	chatID := ctx.Chat().ID
	if len(ctx.Args()) == 1 {
		var err error
		chatID, err = strconv.ParseInt(ctx.Args()[0], 10, 64)
		if err != nil {
			return ctx.Reply("Usage: /denychat [Chat ID]", telebot.ModeDefault)
		}
	} else if ctx.Chat().Type == telebot.ChatPrivate {
		return ctx.Reply("Usage: /denychat <Chat ID>", telebot.ModeDefault)
	}

	c, cancel := handlerContext()
	defer cancel()

	err := h.Repo.DisallowChat(c, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Reply("This chat is not moderated.", telebot.ModeDefault)
		}
		return err
	}

	log.Println("BOT: Chat disallowed: ", ctx.Sender().ID, " -- c:", chatID)
	return ctx.Reply("Join requests of this chat are no longer moderated.", telebot.ModeDefault)
}

func (h *Handlers) cmdChats(ctx telebot.Context) error {
	c, cancel := handlerContext()
	defer cancel()

	chats, err := h.Repo.GetAllChats(c)
	if err != nil {
		return err
	}

	if len(chats) == 0 {
		return ctx.Reply("No chats are moderated.", telebot.ModeDefault)
	}

	msg := "Moderated chats:\n"
	for _, ch := range chats {
		msg += fmt.Sprintf(" - %s (%d)\n", ch.Title, ch.ID)
	}
	return ctx.Reply(msg, telebot.ModeDefault)
}

func (h *Handlers) cmdMute(ctx telebot.Context) error {
	target := ctx.Message().ReplyTo
	if target == nil || target.Sender == nil {
		return ctx.Reply("Reply to a message of the member to mute: /mute [minutes]", telebot.ModeDefault)
	}

	minutes := defaultMuteMinutes
	if len(ctx.Args()) == 1 {
		var err error
		minutes, err = strconv.Atoi(ctx.Args()[0])
		if err != nil || minutes <= 0 || minutes > maxMuteMinutes {
			return ctx.Reply("Invalid number of minutes!", telebot.ModeDefault)
		}
	}

	c, cancel := handlerContext()
	defer cancel()

	until := time.Now().Add(time.Duration(minutes) * time.Minute)
	err := h.Messenger.Restrict(c, ctx.Chat().ID, target.Sender.ID, until)
	if err != nil {
		return err
	}

	log.Println("BOT: Member muted: ", ctx.Sender().ID, " -- c:", ctx.Chat().ID, " -- u:", target.Sender.ID, " -- m:", minutes)
	return ctx.Reply(fmt.Sprintf("Muted for %d minutes.", minutes), telebot.ModeDefault)
}

// cmdPin pins the replied message, or the command itself when it is not a reply
func (h *Handlers) cmdPin(ctx telebot.Context) error {
	messageID := ctx.Message().ID
	if target := ctx.Message().ReplyTo; target != nil {
		messageID = target.ID
	}

	c, cancel := handlerContext()
	defer cancel()

	err := h.Messenger.Pin(c, ctx.Chat().ID, messageID)
	if err != nil {
		return err
	}

	log.Println("BOT: Message pinned: ", ctx.Sender().ID, " -- c:", ctx.Chat().ID, " -- m:", messageID)
	return nil
}

func (h *Handlers) cmdListTokens(ctx telebot.Context) error {
	c, cancel := handlerContext()
	defer cancel()

	tokens, err := h.Repo.GetAllTokens(c)
	if err != nil {
		return err
	}

	msg := "Currently active tokens:\n"
	for _, token := range tokens {
		lastUsedStr := "Never"
		if token.LastUsed != nil {
			lastUsedStr = token.LastUsed.Format("2006-01-02 15:04:05")
		}

		msg += fmt.Sprintf("- %s\n  <b>created</b>: %s\n  <b>last used</b>: %s\n\n",
			token.Name,
			token.CreatedAt.Format("2006-01-02 15:04:05"),
			lastUsedStr,
		)
	}

	return ctx.Reply(msg, telebot.ModeHTML)
}

func (h *Handlers) cmdMakeToken(ctx telebot.Context) error {
	if len(ctx.Args()) != 1 {
		return ctx.Reply("Usage: /mktoken <Token name>", telebot.ModeDefault)
	}

	tName := strings.TrimSpace(ctx.Args()[0])

	if !utils.IsValidTokenName(tName) {
		return ctx.Reply("Invalid token name!", telebot.ModeDefault)
	}

	newTokenStr, err := utils.GenerateRandomString(48)
	if err != nil {
		return err
	}

	c, cancel := handlerContext()
	defer cancel()

	err = h.Repo.CreateToken(c, &db.Token{
		Name:      tName,
		TokenHash: utils.TokenHash(newTokenStr),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ctx.Reply("This name is already in use!", telebot.ModeDefault)
		}
		return err
	}
	message := fmt.Sprintf("<b>New token created!</b>\n<b>Name:</b> %s\n<b>token:</b><pre>%s</pre>\n\n<i>Keep this token a secret, delete this message if possible!</i>", tName, newTokenStr)

	log.Println("BOT: Token created: ", ctx.Sender().ID, " -- t:", tName)
	return ctx.Reply(message, telebot.ModeHTML)
}

func (h *Handlers) cmdRemoveToken(ctx telebot.Context) error {
	if len(ctx.Args()) != 1 {
		return ctx.Reply("Usage: /rmtoken <Token name>", telebot.ModeDefault)
	}

	tName := strings.TrimSpace(ctx.Args()[0])

	if !utils.IsValidTokenName(tName) {
		return ctx.Reply("Invalid token name!", telebot.ModeDefault)
	}

	c, cancel := handlerContext()
	defer cancel()

	err := h.Repo.DeleteTokenByName(c, tName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Reply("Token not found: " + tName + "!")
		}
		return err
	}

	log.Println("BOT: Token deleted: ", ctx.Sender().ID, " -- t:", tName)
	return ctx.Reply("Token "+tName+" deleted!", telebot.ModeDefault)

}
