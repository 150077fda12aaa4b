package telegram

import "fmt"

// Command enumerates every chat command the bot understands.
type Command int

const (
	CmdStart Command = iota
	CmdID
	CmdWhoami
	CmdReport

	// admin commands from here

	CmdAllowChat
	CmdDenyChat
	CmdChats
	CmdMute
	CmdPin
	CmdTokens
	CmdMakeToken
	CmdRemoveToken

	numCommands
)

var commandNames = [numCommands]string{
	CmdStart:       "start",
	CmdID:          "id",
	CmdWhoami:      "whoami",
	CmdReport:      "report",
	CmdAllowChat:   "allowchat",
	CmdDenyChat:    "denychat",
	CmdChats:       "chats",
	CmdMute:        "mute",
	CmdPin:         "pin",
	CmdTokens:      "tokens",
	CmdMakeToken:   "mktoken",
	CmdRemoveToken: "rmtoken",
}

func AllCommands() []Command {
	cmds := make([]Command, numCommands)
	for i := range cmds {
		cmds[i] = Command(i)
	}
	return cmds
}

func (c Command) String() string {
	if c < 0 || c >= numCommands {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commandNames[c]
}

// Endpoint is what telebot routes the command by
func (c Command) Endpoint() string {
	return "/" + c.String()
}

func (c Command) AdminOnly() bool {
	return c >= CmdAllowChat && c < numCommands
}

// PrivateOnly commands may leak secrets, so they are not accepted in groups
func (c Command) PrivateOnly() bool {
	switch c {
	case CmdTokens, CmdMakeToken, CmdRemoveToken:
		return true
	default:
		return false
	}
}

// GroupOnly commands act on the chat they were sent in
func (c Command) GroupOnly() bool {
	switch c {
	case CmdAllowChat, CmdMute, CmdPin, CmdReport:
		return true
	default:
		return false
	}
}
