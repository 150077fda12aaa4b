package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

func TestCommands_Endpoints(t *testing.T) {
	seen := make(map[string]Command)
	for _, cmd := range AllCommands() {
		ep := cmd.Endpoint()
		require.Regexp(t, `^/[a-z]+$`, ep)

		prev, dup := seen[ep]
		require.False(t, dup, "%d and %d share the endpoint %s", prev, cmd, ep)
		seen[ep] = cmd
	}
	require.Len(t, seen, int(numCommands))
}

func TestCommands_Flags(t *testing.T) {
	require.False(t, CmdStart.AdminOnly())
	require.False(t, CmdReport.AdminOnly())
	require.True(t, CmdAllowChat.AdminOnly())
	require.True(t, CmdRemoveToken.AdminOnly())
	require.True(t, CmdPin.AdminOnly())
	require.True(t, CmdPin.GroupOnly())
	require.Equal(t, "/pin", CmdPin.Endpoint())

	for _, cmd := range AllCommands() {
		require.False(t, cmd.PrivateOnly() && cmd.GroupOnly(), "%s can not be both private and group only", cmd)
		if cmd.PrivateOnly() {
			require.True(t, cmd.AdminOnly(), "%s handles tokens, must be admin only", cmd)
		}
	}
}

func TestCommand_StringOutOfRange(t *testing.T) {
	require.Equal(t, "Command(-1)", Command(-1).String())
	require.Equal(t, "Command(99)", Command(99).String())
	require.False(t, Command(99).AdminOnly())
}

func TestIsGroup(t *testing.T) {
	require.True(t, isGroup(&telebot.Chat{Type: telebot.ChatGroup}))
	require.True(t, isGroup(&telebot.Chat{Type: telebot.ChatSuperGroup}))
	require.False(t, isGroup(&telebot.Chat{Type: telebot.ChatPrivate}))
	require.False(t, isGroup(&telebot.Chat{Type: telebot.ChatChannel}))
	require.False(t, isGroup(nil))
}
