package main

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	dg, err := newSession("test-token")
	require.NoError(t, err)

	assert.Equal(t, "Bot test-token", dg.Token)
	for name, intent := range map[string]discordgo.Intent{
		"guilds":          discordgo.IntentsGuilds,
		"guild_messages":  discordgo.IntentsGuildMessages,
		"direct_messages": discordgo.IntentsDirectMessages,
		"message_content": discordgo.IntentsMessageContent,
	} {
		assert.NotZero(t, dg.Identify.Intents&intent, "missing intent %s", name)
	}
	assert.Zero(t, dg.Identify.Intents&discordgo.IntentsGuildVoiceStates)
}
