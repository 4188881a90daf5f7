package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"teamsync/models"
)

func TestChannelIDSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"p1", "p2"},
		{"alpha", "beta"},
		{"z9", "a1"},
		{"same", "same"},
	}
	for _, pair := range pairs {
		assert.Equal(t, ChannelID(pair[0], pair[1]), ChannelID(pair[1], pair[0]))
	}
}

func TestChannelIDDeterministic(t *testing.T) {
	assert.Equal(t, "p1_p2", ChannelID("p1", "p2"))
	assert.Equal(t, "p1_p2", ChannelID("p2", "p1"))
	assert.Equal(t, "a1_z9", ChannelID("z9", "a1"))
}

func TestChannelIDDistinctPeers(t *testing.T) {
	assert.NotEqual(t, ChannelID("p1", "p2"), ChannelID("p1", "p3"))
	assert.NotEqual(t, ChannelID("p1", "p2"), ChannelID("p2", "p3"))
}

func TestContextCurrent(t *testing.T) {
	user := models.User{Code: "p1", Name: "Player One"}
	ctx := NewContext(user)
	assert.Equal(t, user, ctx.Current())
}
