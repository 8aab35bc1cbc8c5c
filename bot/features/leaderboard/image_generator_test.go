package leaderboard

import (
	"bytes"
	"image/png"
	"testing"

	"guildledger/application/dto"
	"guildledger/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ProducesPNG(t *testing.T) {
	gen := NewImageGenerator()
	rows := []Row{
		{Rank: 1, Name: "alice", Balance: 1_250_000},
		{Rank: 2, Name: "bob", Balance: 48_000},
		{Rank: 3, Name: "carol", Balance: 1_198},
		{Rank: 4, Name: "a very long display name that will not fit", Balance: 10},
	}

	data, err := gen.Generate(rows)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, gen.style.Width, img.Bounds().Dx())
	assert.Equal(t, int(gen.style.HeaderY)+30+len(rows)*gen.style.RowHeight, img.Bounds().Dy())
}

func TestGenerate_EmptyUsesMinimumHeight(t *testing.T) {
	gen := NewImageGenerator()

	data, err := gen.Generate(nil)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, gen.style.MinHeight, img.Bounds().Dy())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "alice", truncate("alice", 10))
	assert.Equal(t, "abcdefghi…", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ünïcödé", truncate("ünïcödé", 7))
}

func TestTextBoard(t *testing.T) {
	text := textBoard(&dto.LeaderboardDTO{
		Currency: "🍀",
		Entries: []entities.LeaderboardEntry{
			{Rank: 1, UserID: 10, Balance: 1198},
			{Rank: 2, UserID: 20, Balance: 900},
		},
	})

	assert.Equal(t, "**1.** <@10> **🍀1,198**\n**2.** <@20> **🍀900**", text)
}
