package moderation

import (
	"dm-lab/errors"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll_Deduplicates(t *testing.T) {
	req := require.New(t)
	files := fstest.MapFS{
		"words/en.txt":       {Data: []byte("badger\r\nsnake\n\n# comment\n")},
		"words/fr.txt":       {Data: []byte("  blaireau \nbadger\n")},
		"words/README.md":    {Data: []byte("not a dictionary")},
		"words/nested/x.txt": {Data: []byte("ignored")},
	}

	data, err := NewCensoredLoader(files).LoadAll("words")
	req.NoError(err)
	req.Equal([]string{"badger", "blaireau", "snake"}, data.Words)
	req.ElementsMatch([]string{"en", "fr"}, data.Languages)
}

func TestCensoredLoader_LoadAll_Empty(t *testing.T) {
	req := require.New(t)
	files := fstest.MapFS{"words/en.txt": {Data: []byte("\n# nothing\n")}}

	_, err := NewCensoredLoader(files).LoadAll("words")
	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestEmbeddedLoader_Feeds_Moderator(t *testing.T) {
	req := require.New(t)
	data, err := NewEmbeddedLoader().LoadAll(CensoredDir)
	req.NoError(err)
	req.Contains(data.Languages, "en")

	mod, err := NewModerator(data.Words, replacementChar, logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(err)
	content, words := mod.Censor("well, $h!t happens")
	req.Equal("well, **** happens", content)
	req.Equal([]string{"shit"}, words)
}
