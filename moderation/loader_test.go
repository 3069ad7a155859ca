package moderation

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"parley/errors"
)

func TestLoadCensored(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"censored/en.txt": {Data: []byte("badger\nsnake\n\nbadger\n")},
		"censored/fr.txt": {Data: []byte("blaireau\r\nserpent\r\n")},
	}

	data, err := LoadCensored(fsys, "censored")

	req.NoError(err)
	req.ElementsMatch([]string{"en", "fr"}, data.Languages)
	req.ElementsMatch([]string{"badger", "snake", "blaireau", "serpent"}, data.Words)
}

func TestLoadCensored_EmptyDictionaries(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"censored/en.txt": {Data: []byte("\n\n")},
	}

	_, err := LoadCensored(fsys, "censored")

	req.ErrorIs(err, errors.ErrEmptyWords)
}
