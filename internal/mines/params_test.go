package mines

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want GameParams
		ok   bool
	}{
		{"12x10", GameParams{Height: 10, Width: 12}, true},
		{" 8 x 6 ", GameParams{Height: 6, Width: 8}, true},
		{"24x4", GameParams{Height: 4, Width: 24}, true},
		{"abcx5", GameParams{}, false},
		{"5xabc", GameParams{}, false},
		{"5", GameParams{}, false},
		{"x", GameParams{}, false},
		{"5x5x5", GameParams{}, false},
		{"", GameParams{}, false},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			p, err := ParseSize(test.text)
			if !test.ok {
				var sizeErr *InvalidSizeError
				require.ErrorAs(t, err, &sizeErr)
				assert.Equal(t, Malformed, sizeErr.Reason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, p)
			assert.Equal(t, test.want, mustParse(t, p.Size()))
		})
	}
}

func mustParse(t *testing.T, s string) GameParams {
	p, err := ParseSize(s)
	require.NoError(t, err)
	return p
}

func TestNewGameRejectsMalformedSize(t *testing.T) {
	t.Parallel()

	p, err := ParseSize("abcx5")
	require.Error(t, err)

	var sizeErr *InvalidSizeError
	assert.True(t, errors.As(err, &sizeErr))
	assert.Equal(t, GameParams{}, p)
	assert.Equal(t, `invalid board size "abcx5"`, err.Error())
}

func TestValidateBounds(t *testing.T) {
	t.Parallel()

	bounds := SquareBounds(10, 24)
	game, err := NewGame(mustParse(t, "9x9"), bounds, newRand(1))
	assert.Nil(t, game)

	var sizeErr *InvalidSizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, OutOfBounds, sizeErr.Reason)
	assert.Equal(t, "board length must be between 10 and 24", err.Error())

	split := Bounds{MinHeight: 4, MaxHeight: 8, MinWidth: 4, MaxWidth: 30}
	assert.NoError(t, split.Validate(GameParams{Height: 8, Width: 30}))
	err = split.Validate(GameParams{Height: 9, Width: 30})
	require.ErrorAs(t, err, &sizeErr)
	assert.Contains(t, err.Error(), "height must be between 4 and 8")

	assert.NoError(t, DefaultBounds().Validate(GameParams{Height: 4, Width: 4}))
	assert.NoError(t, DefaultBounds().Validate(GameParams{Height: 24, Width: 24}))
	assert.Error(t, DefaultBounds().Validate(GameParams{Height: 25, Width: 24}))
}

func TestValidateCrowded(t *testing.T) {
	t.Parallel()

	bounds := SquareBounds(0, 24)
	tests := []struct {
		params GameParams
		fits   bool
	}{
		{GameParams{Height: 3, Width: 3}, false},
		{GameParams{Height: 2, Width: 3}, false},
		{GameParams{Height: 2, Width: 2}, true},
		{GameParams{Height: 1, Width: 3}, true},
		{GameParams{Height: 3, Width: 4}, true},
		{GameParams{Height: 0, Width: 5}, true},
	}
	for _, test := range tests {
		err := bounds.Validate(test.params)
		if test.fits {
			assert.NoError(t, err, test.params.Size())
			continue
		}
		var sizeErr *InvalidSizeError
		if assert.ErrorAs(t, err, &sizeErr, test.params.Size()) {
			assert.Equal(t, Crowded, sizeErr.Reason)
		}
	}
}

func TestBoundsCheck(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultBounds().Check())
	assert.Error(t, SquareBounds(10, 4).Check())
	assert.Error(t, SquareBounds(-1, 4).Check())
}

func TestSeed(t *testing.T) {
	t.Parallel()

	p := GameParams{Height: 16, Width: 30}
	assert.Equal(t, "16:30", p.Seed())

	parsed, err := ParseSeed(p.Seed())
	require.NoError(t, err)
	assert.Equal(t, p, *parsed)

	_, err = ParseSeed("16")
	assert.Error(t, err)
}
