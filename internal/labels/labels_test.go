package labels

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTopic(t *testing.T) {
	name, err := ConvertTopic("7")
	require.NoError(t, err)
	assert.Equal(t, "Health", name)

	name, err = ConvertTopic("10")
	require.NoError(t, err)
	assert.Equal(t, "Finance", name)
}

func TestConvertTopicUnknown(t *testing.T) {
	_, err := ConvertTopic("99")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCode))

	_, err = ConvertTopic("")
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestConvertAction(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"1", "inform"},
		{"2", "question"},
		{"3", "directive"},
		{"4", "commissive"},
	}
	for _, tt := range tests {
		got, err := ConvertAction(tt.code)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ConvertAction("5")
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestEmotionName(t *testing.T) {
	name, err := EmotionName(4)
	require.NoError(t, err)
	assert.Equal(t, "happiness", name)

	_, err = EmotionName(7)
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestListingsAreOrderedByCode(t *testing.T) {
	topics := Topics()
	require.Len(t, topics, 10)
	assert.Equal(t, "1", topics[0].Code)
	assert.Equal(t, "10", topics[9].Code)
	assert.Equal(t, "Finance", topics[9].Name)

	acts := Actions()
	require.Len(t, acts, 4)
	assert.Equal(t, "commissive", acts[3].Name)

	emos := Emotions()
	require.Len(t, emos, 7)
	assert.Equal(t, "0", emos[0].Code)
	assert.Equal(t, "surprise", emos[6].Name)
}
