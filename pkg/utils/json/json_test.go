package json

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func TestMarshalUnmarshal(t *testing.T) {
	in := []chatMessage{
		{Role: "user", Content: "What are your opening hours?"},
		{Role: "assistant", Content: "We open at 9am on weekdays."},
	}

	data, err := Marshal(in)
	require.NoError(t, err)

	var out []chatMessage
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestUnmarshalInvalid(t *testing.T) {
	var out chatMessage
	err := Unmarshal([]byte(`{"role": `), &out)
	assert.Error(t, err)
}

func TestEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer

	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode(chatMessage{Role: "user", Content: "hi"}))

	var out chatMessage
	dec := NewDecoder(&buf)
	require.NoError(t, dec.Decode(&out))
	assert.Equal(t, "user", out.Role)
	assert.Equal(t, "hi", out.Content)
}
