package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_UnmarshalKeepsOpaqueFields(t *testing.T) {
	in := `{"id":"6f1c","email":"a@b.com","name":"Ann","plan":"pro","is_active":true,"created_at":"2024-01-01T00:00:00"}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(in), &u))

	assert.Equal(t, "6f1c", u.ID)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "pro", u.StringField("plan"))

	raw, ok := u.Field("is_active")
	require.True(t, ok)
	assert.JSONEq(t, `true`, string(raw))

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestUser_NumericIDPreserved(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"email":"a@b.com"}`), &u))
	assert.Equal(t, "1", u.ID)

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"email":"a@b.com","name":""}`, string(out))
}

func TestUser_ChangedFieldsWin(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"email":"a@b.com","name":"A"}`), &u))
	u.ID = "u-2"
	u.Name = "B"

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u-2","email":"a@b.com","name":"B"}`, string(out))
}

func TestUser_MarshalWithoutExtra(t *testing.T) {
	out, err := json.Marshal(User{ID: "x", Email: "e@x.io", Name: "N"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","email":"e@x.io","name":"N"}`, string(out))
}

func TestUser_UnmarshalRejectsGarbage(t *testing.T) {
	var u User
	require.Error(t, json.Unmarshal([]byte(`{"id":{"nested":1}}`), &u))
	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &u))
}

func TestUser_CloneIsDeep(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","email":"a@b.com","plan":"free"}`), &u))

	c := u.Clone()
	c.Email = "changed@b.com"
	c.extra["plan"][1] = 'X'

	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, "free", u.StringField("plan"))
	assert.Nil(t, (*User)(nil).Clone())
}
