// Package models defines the client-side data carried between the API
// gateway, the credential store and the session manager.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// User is the account record returned by the auth endpoints. Only the
// identifier, e-mail and display name are interpreted by the client; every
// other field the server sends (plan, is_active, timestamps, ...) is kept
// verbatim and written back unchanged when the record is cached.
type User struct {
	ID    string
	Email string
	Name  string

	extra map[string]json.RawMessage
}

type userWire struct {
	ID    json.RawMessage `json:"id"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
}

func (u *User) UnmarshalJSON(b []byte) error {
	var w userWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}

	id, err := decodeID(w.ID)
	if err != nil {
		return err
	}

	u.ID = id
	u.Email = w.Email
	u.Name = w.Name
	u.extra = all
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(u.extra)+3)
	for k, v := range u.extra {
		out[k] = v
	}

	// the server may use numeric ids; keep the original encoding when it
	// still describes the same id.
	if raw, ok := u.extra["id"]; !ok || !sameID(raw, u.ID) {
		b, err := json.Marshal(u.ID)
		if err != nil {
			return nil, err
		}
		out["id"] = b
	}

	email, err := json.Marshal(u.Email)
	if err != nil {
		return nil, err
	}
	name, err := json.Marshal(u.Name)
	if err != nil {
		return nil, err
	}
	out["email"] = email
	out["name"] = name

	return json.Marshal(out)
}

// Field returns the raw JSON of a field the client does not model.
func (u *User) Field(name string) (json.RawMessage, bool) {
	v, ok := u.extra[name]
	return v, ok
}

// StringField is Field for string-valued attributes such as "plan".
func (u *User) StringField(name string) string {
	raw, ok := u.extra[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Clone returns a deep copy so snapshots handed out by the session manager
// cannot be mutated by callers.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := &User{ID: u.ID, Email: u.Email, Name: u.Name}
	if u.extra != nil {
		c.extra = make(map[string]json.RawMessage, len(u.extra))
		for k, v := range u.extra {
			c.extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("user id: %w", err)
	}
	return n.String(), nil
}

func sameID(raw json.RawMessage, id string) bool {
	got, err := decodeID(raw)
	if err != nil {
		return false
	}
	if got == id {
		return true
	}
	// 1 and 1.0 are the same numeric id
	a, errA := strconv.ParseFloat(got, 64)
	b, errB := strconv.ParseFloat(id, 64)
	return errA == nil && errB == nil && a == b
}
