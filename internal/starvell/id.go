package starvell

import (
	"encoding/json"
	"strings"
)

// ID is an upstream identifier. Starvell responses are inconsistent about
// whether ids arrive as JSON strings or numbers, so ID accepts both and
// normalizes to a trimmed string. The zero value means "absent".
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" || s == "true" || s == "false" {
		*id = ""
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*id = ""
		return nil
	}
	*id = ID(n.String())
	return nil
}

func (id ID) Empty() bool { return id == "" }

func (id ID) String() string { return string(id) }
