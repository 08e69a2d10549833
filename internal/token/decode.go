// Package token decodes the token stream that rachet-compiler reads from
// stdin.
//
// The stream is a JSON array of {command, args, line} objects. Comments
// and trailing commas are tolerated: the input goes through
// github.com/tidwall/jsonc before being parsed with encoding/json, the
// same way devcontainer-style JSONC files are usually handled.
package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/rachet/internal/model"
)

// ErrEmptyInput is returned when the input is empty or whitespace only.
var ErrEmptyInput = errors.New("no JSON input provided via stdin")

// Field names of a token object. They are matched exactly.
const (
	fieldCommand = "command"
	fieldArgs    = "args"
	fieldLine    = "line"
)

// Read consumes r to EOF and decodes its contents.
func Read(r io.Reader) ([]model.Token, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read token stream: %w", err)
	}
	return Decode(data)
}

// Decode parses a JSON (or JSONC) array of tokens.
//
// Unknown object keys are ignored. Known keys are matched case-sensitively
// and may appear only once per object. A missing "command", "args" or
// "line" key is an error that names the key and the array index.
func Decode(data []byte) ([]model.Token, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &raws); err != nil {
		return nil, err
	}
	// A top-level null unmarshals into a nil slice without error.
	if raws == nil {
		return nil, errors.New("expected a JSON array of tokens, found null")
	}

	tokens := make([]model.Token, 0, len(raws))
	for i, raw := range raws {
		tok, err := decodeToken(raw)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func decodeToken(raw json.RawMessage) (model.Token, error) {
	fields, err := objectFields(raw)
	if err != nil {
		return model.Token{}, err
	}

	var tok model.Token
	if err := decodeField(fields, fieldCommand, &tok.Command); err != nil {
		return model.Token{}, err
	}
	if err := decodeField(fields, fieldArgs, &tok.Args); err != nil {
		return model.Token{}, err
	}
	if err := decodeField(fields, fieldLine, &tok.Line); err != nil {
		return model.Token{}, err
	}
	return tok, nil
}

// objectFields splits a JSON object into its members, rejecting duplicate
// keys. A null element yields no fields.
func objectFields(raw json.RawMessage) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	open, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, nil
	}
	if open != json.Delim('{') {
		return nil, fmt.Errorf("expected an object, found %s", bytes.TrimSpace(raw))
	}

	fields := make(map[string]json.RawMessage)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		if _, dup := fields[key]; dup {
			return nil, fmt.Errorf("duplicate field `%s`", key)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields[key] = value
	}
	return fields, nil
}

// decodeField unmarshals the member named name into dst. The member must be
// present and must not be null.
func decodeField(fields map[string]json.RawMessage, name string, dst any) error {
	value, ok := fields[name]
	if !ok {
		return fmt.Errorf("missing field `%s`", name)
	}
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return fmt.Errorf("field `%s` must not be null", name)
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("field `%s`: %w", name, err)
	}
	return nil
}
