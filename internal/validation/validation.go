// Package validation translates between the wire representation of a
// persona (an untyped JSON object) and types.Persona.
//
// Field constraints are declared once, as a table of rule records, and
// checked by go-playground/validator:
//
//	nombre  string  min=3
//	delito  string  min=10
//
// Create requires every field in the table. Update accepts any subset and
// merges only the supplied fields. Keys not in the table (including "id")
// are ignored.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/aanand-mishra/personas-api/internal/types"
)

// Wire keys.
const (
	KeyID      = "id"
	KeyName    = "nombre"
	KeyOffense = "delito"

	// KeySchema collects errors that concern the payload as a whole.
	KeySchema = "_schema"
)

// Messages reported per field.
const (
	MsgMissing     = "Missing data for required field."
	MsgNull        = "Field may not be null."
	MsgNotString   = "Not a valid string."
	MsgInvalid     = "Invalid value."
	MsgNoInput     = "No input data provided."
	MsgInvalidJSON = "Invalid JSON."
	MsgInvalidType = "Invalid input type."
)

// maxPayloadBytes caps how much of a request body ParsePayload will read.
const maxPayloadBytes = 1 << 20

// FieldRule is the declarative constraint record for one wire field.
type FieldRule struct {
	Key string // wire key, e.g. "nombre"
	Tag string // validator tag applied to the string value, e.g. "min=3"

	set func(p *types.Persona, value string)
}

// PersonaRules is the constraint table for a persona payload.
var PersonaRules = []FieldRule{
	{Key: KeyName, Tag: "min=3", set: func(p *types.Persona, v string) { p.Name = v }},
	{Key: KeyOffense, Tag: "min=10", set: func(p *types.Persona, v string) { p.Offense = v }},
}

// validate is safe for concurrent use and caches parsed tags.
var validate = validator.New()

// ValidationError maps each offending field to its messages.
type ValidationError map[string][]string

func (e ValidationError) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func schemaError(msg string) ValidationError {
	return ValidationError{KeySchema: {msg}}
}

// Document is the wire representation of a stored persona.
type Document struct {
	ID      int64  `json:"id"`
	Name    string `json:"nombre"`
	Offense string `json:"delito"`
}

// ParsePayload reads a request body into an untyped mapping. An empty
// body, malformed JSON or a non-object value fail with a ValidationError
// under KeySchema.
func ParsePayload(r io.Reader) (map[string]any, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, schemaError(MsgNoInput)
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, schemaError(MsgInvalidJSON)
	}

	payload, ok := v.(map[string]any)
	if !ok {
		return nil, schemaError(MsgInvalidType)
	}
	return payload, nil
}

// DecodeForCreate builds a new, unsaved persona from payload.
// Every field in PersonaRules must be present and valid.
func DecodeForCreate(payload map[string]any) (types.Persona, error) {
	return decode(payload, types.Persona{}, false)
}

// DecodeForUpdate validates the fields present in payload and merges them
// onto a copy of existing. On failure existing is returned unchanged along
// with the error.
func DecodeForUpdate(payload map[string]any, existing types.Persona) (types.Persona, error) {
	return decode(payload, existing, true)
}

func decode(payload map[string]any, p types.Persona, partial bool) (types.Persona, error) {
	base := p
	verr := ValidationError{}

	for _, rule := range PersonaRules {
		raw, ok := payload[rule.Key]
		if !ok {
			if !partial {
				verr[rule.Key] = []string{MsgMissing}
			}
			continue
		}

		value, msgs := check(rule, raw)
		if len(msgs) > 0 {
			verr[rule.Key] = msgs
			continue
		}
		rule.set(&p, value)
	}

	if len(verr) > 0 {
		return base, verr
	}
	return p, nil
}

func check(rule FieldRule, raw any) (string, []string) {
	if raw == nil {
		return "", []string{MsgNull}
	}
	s, ok := raw.(string)
	if !ok {
		return "", []string{MsgNotString}
	}

	err := validate.Var(s, rule.Tag)
	if err == nil {
		return s, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "", []string{MsgInvalid}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "min":
			msgs = append(msgs, fmt.Sprintf("Shorter than minimum length %s.", fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("Longer than maximum length %s.", fe.Param()))
		default:
			msgs = append(msgs, MsgInvalid)
		}
	}
	return "", msgs
}

// Encode produces the wire representation of p.
func Encode(p types.Persona) Document {
	return Document{ID: p.ID, Name: p.Name, Offense: p.Offense}
}

// EncodeMany encodes a list of personas. The result is never nil, so an
// empty list serializes as [] rather than null.
func EncodeMany(ps []types.Persona) []Document {
	docs := make([]Document, 0, len(ps))
	for _, p := range ps {
		docs = append(docs, Encode(p))
	}
	return docs
}
