package application

import (
	"bytes"
	"encoding/json"
	"slices"
	"sort"
	"strings"

	"github.com/oksasatya/task-manager-api/internal/domain/errs"
)

// Updatable fields per resource. Anything else in a PATCH body rejects the whole request.
var (
	UserUpdatableFields = []string{"name", "email", "password", "age"}
	TaskUpdatableFields = []string{"description", "completed"}
)

// Patch is a decoded partial-update body whose keys have been checked against a whitelist.
type Patch map[string]json.RawMessage

// DecodePatch parses body as a JSON object and fails with a validation error, before
// anything is touched, when it holds a key outside allowed.
func DecodePatch(body []byte, allowed []string) (Patch, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Patch{}, nil
	}
	var p Patch
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, errs.Invalid("payload", "must be a JSON object")
	}
	var bad []string
	for key := range p {
		if !slices.Contains(allowed, key) {
			bad = append(bad, key)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, errs.Invalid("", "invalid updates: "+strings.Join(bad, ", "))
	}
	return p, nil
}

// Has reports whether key was present in the body.
func (p Patch) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Patch) String(key string) (string, bool, error) {
	var v string
	ok, err := p.decode(key, &v, "must be a string")
	return v, ok, err
}

func (p Patch) Bool(key string) (bool, bool, error) {
	var v bool
	ok, err := p.decode(key, &v, "must be a boolean")
	return v, ok, err
}

func (p Patch) Int(key string) (int, bool, error) {
	var v int
	ok, err := p.decode(key, &v, "must be an integer")
	return v, ok, err
}

// decode unmarshals key into dst. Explicit nulls are type errors, not "leave unchanged".
func (p Patch) decode(key string, dst any, msg string) (bool, error) {
	raw, ok := p[key]
	if !ok {
		return false, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return true, errs.Invalid(key, msg)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, errs.Invalid(key, msg)
	}
	return true, nil
}
