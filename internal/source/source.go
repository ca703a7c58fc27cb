// Package source models ONVO content sources and their lenient wire
// format. The /source endpoint historically mixed representations
// (booleans as strings, a legacy isWorking flag, a misspelled deletion
// key), so decoding normalizes everything into one shape and encoding
// always emits the canonical form.
package source

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
)

// State describes the operational status of a source.
type State string

const (
	StateWorking          State = "WORKING"
	StateUnderMaintenance State = "UNDER_MAINTENANCE"
	StateStopped          State = "STOPPED"
)

// ParseState maps a raw state string onto a State. Matching is
// case-insensitive; unknown or empty values fall back to STOPPED.
func ParseState(raw string) State {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(StateWorking):
		return StateWorking
	case string(StateUnderMaintenance):
		return StateUnderMaintenance
	default:
		return StateStopped
	}
}

// Source describes one remote content provider.
type Source struct {
	Name            string
	API             string
	BaseURL         string
	BaseVersion     int
	State           State
	ImageBaseURL    string
	ImageURLVersion int
	ShouldDelete    bool
}

// UnmarshalJSON decodes a loosely-typed source object.
//
// Field rules: missing strings become "", missing or non-numeric
// integers become 0. The deletion flag is read from the legacy "delate"
// key and accepts boolean literals as well as "true"/"false" (any case)
// and "1"/"0"; anything else is false. Status is resolved from "state"
// when the key is present (unknown values fall back to STOPPED),
// otherwise from the legacy "isWorking" flag, otherwise STOPPED.
func (s *Source) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	*s = Source{
		Name:            getString(obj, "name"),
		API:             getString(obj, "api"),
		BaseURL:         getString(obj, "baseUrl"),
		BaseVersion:     getInt(obj, "baseVersion"),
		State:           resolveState(obj),
		ImageBaseURL:    getString(obj, "imageBaseUrl"),
		ImageURLVersion: getInt(obj, "imageUrlVersion"),
		ShouldDelete:    getBool(obj, "delate"),
	}
	return nil
}

// MarshalJSON emits the canonical representation: the "state" string,
// never the legacy "isWorking" flag or the deletion key. Legacy input
// is intentionally lost on re-encode.
func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name            string `json:"name"`
		API             string `json:"api"`
		BaseURL         string `json:"baseUrl"`
		BaseVersion     int    `json:"baseVersion"`
		State           State  `json:"state"`
		ImageBaseURL    string `json:"imageBaseUrl"`
		ImageURLVersion int    `json:"imageUrlVersion"`
	}{
		Name:            s.Name,
		API:             s.API,
		BaseURL:         s.BaseURL,
		BaseVersion:     s.BaseVersion,
		State:           s.State,
		ImageBaseURL:    s.ImageBaseURL,
		ImageURLVersion: s.ImageURLVersion,
	})
}

// DecodeList parses a JSON array of source objects. It never fails: any
// decode error for the payload yields an empty list, reported to the
// logger rather than returned, so a malformed deployment of the source
// index cannot take the caller down.
func DecodeList(data []byte, logger *slog.Logger) []Source {
	var items []Source
	if err := json.Unmarshal(data, &items); err != nil {
		if logger != nil {
			logger.Error("failed to decode source list", "error", err, "raw", string(data))
		}
		return nil
	}
	return items
}

func resolveState(obj map[string]json.RawMessage) State {
	if raw, ok := obj["state"]; ok {
		return ParseState(primitiveContent(raw))
	}
	if raw, ok := obj["isWorking"]; ok {
		if strings.EqualFold(strings.TrimSpace(primitiveContent(raw)), "true") {
			return StateWorking
		}
		return StateStopped
	}
	return StateStopped
}

// primitiveContent returns the textual content of a JSON primitive:
// strings are unquoted, numbers and booleans keep their literal form.
func primitiveContent(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return strings.TrimSpace(string(raw))
}

func getString(obj map[string]json.RawMessage, key string) string {
	raw, ok := obj[key]
	if !ok || string(raw) == "null" {
		return ""
	}
	return primitiveContent(raw)
}

func getInt(obj map[string]json.RawMessage, key string) int {
	raw, ok := obj[key]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(primitiveContent(raw))
	if err != nil {
		return 0
	}
	return n
}

func getBool(obj map[string]json.RawMessage, key string) bool {
	raw, ok := obj[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	switch strings.ToLower(primitiveContent(raw)) {
	case "true", "1":
		return true
	default:
		return false
	}
}
