package source

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		raw  string
		want State
	}{
		{"WORKING", StateWorking},
		{"working", StateWorking},
		{" Working ", StateWorking},
		{"UNDER_MAINTENANCE", StateUnderMaintenance},
		{"under_maintenance", StateUnderMaintenance},
		{"STOPPED", StateStopped},
		{"", StateStopped},
		{"garbage", StateStopped},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseState(tt.raw), "raw=%q", tt.raw)
	}
}

func TestUnmarshal_StateKeyWinsOverIsWorking(t *testing.T) {
	var s Source
	err := json.Unmarshal([]byte(`{"name":"a","state":"UNDER_MAINTENANCE","isWorking":"true"}`), &s)
	require.NoError(t, err)
	assert.Equal(t, StateUnderMaintenance, s.State)
}

func TestUnmarshal_LegacyIsWorking(t *testing.T) {
	tests := []struct {
		name string
		body string
		want State
	}{
		{"true string", `{"isWorking":"true"}`, StateWorking},
		{"mixed case", `{"isWorking":"True"}`, StateWorking},
		{"bool literal", `{"isWorking":true}`, StateWorking},
		{"false string", `{"isWorking":"false"}`, StateStopped},
		{"garbage", `{"isWorking":"yes"}`, StateStopped},
		{"neither key", `{"name":"x"}`, StateStopped},
		{"unknown state", `{"state":"EXPLODED"}`, StateStopped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Source
			require.NoError(t, json.Unmarshal([]byte(tt.body), &s))
			assert.Equal(t, tt.want, s.State)
		})
	}
}

func TestUnmarshal_MissingAndMistypedFields(t *testing.T) {
	var s Source
	err := json.Unmarshal([]byte(`{"name":"manga","baseVersion":"7","imageUrlVersion":"x"}`), &s)
	require.NoError(t, err)

	assert.Equal(t, "manga", s.Name)
	assert.Equal(t, "", s.API)
	assert.Equal(t, "", s.BaseURL)
	assert.Equal(t, 7, s.BaseVersion, "numeric strings are accepted")
	assert.Equal(t, 0, s.ImageURLVersion, "non-numeric falls back to zero")
	assert.False(t, s.ShouldDelete)
}

func TestUnmarshal_DeleteFlag(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"delate":true}`, true},
		{`{"delate":"true"}`, true},
		{`{"delate":"TRUE"}`, true},
		{`{"delate":"1"}`, true},
		{`{"delate":false}`, false},
		{`{"delate":"0"}`, false},
		{`{"delate":"maybe"}`, false},
		{`{}`, false},
	}
	for _, tt := range tests {
		var s Source
		require.NoError(t, json.Unmarshal([]byte(tt.body), &s))
		assert.Equal(t, tt.want, s.ShouldDelete, "body=%s", tt.body)
	}
}

func TestMarshal_CanonicalFormOnly(t *testing.T) {
	s := Source{
		Name:         "manga",
		API:          "v2",
		BaseURL:      "https://src.example",
		BaseVersion:  3,
		State:        StateWorking,
		ShouldDelete: true,
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	assert.Equal(t, "WORKING", obj["state"])
	assert.NotContains(t, obj, "isWorking")
	assert.NotContains(t, obj, "delate")
}

func TestRoundTrip_PreservesState(t *testing.T) {
	in := `{"name":"a","api":"v1","baseUrl":"https://a","baseVersion":2,"state":"UNDER_MAINTENANCE","imageBaseUrl":"https://img","imageUrlVersion":1}`
	var s Source
	require.NoError(t, json.Unmarshal([]byte(in), &s))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var again Source
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, s, again)
}

func TestDecodeList(t *testing.T) {
	list := DecodeList([]byte(`[{"name":"a","state":"WORKING"},{"name":"b","isWorking":"false"}]`), nil)
	require.Len(t, list, 2)
	assert.Equal(t, StateWorking, list[0].State)
	assert.Equal(t, StateStopped, list[1].State)
}

func TestDecodeList_MalformedPayloadYieldsEmpty(t *testing.T) {
	assert.Nil(t, DecodeList([]byte(`{"not":"an array"}`), nil))
	assert.Nil(t, DecodeList([]byte(`garbage`), nil))
}
