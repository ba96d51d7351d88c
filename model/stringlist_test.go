package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_UnmarshalShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want StringList
	}{
		{"array", `["CBT","EMDR"]`, StringList{"CBT", "EMDR"}},
		{"encoded array", `"[\"CBT\",\"EMDR\"]"`, StringList{"CBT", "EMDR"}},
		{"comma separated", `"CBT, EMDR ,"`, StringList{"CBT", "EMDR"}},
		{"empty string", `""`, nil},
		{"null", `null`, nil},
		{"blank entries dropped", `["", " "]`, nil},
		{"bracketed plain text", `"[Beta] group sessions"`, StringList{"[Beta] group sessions"}},
		{"bracketed comma list", `"[new] online, weekly"`, StringList{"[new] online", "weekly"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringList_UnmarshalRejectsGarbage(t *testing.T) {
	var got StringList
	assert.Error(t, json.Unmarshal([]byte(`42`), &got))
}

func TestStringList_MarshalNilAsEmptyArray(t *testing.T) {
	b, err := json.Marshal(struct {
		Tags StringList `json:"tags"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[]}`, string(b))
}

func TestStringList_PlainTextFeaturesDoNotFailTheList(t *testing.T) {
	var services []Service
	body := `[{"name":"Group","features":"[Beta] group sessions"},{"name":"Solo","features":["online"]}]`
	require.NoError(t, json.Unmarshal([]byte(body), &services))
	require.Len(t, services, 2)
	assert.Equal(t, StringList{"[Beta] group sessions"}, services[0].Features)
	assert.Equal(t, StringList{"online"}, services[1].Features)
}

func TestStringList_ServiceFeaturesFromWire(t *testing.T) {
	var svc Service
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Group","features":"[\"weekly\",\"online\"]"}`), &svc))
	assert.Equal(t, StringList{"weekly", "online"}, svc.Features)
}

func TestStringList_Scan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, l)
	require.NoError(t, l.Scan("c,d"))
	assert.Equal(t, StringList{"c", "d"}, l)
	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)
	assert.Error(t, l.Scan(12))
}
