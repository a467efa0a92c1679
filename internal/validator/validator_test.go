package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	SteamID string   `params:"steamId" validate:"required,steamid"`
	Vibes   []string `json:"vibes" validate:"max=3,dive,vibe"`
	Limit   int      `query:"limit" validate:"omitempty,min=1,max=20"`
	Social  string   `json:"social" validate:"omitempty,oneof=solo coop competitive"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()

	tests := []struct {
		name string
		req  sample
	}{
		{"minimal", sample{SteamID: "76561197960287930"}},
		{"vibes with separators", sample{SteamID: "76561197960287930", Vibes: []string{"Anger-Release", "co-op"}}},
		{"all fields", sample{SteamID: "76561198000000000", Vibes: []string{"relax"}, Limit: 20, Social: "coop"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, v.Validate(&tt.req))
		})
	}
}

func TestValidate_Invalid(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		req       sample
		wantField string
		wantTag   string
	}{
		{"missing steam id", sample{}, "steamId", "required"},
		{"vanity name", sample{SteamID: "gaben"}, "steamId", "steamid"},
		{"short steam id", sample{SteamID: "7656119796028793"}, "steamId", "steamid"},
		{"unknown vibe", sample{SteamID: "76561197960287930", Vibes: []string{"spooky"}}, "vibes[0]", "vibe"},
		{"too many vibes", sample{SteamID: "76561197960287930", Vibes: []string{"relax", "story", "hard", "coop"}}, "vibes", "max"},
		{"limit above max", sample{SteamID: "76561197960287930", Limit: 21}, "limit", "max"},
		{"unknown social", sample{SteamID: "76561197960287930", Social: "mmo"}, "social", "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			require.Error(t, err)

			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantField, errs[0].Field)
			assert.Equal(t, tt.wantTag, errs[0].Tag)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestValidate_Messages(t *testing.T) {
	v := New()

	err := v.Validate(&sample{SteamID: "1", Vibes: []string{"spooky"}})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "steamId must be a 17-digit SteamID64")
	assert.Contains(t, msg, "vibes[0] must be one of: ")
	assert.Contains(t, msg, "relax")
	assert.Contains(t, msg, "; ")
}

func TestValidationErrors_EmptyError(t *testing.T) {
	assert.Equal(t, "", ValidationErrors{}.Error())
}
