package slider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"announceslider/internal/service"
	"announceslider/internal/slider"
)

func TestOptions_WithDefaults(t *testing.T) {
	opts := slider.Options{OrganizationID: "acme"}.WithDefaults(func() string { return "https://api.example.com" })

	assert.Equal(t, "right", opts.SliderPosition)
	assert.Equal(t, "400px", opts.SliderWidth)
	assert.Equal(t, "What's New", opts.Title)
	assert.Equal(t, "No announcements available.", opts.EmptyStateMessage)
	assert.Equal(t, "https://api.example.com", opts.APIURL)
	assert.Equal(t, 10, opts.InitialLimit)
	assert.True(t, opts.PaginationEnabled())
	assert.True(t, opts.OverlayClickCloses())
	assert.False(t, opts.HideClose)
	assert.False(t, opts.HideOverlay)
	require.NoError(t, opts.Validate())
}

func TestOptions_ExplicitValuesWin(t *testing.T) {
	off := false
	opts := slider.Options{
		OrganizationID:   "acme",
		APIURL:           "https://other.example.com",
		InitialLimit:     5,
		EnablePagination: &off,
	}.WithDefaults(func() string { return "https://api.example.com" })

	assert.Equal(t, "https://other.example.com", opts.APIURL)
	assert.Equal(t, 5, opts.InitialLimit)
	assert.False(t, opts.PaginationEnabled())
}

func TestOptions_Validate(t *testing.T) {
	cases := map[string]slider.Options{
		"missing organization": {},
		"bad position":         {OrganizationID: "a", SliderPosition: "top"},
		"bad width":            {OrganizationID: "a", SliderWidth: "400px; background: red"},
		"bad api url":          {OrganizationID: "a", APIURL: "not a url"},
		"negative limit":       {OrganizationID: "a", InitialLimit: -1},
		"limit above page cap": {OrganizationID: "a", InitialLimit: slider.MaxLimit + 1},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, opts.Validate())
		})
	}
}

func TestOptions_LimitMatchesServicePageCap(t *testing.T) {
	assert.Equal(t, service.MaxLimit, slider.MaxLimit)
	opts := slider.Options{OrganizationID: "a", InitialLimit: slider.MaxLimit}
	assert.NoError(t, opts.Validate())
}
