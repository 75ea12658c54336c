package carbon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 {
	return &f
}

func TestValidateScenario(t *testing.T) {
	tests := []struct {
		name      string
		idle      float64
		peak      float64
		intensity *float64
		wantErr   error
	}{
		{"valid", 150, 600, ptr(210), nil},
		{"idle equals peak", 300, 300, ptr(210), nil},
		{"zero intensity", 150, 600, ptr(0), nil},
		{"idle above peak", 600, 150, ptr(210), ErrIdleExceedsPeak},
		{"undefined intensity", 150, 600, nil, ErrInvalidIntensity},
		{"negative intensity", 150, 600, ptr(-1), ErrInvalidIntensity},
		{"idle check runs first", 600, 150, nil, ErrIdleExceedsPeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Scenario{IdleWatts: tt.idle, PeakWatts: tt.peak, Location: CustomLocation}
			err := ValidateScenario(s, tt.intensity)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestResolveIntensity(t *testing.T) {
	table := DefaultLocationTable()

	got, err := ResolveIntensity(table, "Norway (Hydro)", ptr(999))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 15.0, *got, "fixed locations ignore the custom value")

	got, err = ResolveIntensity(table, CustomLocation, ptr(400))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 400.0, *got)

	got, err = ResolveIntensity(table, CustomLocation, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ResolveIntensity(table, "Atlantis", nil)
	assert.ErrorIs(t, err, ErrUnknownLocation)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Idle power cannot be greater than peak power.",
		UserMessage(ValidateScenario(Scenario{IdleWatts: 2, PeakWatts: 1}, ptr(1))))
	assert.Equal(t, "Please select a valid location or enter a non-negative custom carbon intensity.",
		UserMessage(ValidateScenario(Scenario{}, nil)))
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}
