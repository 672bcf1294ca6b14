package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAutoTop20(t *testing.T) {
	top20 := &CustomSettings{FetchTop20: true}

	cases := []struct {
		name        string
		enabled     bool
		settings    *CustomSettings
		position    int
		wantChanged bool
		wantTop20   bool
		wantNil     bool
	}{
		{"disabled feature never mutates", false, top20, 15, false, true, false},
		{"position 7 clears the flag", true, top20, 7, true, false, true},
		{"position 1 clears the flag", true, top20, 1, true, false, true},
		{"position 8 is the dead zone", true, top20, 8, false, true, false},
		{"position 10 is the dead zone", true, top20, 10, false, true, false},
		{"position 11 sets the flag", true, nil, 11, true, true, false},
		{"position 0 sets the flag", true, nil, 0, true, true, false},
		{"already set stays set", true, top20, 11, false, true, false},
		{"good rank with no flag is a no-op", true, nil, 3, false, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, changed := ApplyAutoTop20(tc.enabled, tc.settings, tc.position)

			assert.Equal(t, tc.wantChanged, changed)
			if tc.wantNil {
				if changed {
					assert.Nil(t, next)
				} else {
					assert.Equal(t, tc.settings, next)
				}
				return
			}
			require.NotNil(t, next)
			assert.Equal(t, tc.wantTop20, next.FetchTop20)
		})
	}
}

func TestApplyAutoTop20_PreservesSERPPages(t *testing.T) {
	settings := &CustomSettings{FetchTop20: true, SERPPages: 3}

	next, changed := ApplyAutoTop20(true, settings, 5)

	require.True(t, changed)
	require.NotNil(t, next)
	assert.False(t, next.FetchTop20)
	assert.Equal(t, 3, next.SERPPages)
	// Input is never mutated.
	assert.True(t, settings.FetchTop20)
}
