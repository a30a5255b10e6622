package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbolivercreates/ridecanvas/modules/common/database"
	"github.com/robbolivercreates/ridecanvas/modules/compose"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2019 Toyota Tacoma", "2019-toyota-tacoma"},
		{"Mercedes-Benz G 63 AMG", "mercedes-benz-g-63-amg"},
		{"  Weird___Name!!  ", "weird-name"},
		{"", "vehicle"},
		{"???", "vehicle"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "slugify(%q)", tt.in)
	}
}

func TestFormatPath(t *testing.T) {
	set := &ArtSet{
		Purchase: &database.PurchaseRecord{VehicleName: "2020 Jeep Wrangler"},
		Record: &database.ArtSetRecord{
			PhonePath:   "art-sets/p1/phone_1.webp",
			DesktopPath: "art-sets/p1/desktop_1.webp",
			PrintPath:   "art-sets/p1/print_1.webp",
		},
	}

	phone, err := set.FormatPath(compose.FormatPhone)
	require.NoError(t, err)
	assert.Equal(t, "art-sets/p1/phone_1.webp", phone)

	desktop, err := set.FormatPath(compose.FormatDesktop)
	require.NoError(t, err)
	assert.Equal(t, "art-sets/p1/desktop_1.webp", desktop)

	print, err := set.FormatPath(compose.FormatPrint)
	require.NoError(t, err)
	assert.Equal(t, "art-sets/p1/print_1.webp", print)

	_, err = set.FormatPath("billboard")
	assert.Error(t, err)
}
