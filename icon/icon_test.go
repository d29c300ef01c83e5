package icon

import (
	"testing"

	"github.com/cinewatch/cinewatch/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Every icon renders in every variant", t, func() {
		for _, variant := range AvailableVariants() {
			viper.Set(key.IconsVariant, variant)
			for i := range icons {
				So(Get(i), ShouldNotBeEmpty)
			}
		}
	})

	Convey("An unknown variant renders nothing", t, func() {
		viper.Set(key.IconsVariant, "")
		So(Get(Fail), ShouldBeEmpty)
	})
}
