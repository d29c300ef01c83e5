package auth

import (
	"testing"

	"github.com/cinewatch/cinewatch/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

func TestToken(t *testing.T) {
	keyring.MockInit()

	Convey("Given an empty keyring", t, func() {
		viper.Set(key.MetadataTMDBToken, "")
		So(DeleteToken(), ShouldBeNil)

		Convey("Token should be empty", func() {
			So(Token(), ShouldBeEmpty)
		})

		Convey("When a token is stored", func() {
			So(SetToken("eyJhbGciOi"), ShouldBeNil)

			Convey("Token should return it", func() {
				So(Token(), ShouldEqual, "eyJhbGciOi")
			})

			Convey("A configured token should win", func() {
				viper.Set(key.MetadataTMDBToken, "configured")
				So(Token(), ShouldEqual, "configured")
				viper.Set(key.MetadataTMDBToken, "")
			})
		})
	})
}
