package auth

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func TestToken(t *testing.T) {
	Convey("Given a mocked keyring", t, func() {
		keyring.MockInit()
		_ = os.Unsetenv(EnvToken)

		Convey("A missing token is reported", func() {
			_, err := Token()
			So(err, ShouldEqual, ErrNoToken)
			So(DeleteToken(), ShouldBeNil)
		})

		Convey("A saved token is returned trimmed", func() {
			So(SetToken("  abc \n"), ShouldBeNil)
			token, err := Token()
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "abc")

			So(DeleteToken(), ShouldBeNil)
			_, err = Token()
			So(err, ShouldEqual, ErrNoToken)
		})

		Convey("Empty tokens are refused", func() {
			So(SetToken(" "), ShouldNotBeNil)
		})

		Convey("The environment wins over the keyring", func() {
			So(SetToken("stored"), ShouldBeNil)
			So(os.Setenv(EnvToken, "from-env"), ShouldBeNil)
			defer os.Unsetenv(EnvToken)

			token, err := Token()
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "from-env")
		})
	})
}
