package backend

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadFromFile(t *testing.T) {
	Convey("A config file merges over defaults", t, func() {
		path := filepath.Join(t.TempDir(), "config.yml")
		content := []byte(`
http:
  listen: ":9090"
session:
  keepalive: 5s
  keepalive-misses: 2
policy:
  unique-room-names: true
  room-grace: 30s
`)
		So(os.WriteFile(path, content, 0600), ShouldBeNil)

		cfg := ServerConfig{}
		cfg.HTTP.Static = "static"
		So(cfg.LoadFromFile(path), ShouldBeNil)

		So(cfg.HTTP.Listen, ShouldEqual, ":9090")
		So(cfg.HTTP.Static, ShouldEqual, "static")
		So(cfg.Session.KeepAlive, ShouldEqual, Duration(5*time.Second))
		So(cfg.Session.MaxKeepAliveMisses, ShouldEqual, 2)
		So(cfg.Policy.UniqueRoomNames, ShouldBeTrue)
		So(cfg.Policy.RoomGrace, ShouldEqual, Duration(30*time.Second))
	})

	Convey("A missing file is an error", t, func() {
		cfg := ServerConfig{}
		So(cfg.LoadFromFile("/no/such/file.yml"), ShouldNotBeNil)
	})
}
