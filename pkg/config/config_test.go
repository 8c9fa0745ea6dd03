package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/dayscore-dev/dayscore/pkg/config"
)

func TestConfig_Default(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.Default()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.GeminiAPIKey, convey.ShouldBeEmpty)
		})
	})
}

func TestConfig_Load(t *testing.T) {
	convey.Convey("Given a YAML config file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "dayscore.yaml")
		body := "addr: \":9090\"\nlog_level: debug\ngoals: ship the compiler\n"
		convey.So(os.WriteFile(path, []byte(body), 0o600), convey.ShouldBeNil)

		convey.Convey("When loaded", func() {
			cfg, err := config.Load(path)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then file values override defaults", func() {
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Goals, convey.ShouldEqual, "ship the compiler")
			})
		})

		convey.Convey("When the environment overrides a value", func() {
			convey.So(os.Setenv("DAYSCORE_ADDR", ":7070"), convey.ShouldBeNil)
			defer os.Unsetenv("DAYSCORE_ADDR")
			cfg, err := config.Load(path)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the environment wins", func() {
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})
	})

	convey.Convey("Given a missing config file", t, func() {
		_, err := config.Load("/nonexistent/dayscore.yaml")
		convey.So(err, convey.ShouldNotBeNil)
	})

	convey.Convey("Given no config file at all", t, func() {
		cfg, err := config.Load("")
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
	})
}
