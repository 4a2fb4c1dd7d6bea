package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/athlytics/stature/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := config.New()

		Convey("Then sensible defaults should apply", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.QueueSize, ShouldEqual, 100_000)
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
			So(cfg.DedupeSize, ShouldEqual, 500_000)
			So(cfg.ShardCount, ShouldEqual, 8)
			So(cfg.StoreBackend, ShouldEqual, config.StoreMemory)
			So(cfg.StorePath, ShouldEqual, "stature.db")
		})
	})
}

// Env scenarios live in separate test functions because t.Setenv spans
// the whole test, not a single Convey branch.

func TestLoadDefaults(t *testing.T) {
	Convey("When loading without overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the defaults should come back", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.StoreBackend, ShouldEqual, config.StoreMemory)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STATURE_ADDR", ":8123")
	t.Setenv("STATURE_QUEUE_SIZE", "5000")
	t.Setenv("STATURE_LOG_LEVEL", "debug")
	t.Setenv("STATURE_STORE_BACKEND", "sqlite")
	t.Setenv("STATURE_STORE_PATH", "/tmp/growth.db")

	Convey("When environment variables override defaults", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then the overrides should win", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8123")
			So(cfg.QueueSize, ShouldEqual, 5000)
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.StoreBackend, ShouldEqual, config.StoreSQLite)
			So(cfg.StorePath, ShouldEqual, "/tmp/growth.db")
		})
	})
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "addr: \":7070\"\nworker_count: 3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STATURE_CONFIG", path)

	Convey("When a config file is supplied", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then file values should layer over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.WorkerCount, ShouldEqual, 3)
			So(cfg.QueueSize, ShouldEqual, 100_000)
		})
	})
}

func TestLoadEnvOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7070\"\nworker_count: 3\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STATURE_CONFIG", path)
	t.Setenv("STATURE_ADDR", ":7071")

	Convey("When both a config file and env overrides are present", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env should win over the file", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7071")
			So(cfg.WorkerCount, ShouldEqual, 3)
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("STATURE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	Convey("When the config file does not exist", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading should fail with the load sentinel", func() {
			So(err, ShouldWrap, config.ErrLoadConfig)
		})
	})
}

func TestLoadInvalidBackend(t *testing.T) {
	t.Setenv("STATURE_STORE_BACKEND", "postgres")

	Convey("When the store backend is unknown", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then validation should reject it", func() {
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})
	})
}

func TestLoadEmptyAddr(t *testing.T) {
	t.Setenv("STATURE_ADDR", "")

	Convey("When the listen address is blanked out", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then validation should reject the empty address", func() {
			So(err, ShouldWrap, config.ErrInvalidConfig)
		})
	})
}
