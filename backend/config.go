package backend

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

var Config ServerConfig

func init() {
	Config.Session.KeepAlive = Duration(20 * time.Second)
	Config.Session.MaxKeepAliveMisses = 3
}

// RegisterFlags binds the server configuration to command-line flags.
// Only the server's own entry point should call it; other binaries that
// import this package keep their flag namespace to themselves.
func RegisterFlags() {
	flag.StringVar(&Config.HTTP.Listen, "http", ":8080", "address to serve on")
	flag.StringVar(&Config.HTTP.Static, "static", "", "path to static files")

	flag.StringVar(&Config.DB.DSN, "psql", "", "DSN of an optional postgres store")

	flag.Var(&Config.Session.KeepAlive, "keepalive", "ping interval per connection")
	flag.IntVar(&Config.Session.MaxKeepAliveMisses, "keepalive-misses", 3,
		"missed pings tolerated before a connection is dropped")

	flag.BoolVar(&Config.Policy.UniqueRoomNames, "unique-room-names", false,
		"reject room creation when the name is already taken")
	flag.Var(&Config.Policy.RoomGrace, "room-grace",
		"how long to retain an emptied room before reclaiming it")
}

// Duration parses from flag and yaml values like "20s" or "1m30s".
type Duration time.Duration

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) Set(value string) error {
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value string
	if err := unmarshal(&value); err != nil {
		return err
	}
	return d.Set(value)
}

func (d Duration) MarshalYAML() (interface{}, error) { return d.String(), nil }

type ServerConfig struct {
	HTTP    HTTPConfig     `yaml:"http"`
	DB      DatabaseConfig `yaml:"database,omitempty"`
	Session SessionConfig  `yaml:"session,omitempty"`
	Policy  PolicyConfig   `yaml:"policy,omitempty"`
}

// LoadFromFile merges settings from a YAML file over the current
// (flag-populated) values.
func (c *ServerConfig) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

type HTTPConfig struct {
	Listen string `yaml:"listen"`
	Static string `yaml:"static"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type SessionConfig struct {
	KeepAlive          Duration `yaml:"keepalive"`
	MaxKeepAliveMisses int      `yaml:"keepalive-misses"`
}

type PolicyConfig struct {
	UniqueRoomNames bool     `yaml:"unique-room-names"`
	RoomGrace       Duration `yaml:"room-grace"`
}
