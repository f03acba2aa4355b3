package config

import (
	"time"

	"git.lost.host/meutraa/beathop/internal/notebar"
	"git.lost.host/meutraa/beathop/internal/session"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.1.0"

type Config struct {
	Directory   string
	RefreshRate float64
	Debug       bool
	Delay       time.Duration
	Database    string
	LogFile     string
	LogLevel    string
	Volume      float64
	MoverSpeed  float64
	Seed        int64
	Silent      bool
}

// Parse reads the command line. args excludes the program name.
func Parse(args []string) (*Config, error) {
	app := kingpin.New("beathop", "Jump across platforms to the beat")
	app.Version(Version)

	c := &Config{}
	app.Arg("directory", "Stage directory").Required().ExistingDirVar(&c.Directory)
	app.Flag("refresh-rate", "Render refresh rate").Default("60").Short('R').Float64Var(&c.RefreshRate)
	app.Flag("debug", "Never lose to a missed note and jump at any time").Short('D').BoolVar(&c.Debug)
	app.Flag("delay", "Countdown before the stage begins").Default("1.5s").Short('d').DurationVar(&c.Delay)
	app.Flag("db", "Score database").Default("./scores.db").StringVar(&c.Database)
	app.Flag("log", "Log file").Default("beathop.log").StringVar(&c.LogFile)
	app.Flag("log-level", "Log level").Default("info").EnumVar(&c.LogLevel, "debug", "info", "warn", "error")
	app.Flag("volume", "Sound effect volume, 0 is unchanged").Default("0").Short('v').Float64Var(&c.Volume)
	app.Flag("mover-speed", "Moving platform speed in cells per second").Default("1").Float64Var(&c.MoverSpeed)
	app.Flag("seed", "Seed for jump sounds, 0 picks one").Default("0").Int64Var(&c.Seed)
	app.Flag("silent", "Play without audio").BoolVar(&c.Silent)

	if _, err := app.Parse(args); nil != err {
		return nil, err
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c, nil
}

// FramePeriod is the time between two rendered frames.
func (c *Config) FramePeriod() time.Duration {
	if c.RefreshRate <= 0 {
		return time.Second / 60
	}
	return time.Duration(float64(time.Second) / c.RefreshRate)
}

// Session returns the session options for a stage with the given bar
// geometry.
func (c *Config) Session(geometry notebar.Geometry) session.Options {
	opts := session.DefaultOptions()
	opts.Debug = c.Debug
	opts.Geometry = geometry
	opts.MoverSpeed = c.MoverSpeed
	opts.Seed = c.Seed
	return opts
}
