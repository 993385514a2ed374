package main // import "moul.io/wavetel"

import (
	"log"
	"math/rand"
	"os"
	"path"
	"time"

	"github.com/urfave/cli"
	"moul.io/srand"
)

var (
	// GitTag will be overwritten automatically by the build system
	GitTag = "n/a"
	// GitSha will be overwritten automatically by the build system
	GitSha = "n/a"
)

func main() {
	rand.Seed(srand.MustSecure())

	app := cli.NewApp()
	app.Name = path.Base(os.Args[0])
	app.Author = "Manfred Touron"
	app.Version = GitTag + " (" + GitSha + ")"
	app.Email = "https://moul.io/wavetel"
	app.Usage = "an ocean of ANSI waves, served over telnet"
	app.Commands = []cli.Command{
		{
			Name:  "server",
			Usage: "Start wavetel server",
			Action: func(c *cli.Context) error {
				cfg, err := parseServerConfig(c)
				if err != nil {
					return err
				}
				return server(cfg)
			},
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "host",
					EnvVar: "WAVETEL_HOST",
					Value:  "127.0.0.1",
					Usage:  "Telnet server bind host",
				},
				cli.IntFlag{
					Name:   "port, p",
					EnvVar: "WAVETEL_PORT",
					Value:  7777,
					Usage:  "Telnet server bind port",
				},
				cli.IntFlag{
					Name:   "fps",
					EnvVar: "WAVETEL_FPS",
					Value:  10,
					Usage:  "Animation frames per second",
				},
				cli.DurationFlag{
					Name:   "duration, d",
					EnvVar: "WAVETEL_DURATION",
					Value:  10 * time.Second,
					Usage:  "Animation length per connection (0 to stream until the client quits)",
				},
				cli.DurationFlag{
					Name:   "idle-timeout",
					EnvVar: "WAVETEL_IDLE_TIMEOUT",
					Value:  30 * time.Second,
					Usage:  "Duration before an inactive connection is kicked (0 to disable)",
				},
				cli.StringFlag{
					Name:   "ssh-bind",
					EnvVar: "WAVETEL_SSH_BIND",
					Usage:  "Also serve the animation over SSH on this address (empty to disable)",
				},
				cli.BoolFlag{
					Name:   "debug, D",
					EnvVar: "WAVETEL_DEBUG",
					Usage:  "Display debug information",
				},
			},
		}, {
			Name:   "healthcheck",
			Action: func(c *cli.Context) error { return healthcheck(c.String("addr"), c.Bool("wait"), c.Bool("quiet")) },
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "addr, a",
					Value: "localhost:7777",
					Usage: "wavetel server address",
				},
				cli.BoolFlag{
					Name:  "wait, w",
					Usage: "Loop indefinitely until wavetel is ready",
				},
				cli.BoolFlag{
					Name:  "quiet, q",
					Usage: "Do not print errors, if any",
				},
			},
		}, {
			Name:   "client",
			Usage:  "Watch the wave from the local terminal",
			Action: func(c *cli.Context) error { return client(c.String("addr")) },
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "addr, a",
					Value: "localhost:7777",
					Usage: "wavetel server address",
				},
			},
		}, {
			Name:   "_dump_frame",
			Hidden: true,
			Action: dumpFrame,
			Flags: []cli.Flag{
				cli.IntFlag{Name: "rows", Usage: "Frame height (0 to use the current terminal)"},
				cli.IntFlag{Name: "cols", Usage: "Frame width (0 to use the current terminal)"},
				cli.IntFlag{Name: "offset", Usage: "Wave pattern offset"},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("error: %v", err)
	}
}
