package main

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/urfave/cli"
	"moul.io/wavetel/pkg/wave"
)

type serverConfig struct {
	host        string
	port        int
	sshBind     string
	fps         int
	duration    time.Duration
	idleTimeout time.Duration
	cacheSize   int
	debug       bool
}

func parseServerConfig(c *cli.Context) (*serverConfig, error) {
	ret := &serverConfig{
		host:        c.String("host"),
		port:        c.Int("port"),
		sshBind:     c.String("ssh-bind"),
		fps:         c.Int("fps"),
		duration:    c.Duration("duration"),
		idleTimeout: c.Duration("idle-timeout"),
		cacheSize:   wave.DefaultCacheSize,
		debug:       c.Bool("debug"),
	}
	if !govalidator.IsHost(ret.host) {
		return nil, fmt.Errorf("invalid host: %q", ret.host)
	}
	if !govalidator.IsPort(strconv.Itoa(ret.port)) {
		return nil, fmt.Errorf("invalid port: %d", ret.port)
	}
	if !govalidator.InRangeInt(ret.fps, 1, 60) {
		return nil, fmt.Errorf("invalid fps: %d, should be between 1 and 60", ret.fps)
	}
	if ret.duration < 0 {
		return nil, fmt.Errorf("invalid duration: %v", ret.duration)
	}
	if ret.idleTimeout < 0 {
		return nil, fmt.Errorf("invalid idle-timeout: %v", ret.idleTimeout)
	}
	return ret, nil
}

func (c *serverConfig) bindAddr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}
