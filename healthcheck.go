package main

import (
	"log"
	"time"

	telnet "github.com/reiver/go-telnet"
	"github.com/urfave/cli"
)

// perform a reachability test without requiring a telnet client (used for Docker's HEALTHCHECK)
func healthcheck(addr string, wait, quiet bool) error {
	if wait {
		for {
			if err := healthcheckOnce(addr); err != nil {
				if !quiet {
					log.Printf("error: %v", err)
				}
				time.Sleep(time.Second)
				continue
			}
			return nil
		}
	}

	if err := healthcheckOnce(addr); err != nil {
		if quiet {
			return cli.NewExitError("", 1)
		}
		return err
	}
	return nil
}

func healthcheckOnce(addr string) error {
	caller := &probeCaller{timeout: 3 * time.Second}
	if err := telnet.DialToAndCall(addr, caller); err != nil {
		return err
	}
	return caller.err
}
