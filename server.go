package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/docker/docker/pkg/namesgenerator"
	humanize "github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"moul.io/wavetel/pkg/lobby"
	"moul.io/wavetel/pkg/telnet"
	"moul.io/wavetel/pkg/wave"
)

type serverStats struct {
	sessions uint64
	frames   uint64
	bytes    uint64
	kicked   uint64
}

func server(c *serverConfig) error {
	cache, err := wave.NewCache(c.cacheSize)
	if err != nil {
		return err
	}
	registry := lobby.NewRegistry()
	stats := &serverStats{}
	sessionCfg := lobby.Config{FPS: c.fps, Duration: c.duration}
	started := time.Now()

	// create TCP listening socket
	ln, err := net.Listen("tcp", c.bindAddr())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if c.sshBind != "" {
		go func() {
			if err := sshServer(ctx, c.sshBind, registry, cache, stats, sessionCfg, c.debug); err != nil {
				log.Printf("error: ssh server: %v", err)
			}
		}()
	}

	if c.idleTimeout != 0 {
		go kickIdleLoop(ctx, registry, c.idleTimeout)
	}

	go func() {
		<-ctx.Done()
		registry.Broadcast(wave.Reset + "\r\nThe tide is going out, goodbye!\r\n")
		_ = ln.Close()
	}()

	log.Printf("info: telnet server accepting connections on %s, fps=%d duration=%v idle-timeout=%v", c.bindAddr(), c.fps, c.duration, c.idleTimeout)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				drainSessions(registry)
				printSummary(cache, stats, time.Since(started))
				return nil
			}
			return err
		}
		go handleTelnet(ctx, conn, registry, cache, stats, sessionCfg, c.debug)
	}
}

func handleTelnet(ctx context.Context, conn net.Conn, registry *lobby.Registry, cache *wave.Cache, stats *serverStats, cfg lobby.Config, debug bool) {
	name := namesgenerator.GetRandomName(0)
	log.Printf("info: new connection(telnet): name=%q remote=%q", name, conn.RemoteAddr())
	term := lobby.NewTerminal(telnet.NewConn(conn), cfg.NegotiationGrace)
	runSession(ctx, "telnet", name, term, registry, cache, stats, cfg, debug)
}

// runSession hosts one animation from hello to goodbye and folds the
// outcome into the server counters. Shared by the telnet and ssh fronts.
func runSession(ctx context.Context, proto, name string, term lobby.Terminal, registry *lobby.Registry, cache *wave.Cache, stats *serverStats, cfg lobby.Config, debug bool) {
	sess := lobby.NewSession(name, term, cache, cfg)
	registry.Add(sess)
	reason := sess.Run(ctx)
	registry.Remove(sess)

	atomic.AddUint64(&stats.sessions, 1)
	atomic.AddUint64(&stats.frames, uint64(sess.Frames()))
	atomic.AddUint64(&stats.bytes, sess.BytesSent())
	if reason == lobby.ReasonKicked {
		atomic.AddUint64(&stats.kicked, 1)
	}

	rows, cols := sess.Size()
	log.Printf("info: closed connection(%s): name=%q remote=%q reason=%q size=%dx%d frames=%d sent=%s uptime=%v",
		proto, name, term.RemoteAddr(), reason, cols, rows, sess.Frames(), humanize.Bytes(sess.BytesSent()), sess.Uptime().Round(time.Millisecond))
	if debug {
		hits, misses := cache.Stats()
		log.Printf("debug: frame cache: len=%d hits=%d misses=%d", cache.Len(), hits, misses)
	}
}

func kickIdleLoop(ctx context.Context, registry *lobby.Registry, timeout time.Duration) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			registry.KickIdle(timeout)
		}
	}
}

// drainSessions gives in-flight sessions a moment to unwind after the
// shutdown broadcast, so the summary counts them.
func drainSessions(registry *lobby.Registry) {
	deadline := time.Now().Add(time.Second)
	for registry.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
}

func printSummary(cache *wave.Cache, stats *serverStats, uptime time.Duration) {
	hits, misses := cache.Stats()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Sessions", "Frames", "Sent", "Cache Hits", "Cache Misses", "Kicked", "Uptime"})
	table.SetBorder(false)
	table.Append([]string{
		fmt.Sprintf("%d", atomic.LoadUint64(&stats.sessions)),
		fmt.Sprintf("%d", atomic.LoadUint64(&stats.frames)),
		humanize.Bytes(atomic.LoadUint64(&stats.bytes)),
		fmt.Sprintf("%d", hits),
		fmt.Sprintf("%d", misses),
		fmt.Sprintf("%d", atomic.LoadUint64(&stats.kicked)),
		uptime.Round(time.Second).String(),
	})
	table.SetCaption(true, "Thanks for riding the wave.")
	table.Render()
}
