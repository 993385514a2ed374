package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"log"
	"net"

	"github.com/docker/docker/pkg/namesgenerator"
	"github.com/gliderlabs/ssh"
	gossh "golang.org/x/crypto/ssh"

	"moul.io/wavetel/pkg/lobby"
	"moul.io/wavetel/pkg/wave"
)

// sshTerminal adapts an ssh session to the lobby. Geometry comes from the
// pty request; resize events are drained and ignored, the animation keeps
// its startup dimensions.
type sshTerminal struct {
	ssh.Session
}

func (t *sshTerminal) Negotiate(ctx context.Context) (rows, cols int) {
	ptyReq, winCh, isPty := t.Pty()
	if !isPty {
		return lobby.DefaultRows, lobby.DefaultCols
	}
	go func() {
		for range winCh {
		}
	}()
	if ptyReq.Window.Height < 1 || ptyReq.Window.Width < 1 {
		return lobby.DefaultRows, lobby.DefaultCols
	}
	return ptyReq.Window.Height, ptyReq.Window.Width
}

// sshServer exposes the same animation over ssh, for clients without a
// telnet binary at hand. Auth is wide open on purpose, the host key is
// ephemeral and the server has nothing to protect.
func sshServer(ctx context.Context, bind string, registry *lobby.Registry, cache *wave.Cache, stats *serverStats, cfg lobby.Config, debug bool) error {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}
	signer, err := gossh.NewSignerFromSigner(priv)
	if err != nil {
		return err
	}

	srv := &ssh.Server{
		Addr:    bind,
		Version: "wavetel",
		Handler: func(s ssh.Session) {
			name := namesgenerator.GetRandomName(0)
			log.Printf("info: new connection(ssh): name=%q sshUser=%q remote=%q", name, s.User(), s.RemoteAddr())
			runSession(ctx, "ssh", name, &sshTerminal{Session: s}, registry, cache, stats, cfg, debug)
			_ = s.Exit(0)
		},
	}
	srv.AddHostKey(signer)

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	log.Printf("info: ssh server accepting connections on %s, hostkey=%s", bind, gossh.FingerprintSHA256(signer.PublicKey()))
	err = srv.Serve(ln)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
