//go:build !windows

// vtgrid demo: runs a shell on a pty, feeds its output through the engine
// and repaints the real terminal by applying diff operations. Exercises the
// whole pipeline: bytes -> parser -> screen -> snapshot -> diff -> sink.
package main

import (
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"vtgrid/vt"
)

func main() {
	cfgPath := flag.String("config", "", "path to a vtgrid YAML config")
	fps := flag.Int("fps", 60, "render passes per second")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel, Prefix: "vtgrid"})

	cfg := vt.DefaultConfig()
	if *cfgPath != "" {
		loaded, err := vt.LoadConfig(*cfgPath)
		if err != nil {
			logger.Fatal("config", "err", err)
		}
		cfg = loaded
	}

	cols, rows := 80, 24
	if c, r, err := term.GetSize(int(os.Stdout.Fd())); err == nil && c > 0 && r > 0 {
		cols, rows = c, r
	}

	ptmx, cmd, err := spawnShell(cols, rows)
	if err != nil {
		logger.Fatal("pty", "err", err)
	}
	defer ptmx.Close()

	session := vt.NewSession(cols, rows, cfg,
		vt.WithResponse(func(b []byte) { ptmx.Write(b) }),
		vt.WithTitle(func(t string) { os.Stdout.WriteString("\x1b]2;" + t + "\x07") }),
		vt.WithLogger(logger),
	)

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err == nil {
		defer term.Restore(int(os.Stdin.Fd()), oldState)
	}

	// Propagate terminal resizes to both the pty and the engine.
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go func() {
		for range winch {
			if c, r, err := term.GetSize(int(os.Stdout.Fd())); err == nil && c > 0 && r > 0 {
				_ = resizePty(ptmx, c, r)
				session.Resize(c, r)
			}
		}
	}()

	// stdin -> pty
	go func() {
		io.Copy(ptmx, os.Stdin)
	}()

	// pty -> engine
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 32*1024)
		for {
			n, err := ptmx.Read(buf)
			if n > 0 {
				session.Feed(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()

	if *fps < 1 {
		*fps = 1
	}
	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()

	out := newRenderer(os.Stdout)
	out.clear()
	var last *vt.Snapshot

	for {
		select {
		case <-done:
			out.shutdown()
			_ = cmd.Wait()
			return
		case <-ticker.C:
			snap := session.Snapshot()
			ops := session.Diff(last, snap)
			if len(ops) > 0 {
				out.apply(ops, snap)
			}
			last = snap
		}
	}
}
