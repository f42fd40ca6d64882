// Command ssh-agent-notifyd runs the transparent SSH-agent-protocol proxy:
// it listens on a Unix domain socket, forwards every frame to the real
// agent at SSH_AUTH_SOCK, and raises a desktop notification whenever a
// SignRequest is observed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ssh-agent-notify/broker"
	"ssh-agent-notify/notify"
	"ssh-agent-notify/proxy"
	"ssh-agent-notify/web"
)

var version = "dev"

func main() {
	fs := flag.NewFlagSet("ssh-agent-notifyd", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "ssh-agent-notifyd — transparent notifying proxy for ssh-agent\n\nUsage:\n  ssh-agent-notifyd [flags] <socket-path>\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n  SSH_AUTH_SOCK    path to the real ssh-agent socket (required)\n")
	}

	httpAddr := fs.String("http", "", "HTTP server address for the status page and event stream (e.g. :8080)")
	appName := fs.String("app-name", "ssh-agent-notify", "application name reported to the notification daemon")
	showVersion := fs.Bool("version", false, "show version and exit")

	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("ssh-agent-notifyd %s\n", version)
		return
	}

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	upstream := os.Getenv("SSH_AUTH_SOCK")
	if upstream == "" {
		fmt.Fprintln(os.Stderr, "ssh-agent-notifyd: SSH_AUTH_SOCK is not set")
		os.Exit(1)
	}

	if err := run(fs.Arg(0), upstream, *httpAddr, *appName); err != nil {
		log.Fatal(err)
	}
}

func run(socketPath, upstream, httpAddr, appName string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := broker.New[proxy.SignEvent](256)

	notifier, err := notify.NewDBusNotifier(appName)
	if err != nil {
		return fmt.Errorf("init notifications: %w", err)
	}
	defer func() { _ = notifier.Close() }()

	if httpAddr != "" {
		var lc net.ListenConfig
		httpLis, err := lc.Listen(ctx, "tcp", httpAddr)
		if err != nil {
			return fmt.Errorf("listen http %s: %w", httpAddr, err)
		}
		webSrv := web.New(b)
		go func() {
			log.Printf("HTTP server listening on %s", httpAddr)
			if err := webSrv.Serve(httpLis); err != nil {
				log.Printf("http serve: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = webSrv.Shutdown(shutdownCtx)
		}()
	}

	sv := proxy.NewSupervisor(socketPath, upstream, notifier, b.Publish)

	log.Printf("proxying %s -> %s", socketPath, upstream)
	if err := sv.Run(ctx); err != nil {
		return fmt.Errorf("proxy: %w", err)
	}
	return nil
}
