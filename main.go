// Command ssh-agent-notify is the dashboard client: it connects to a
// running ssh-agent-notifyd's HTTP event stream and displays observed
// sign requests as they happen.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ssh-agent-notify/tui"
)

var version = "dev"

func main() {
	fs := flag.NewFlagSet("ssh-agent-notify", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "ssh-agent-notify — watch ssh-agent sign requests in real time\n\nUsage:\n  ssh-agent-notify [flags] <daemon-url>   (e.g. http://localhost:8080)\n\nFlags:\n")
		fs.PrintDefaults()
	}

	showVersion := fs.Bool("version", false, "show version and exit")

	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("ssh-agent-notify %s\n", version)
		return
	}

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	if err := watch(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func watch(target string) error {
	p := tea.NewProgram(tui.New(target))
	_, err := p.Run()
	return err
}
