package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/ipc"
)

// leo-ctl pokes the running daemon: `leo-ctl` or `leo-ctl trigger`
// opens a command window, `leo-ctl say <text>` speaks a line,
// `leo-ctl stop` shuts the daemon down.
func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Daemon control socket")
	cli.Parse()

	cmd := "trigger"
	if cli.NArg() > 0 {
		cmd = cli.Arg(0)
	}

	arg := ""
	if cli.NArg() > 1 {
		arg = cli.Arg(1)
	}

	if err := ipc.SendCommand(*socket, cmd, arg); err != nil {
		fmt.Println("leo daemon not running:", err)
		os.Exit(1)
	}
}
