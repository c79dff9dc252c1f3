package main

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minigolf/internal/course"
	"github.com/vovakirdan/minigolf/internal/platform/tui"
	"github.com/vovakirdan/minigolf/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the minigolf SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with a hole picker. Strokes are
recorded under the SSH user name in the server's database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.minigolf/host_key

Examples:
  minigolf serve                           # Listen on :23234 with auto-generated key
  minigolf serve --ssh :2222               # Listen on port 2222
  minigolf serve --holes ./holes           # Offer the holes in ./holes

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger()

	holes, err := course.NewLoader(holesDir(cfg), cfg.Physics).LoadAll()
	if err != nil {
		logger.Warn("some holes were skipped", "dir", holesDir(cfg), "error", err)
	}
	holes = append(holes, course.Default(cfg.Physics))

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, strokes will not be saved", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	scfg := tui.DefaultSSHServerConfig()
	scfg.Address = flagSSHAddr
	scfg.HostKeyPath = flagHostKey
	scfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	scfg.Holes = holes
	scfg.Store = store
	scfg.Logger = logger
	scfg.Play.CursorStep = cfg.Play.CursorStep
	scfg.Play.Config.TickRate = cfg.Play.TickRate
	scfg.Play.Config.SurfaceSize = cfg.Sweep.SurfaceSize

	server, err := tui.NewSSHServer(scfg)
	if err != nil {
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting minigolf SSH server on %s with %d holes\n", scfg.Address, len(holes))
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(scfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fail("server: %v", err)
	}
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
