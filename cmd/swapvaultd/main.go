package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/swapvault"
	"github.com/iov-one/swapvault/commands/server"
	"github.com/iov-one/swapvault/x/escrow"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".swapvault")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("swapvaultd")
	fmt.Println("          Trustless two party token escrow node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app state in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("authority Print the custodial authority of the escrow program")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.swapvault")`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	if err := run(cmd, rest); err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

func run(cmd string, args []string) error {
	conf, err := server.LoadConfig(*varHome)
	if err != nil {
		return err
	}
	logger, err := newLogger(conf.LogLevel)
	if err != nil {
		return err
	}

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		return server.InitCmd(GenInitOptions, logger, *varHome, args)
	case "start":
		return server.StartCmd(GenerateApp, logger, conf, args)
	case "authority":
		addr, bump, err := escrow.Authority(escrow.ProgramID)
		if err != nil {
			return err
		}
		fmt.Printf("program   %s\nauthority %s\nbump      %d\n", escrow.ProgramID, addr, bump)
	case "version":
		fmt.Println(swapvault.Version())
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
	return nil
}

// newLogger returns a TM logger printing entries at the given level or above.
func newLogger(level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "swapvault")
	allowed, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, allowed), nil
}
