package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pitabwire/util"

	"github.com/pitabwire/typedtext/config"
	"github.com/pitabwire/typedtext/version"
)

const minArgsCommand = 2

var errUnknownCommand = errors.New("unknown command")

func main() {
	if len(os.Args) < minArgsCommand {
		usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Args[1], os.Args[2:])
	stop()

	if errors.Is(err, errUnknownCommand) {
		usage()
	}
	exitOnErr(err)
}

func run(ctx context.Context, stdout io.Writer, command string, args []string) error {
	switch command {
	case "help", "-h", "--help":
		usage()
		return nil
	case "version":
		_, _ = fmt.Fprintln(stdout, version.String())
		return nil
	}

	cfg, err := config.FromEnv[config.ConfigurationDefault]()
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}

	ctx = config.ToContext(ctx, &cfg)
	ctx = util.ContextWithLogger(ctx, newLogger(ctx, &cfg))

	switch command {
	case "import":
		return cmdImport(ctx, &cfg, stdout, args)
	case "resolve":
		return cmdResolve(ctx, &cfg, stdout, args)
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, command)
	}
}

func usage() {
	fmt.Fprintln(os.Stdout, "typedtext <command> [args]")
	fmt.Fprintln(os.Stdout, "")
	fmt.Fprintln(os.Stdout, "Commands:")
	fmt.Fprintln(os.Stdout, "  import [--tasks FILE] [--root DIR] [--include GLOB]... [--out FILE] [--format yaml|json]")
	fmt.Fprintln(os.Stdout, "  resolve [--root DIR] --pattern PATTERN... [--locale LOCALE] [--no-fallback] KEY...")
	fmt.Fprintln(os.Stdout, "  version")
}

func flagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func exitOnErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
