package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/saylorsolutions/ikcx/cmd/internal"
)

var version = "dev"

func main() {
	var (
		helpFlag    bool
		verboseFlag bool
		outFlag     string
		configFlag  string
		jobsFlag    int
		suffixFlag  string
	)
	flags := flag.NewFlagSet("ikcx", flag.ContinueOnError)
	flags.BoolVarP(&helpFlag, "help", "h", false, "Prints this usage information.")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Enables debug logging.")
	flags.StringVarP(&outFlag, "out", "o", "", "Directory to write output files to. Defaults to the input file's directory, or the current directory for fetch.")
	flags.StringVarP(&configFlag, "config", "c", "", "YAML config file to load settings from.")
	flags.IntVarP(&jobsFlag, "jobs", "j", 4, "Number of inputs to process concurrently.")
	flags.StringVarP(&suffixFlag, "suffix", "s", "", "URL suffix identifying obfuscated page images.")
	flags.Usage = func() {
		fmt.Printf(`
ikcx %s recovers WebP page images from the obfuscated payloads served by the content service.

USAGE:  ikcx COMMAND [FLAGS] INPUT...

COMMANDS:
    decode FILE...   Decodes obfuscated payload files, writing FILE.webp for each one.
                     Files that are already valid containers are copied as-is.
    fetch URL...     Downloads page images, decoding any obfuscated responses, and writes them as .webp files.
    encode FILE...   Obfuscates lossy WebP files the same way the service does, writing FILE.ikc for each one.

FLAGS:
%s`, version, flags.FlagUsages())
	}
	if len(os.Args) == 1 {
		flags.Usage()
		return
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		flags.Usage()
		internal.Fatal("Error parsing flags: %v", err)
	}
	if helpFlag {
		flags.Usage()
		return
	}

	cfg, err := loadConfig(configFlag)
	if err != nil {
		internal.Fatal("Failed to load config: %v", err)
	}
	if flags.Changed("out") {
		cfg.OutDir = outFlag
	}
	if flags.Changed("jobs") {
		cfg.Jobs = jobsFlag
	}
	if flags.Changed("suffix") {
		cfg.Suffix = suffixFlag
	}
	if verboseFlag {
		cfg.LogLevel = "debug"
	}
	if err := cfg.validate(); err != nil {
		internal.Fatal("Invalid settings: %v", err)
	}
	log, err := internal.NewLogger(cfg.LogLevel)
	if err != nil {
		internal.Fatal("Invalid log level: %v", err)
	}

	if flags.NArg() < 2 {
		flags.Usage()
		internal.Fatal("Missing required COMMAND and INPUT arguments")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{cfg: cfg, log: log}
	inputs := flags.Args()[1:]
	switch cmd := flags.Arg(0); cmd {
	case "decode":
		err = r.decode(ctx, inputs)
	case "fetch":
		err = r.fetch(ctx, inputs)
	case "encode":
		err = r.encode(ctx, inputs)
	default:
		flags.Usage()
		stop()
		internal.Fatal("Unknown command '%s'", cmd)
	}
	if err != nil {
		stop()
		internal.Fatal("Failed to %s: %v", flags.Arg(0), err)
	}
}
