// Command cbmpi-keygen generates a textbook RSA key pair and prints it in
// the colon-separated hex form used by rsakey.
//
//	cbmpi-keygen -bits 2048
//	cbmpi-keygen -bits 512 -seed 00ff -witness sequential -demo
//	cbmpi-keygen -bits 1024 -db keys.db -label signing
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/keystore"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/logging"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/random"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/rsa"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/rsakey"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	bits       int
	exponent   string
	rounds     int
	witness    string
	seed       string
	configPath string
	dbPath     string
	label      string
	demo       bool
	verbose    bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("cbmpi-keygen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&o.bits, "bits", 1024, "modulus size in bits")
	fs.StringVar(&o.exponent, "e", "", "public exponent in hex (default "+cbmpi.DefaultPublicExponent+")")
	fs.IntVar(&o.rounds, "rounds", 0, "strong-pseudoprime rounds per prime (0 keeps the configured value)")
	fs.StringVar(&o.witness, "witness", "", "witness policy: random or sequential")
	fs.StringVar(&o.seed, "seed", "", "hex seed for reproducible output; never use for real keys")
	fs.StringVar(&o.configPath, "config", "", "JSON configuration file")
	fs.StringVar(&o.dbPath, "db", "", "SQLite key store to save the key in")
	fs.StringVar(&o.label, "label", "", "label for the key in -db")
	fs.BoolVar(&o.demo, "demo", false, "encrypt and decrypt a sample block with the new key")
	fs.BoolVar(&o.verbose, "v", false, "debug logging to stderr")
	fs.BoolVar(&o.version, "version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if (o.dbPath == "") != (o.label == "") {
		return o, errors.New("-db and -label must be given together")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "cbmpi-keygen: %v\n", err)
		return 2
	}
	if o.version {
		fmt.Fprintf(stdout, "cbmpi-keygen %s\n", cbmpi.BuildInfo())
		return 0
	}
	if err := generate(ctx, o, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "cbmpi-keygen: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig(o options) (cbmpi.Config, error) {
	cfg := cbmpi.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = cbmpi.LoadConfig(o.configPath); err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}
	if o.exponent != "" {
		cfg.PublicExponent = o.exponent
	}
	if o.rounds != 0 {
		cfg.PrimeRounds = o.rounds
	}
	if o.witness != "" {
		cfg.Witnesses = cbmpi.WitnessPolicy(o.witness)
	}
	return cfg, cfg.Validate()
}

func generate(ctx context.Context, o options, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	src := random.System()
	if o.seed != "" {
		seed, err := hex.DecodeString(o.seed)
		if err != nil {
			return fmt.Errorf("decode -seed: %w", err)
		}
		if src, err = random.NewDeterministic(seed); err != nil {
			return err
		}
		logger.Warn(ctx, "deterministic random source in use")
	}

	key, err := rsakey.Generate(ctx, o.bits,
		rsakey.WithConfig(cfg),
		rsakey.WithSource(src),
		rsakey.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer key.Destroy()

	privText, err := key.MarshalText()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "private: %s\n", privText)
	fmt.Fprintf(stdout, "public:  %s\n", key.Public())

	if o.demo {
		if err := demo(key, src, stdout); err != nil {
			return err
		}
	}

	if o.dbPath != "" {
		store, err := keystore.Open(o.dbPath, keystore.WithLogger(logger))
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Put(ctx, o.label, key); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "stored as %q in %s\n", o.label, o.dbPath)
	}
	return nil
}

// demo round-trips a random block through both decryption paths.
func demo(key *rsakey.PrivateKey, src random.Source, stdout io.Writer) error {
	m, err := random.IntN(src, key.N())
	if err != nil {
		return err
	}
	c, err := rsa.Encrypt(key.Public(), m)
	if err != nil {
		return err
	}
	direct, err := rsa.Decrypt(key, c)
	if err != nil {
		return err
	}
	viaCRT, err := rsa.DecryptCRT(key, c)
	if err != nil {
		return err
	}
	if !direct.Equal(m) || !viaCRT.Equal(m) {
		return fmt.Errorf("demo round trip failed for block %s", m)
	}
	fmt.Fprintf(stdout, "demo: m=%s\n", m)
	fmt.Fprintf(stdout, "demo: c=%s\n", c)
	fmt.Fprintln(stdout, "demo: decrypt and CRT decrypt agree")
	return nil
}
