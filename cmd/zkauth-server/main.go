// zkauth-server builds a Chaum-Pedersen zero-knowledge authentication
// verifier from fresh or persisted parameters, logs that it is ready,
// and returns. It opens no socket: -host and -port are only logged.
//
// Usage:
//
//	zkauth-server [options]
//
// Options:
//
//	-host          bind host (default: 0.0.0.0)
//	-port          bind port, logged only (default: 8080)
//	-config        path to a persisted parameter configuration file
//	-generate      generate fresh parameters, write -config, and exit
//	-overwrite     allow -generate to replace an existing -config file
//	-flavor        discrete-logarithm | elliptic-curve (default: elliptic-curve)
//	-bits          DL prime bit-length (default: 256); ignored for elliptic-curve
//	-prime         explicit DL prime (decimal), overrides -bits
//
// Environment overrides: ZKAUTH_PORT, ZKAUTH_CONFIG.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/pion/logging"

	"zkauth/auth"
	"zkauth/group"
	"zkauth/params"
	"zkauth/rpc"
	"zkauth/session"
)

// options holds the server's CLI flags, following the teacher's
// flag-struct-plus-DefaultOptions convention
// (examples/common/flags.go's Options/DefaultOptions in the pack).
type options struct {
	Host       string
	Port       int
	ConfigPath string
	Generate   bool
	Overwrite  bool
	Flavor     string
	Bits       int
	Prime      string
}

func defaultOptions() options {
	return options{
		Host:   "0.0.0.0",
		Port:   8080,
		Flavor: "elliptic-curve",
		Bits:   params.DefaultBits,
	}
}

func parseFlags() options {
	opts := defaultOptions()

	flag.StringVar(&opts.Host, "host", opts.Host, "bind host")
	flag.IntVar(&opts.Port, "port", opts.Port, "bind port (logged only; no socket is opened)")
	flag.StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "path to a persisted parameter configuration file")
	flag.BoolVar(&opts.Generate, "generate", opts.Generate, "generate fresh parameters, write -config, and exit")
	flag.BoolVar(&opts.Overwrite, "overwrite", opts.Overwrite, "allow -generate to replace an existing -config file")
	flag.StringVar(&opts.Flavor, "flavor", opts.Flavor, "discrete-logarithm | elliptic-curve")
	flag.IntVar(&opts.Bits, "bits", opts.Bits, "DL prime bit-length")
	flag.StringVar(&opts.Prime, "prime", opts.Prime, "explicit DL prime (decimal), overrides -bits")
	flag.Parse()

	if v := os.Getenv("ZKAUTH_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &opts.Port)
	}
	if v := os.Getenv("ZKAUTH_CONFIG"); v != "" {
		opts.ConfigPath = v
	}
	return opts
}

func main() {
	opts := parseFlags()

	flavor, err := group.ParseFlavor(opts.Flavor)
	if err != nil {
		log.Fatalf("zkauth-server: %v", err)
	}

	if opts.Generate {
		if opts.ConfigPath == "" {
			log.Fatal("zkauth-server: -generate requires -config")
		}
		p, err := generateParams(flavor, opts)
		if err != nil {
			log.Fatalf("zkauth-server: %v", err)
		}
		if err := params.Save(opts.ConfigPath, p, opts.Overwrite); err != nil {
			log.Fatalf("zkauth-server: %v", err)
		}
		log.Printf("zkauth-server: wrote parameters to %s", opts.ConfigPath)
		return
	}

	p, err := loadOrGenerateParams(flavor, opts)
	if err != nil {
		log.Fatalf("zkauth-server: %v", err)
	}

	loggerFactory := logging.NewDefaultLoggerFactory()

	store, err := session.NewStore(session.Config{LoggerFactory: loggerFactory})
	if err != nil {
		log.Fatalf("zkauth-server: %v", err)
	}

	authSvc, err := auth.NewService(auth.Config{Params: p, Store: store, LoggerFactory: loggerFactory})
	if err != nil {
		log.Fatalf("zkauth-server: %v", err)
	}

	wireSvc := rpc.NewService(rpc.Config{Auth: authSvc, LoggerFactory: loggerFactory})

	// The gRPC transport framing is out of scope for this core (see
	// spec.md section 1); wireSvc is what a generated gRPC server would
	// dispatch Register/CreateAuthenticationChallenge/
	// VerifyAuthentication/GetConfiguration into.
	_ = wireSvc
	log.Printf("zkauth-server: verifier ready (flavor=%s host=%s port=%d)", p.Flavor, opts.Host, opts.Port)
}

func generateParams(flavor group.Flavor, opts options) (*params.Params, error) {
	switch flavor {
	case group.DiscreteLogarithm:
		var prime *big.Int
		if opts.Prime != "" {
			var ok bool
			prime, ok = new(big.Int).SetString(opts.Prime, 10)
			if !ok {
				return nil, fmt.Errorf("invalid -prime value %q", opts.Prime)
			}
		}
		return params.GenerateDL(opts.Bits, prime)
	default:
		return params.GenerateEC()
	}
}

func loadOrGenerateParams(flavor group.Flavor, opts options) (*params.Params, error) {
	if opts.ConfigPath != "" {
		if _, err := os.Stat(opts.ConfigPath); err == nil {
			return params.Load(opts.ConfigPath)
		}
	}
	return generateParams(flavor, opts)
}
