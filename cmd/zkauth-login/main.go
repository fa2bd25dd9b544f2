// zkauth-login is a demo Chaum-Pedersen prover: it registers and/or
// authenticates a single user against a verifier.
//
// Usage:
//
//	zkauth-login [options]
//
// Options:
//
//	-address   verifier address (default: localhost:8080)
//	-user      username
//	-password  password
//	-register  register the user before authenticating
//	-login     authenticate the user (default: true)
//
// Environment overrides: ZKAUTH_ADDR, ZKAUTH_USER, ZKAUTH_PASSWORD.
//
// Exit codes: 0 success, 1 transport/unexpected error, 2 proof
// rejected, 3 invalid usage.
//
// The gRPC transport itself is out of scope for this core (spec.md
// section 1): this binary drives the prover side of the protocol
// (package proof) against an in-process rpc.Service standing in for a
// dialed verifier, the same role a generated gRPC client stub would
// play over the wire.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pion/logging"

	"zkauth/auth"
	"zkauth/group"
	"zkauth/internal/zkerr"
	"zkauth/params"
	"zkauth/proof"
	"zkauth/rpc"
	"zkauth/session"
)

type options struct {
	Address  string
	User     string
	Password string
	Register bool
	Login    bool
}

func defaultOptions() options {
	return options{Address: "localhost:8080", Login: true}
}

func parseFlags() options {
	opts := defaultOptions()

	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)
	flag.StringVar(&opts.Address, "address", opts.Address, "verifier address")
	flag.StringVar(&opts.User, "user", opts.User, "username")
	flag.StringVar(&opts.Password, "password", opts.Password, "password")
	flag.BoolVar(&opts.Register, "register", opts.Register, "register the user before authenticating")
	flag.BoolVar(&opts.Login, "login", opts.Login, "authenticate the user")
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(3)
	}

	if v := os.Getenv("ZKAUTH_ADDR"); v != "" {
		opts.Address = v
	}
	if v := os.Getenv("ZKAUTH_USER"); v != "" {
		opts.User = v
	}
	if v := os.Getenv("ZKAUTH_PASSWORD"); v != "" {
		opts.Password = v
	}
	return opts
}

func main() {
	os.Exit(run(parseFlags()))
}

func run(opts options) int {
	if opts.User == "" {
		fmt.Fprintln(os.Stderr, "zkauth-login: -user is required")
		return 3
	}

	wireSvc, gMath, hMath, err := dial(opts.Address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zkauth-login: %v\n", err)
		return 1
	}
	prover := proof.NewProver(gMath, hMath)
	x := prover.DeriveSecret([]byte(opts.Password))

	if opts.Register {
		y1, y2 := prover.PublicCommitments(x)
		status := wireSvc.Register(rpc.RegisterRequest{User: opts.User, Y1: y1.Encode(), Y2: y2.Encode()})
		if !status.OK() {
			fmt.Fprintf(os.Stderr, "zkauth-login: register: %s\n", status.Message)
			return 1
		}
		fmt.Printf("zkauth-login: registered %s\n", opts.User)
	}

	if !opts.Login {
		return 0
	}

	k, r1, r2, err := prover.Ephemeral()
	if err != nil {
		fmt.Fprintf(os.Stderr, "zkauth-login: %v\n", err)
		return 1
	}

	challengeResp, status := wireSvc.CreateAuthenticationChallenge(rpc.CreateAuthenticationChallengeRequest{
		User: opts.User, R1: r1.Encode(), R2: r2.Encode(),
	})
	if !status.OK() {
		fmt.Fprintf(os.Stderr, "zkauth-login: create challenge: %s\n", status.Message)
		return 1
	}

	c, err := gMath.ParseScalar(challengeResp.C)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zkauth-login: %v\n", err)
		return 1
	}
	s := prover.Respond(k, c, x)

	verifyResp, status := wireSvc.VerifyAuthentication(rpc.VerifyAuthenticationRequest{
		AuthID: challengeResp.AuthID, S: s.Encode(),
	})
	if !status.OK() {
		fmt.Fprintf(os.Stderr, "zkauth-login: %s\n", status.Message)
		if status.Code == zkerr.CodeUnauthenticated {
			return 2
		}
		return 1
	}

	fmt.Printf("zkauth-login: authenticated %s, session_id=%s\n", opts.User, verifyResp.SessionID)
	return 0
}

// dial stands in for a transport dial: it brings up a fresh in-process
// verifier with freshly generated elliptic-curve parameters. A real deployment would instead
// dial opts.Address over gRPC and call GetConfiguration to learn the
// flavor and parameters; that wiring is the transport layer spec.md
// section 1 scopes out of this core.
func dial(address string) (*rpc.Service, group.Math, group.Math, error) {
	p, err := params.GenerateEC()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dial %s: %w", address, err)
	}
	loggerFactory := logging.NewDefaultLoggerFactory()

	store, err := session.NewStore(session.Config{LoggerFactory: loggerFactory})
	if err != nil {
		return nil, nil, nil, err
	}
	authSvc, err := auth.NewService(auth.Config{Params: p, Store: store, LoggerFactory: loggerFactory})
	if err != nil {
		return nil, nil, nil, err
	}
	wireSvc := rpc.NewService(rpc.Config{Auth: authSvc, LoggerFactory: loggerFactory})

	gMath, hMath, err := p.Generators()
	if err != nil {
		return nil, nil, nil, err
	}
	return wireSvc, gMath, hMath, nil
}
