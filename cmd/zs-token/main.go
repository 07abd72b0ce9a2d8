// Command zs-token mints and checks zserver auth tokens offline.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/and161185/zserver/internal/config"
	"github.com/and161185/zserver/internal/crypt/token"
	"github.com/and161185/zserver/internal/utils"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage(w io.Writer) {
	fmt.Fprint(w, `zs-token <command> [flags]

commands:
  version
  gen   -ident <ident> -salt <salt> [-key <b64u>] [-dur <sec>]
  check -token <token> -salt <salt> [-key <b64u>]

The key defaults to $ZS_TOKEN_KEY.
`)
}

func main() {
	os.Exit(run(os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

// run returns the process exit code.
func run(args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "zs-token %s (%s)\n", version, buildDate)
		return 0

	case "gen":
		fs := flag.NewFlagSet("gen", flag.ContinueOnError)
		fs.SetOutput(stderr)
		ident := fs.String("ident", "", "token ident, e.g. username")
		salt := fs.String("salt", "", "per-user token salt")
		key := fs.String("key", "", "signing key, base64url without padding")
		dur := fs.Float64("dur", 1800, "lifetime in seconds")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if *ident == "" {
			fmt.Fprintln(stderr, "need -ident")
			return 2
		}
		svc, err := newService(*key, getenv, *dur)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		tk, err := svc.Generate(*ident, *salt)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		fmt.Fprintln(stdout, tk.String())
		return 0

	case "check":
		fs := flag.NewFlagSet("check", flag.ContinueOnError)
		fs.SetOutput(stderr)
		raw := fs.String("token", "", "wire token")
		salt := fs.String("salt", "", "per-user token salt")
		key := fs.String("key", "", "signing key, base64url without padding")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if *raw == "" {
			fmt.Fprintln(stderr, "need -token")
			return 2
		}
		svc, err := newService(*key, getenv, 1)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		tk, err := token.Parse(*raw)
		if err == nil {
			err = svc.Validate(tk, *salt)
		}
		if err != nil {
			fmt.Fprintln(stdout, "invalid:", err)
			return 1
		}
		fmt.Fprintf(stdout, "ok ident=%s exp=%s\n", tk.Ident, tk.Exp)
		return 0

	default:
		usage(stderr)
		return 2
	}
}

var errShortKey = errors.New("token key too short")

func newService(keyB64u string, getenv func(string) string, dur float64) (*token.Service, error) {
	if keyB64u == "" {
		keyB64u = getenv(config.EnvPrefix + "TOKEN_KEY")
	}
	key, err := utils.B64uDecodeBytes(keyB64u)
	if err != nil {
		return nil, fmt.Errorf("token key: %w", err)
	}
	if len(key) < config.MinTokenKeyLen {
		return nil, fmt.Errorf("%w: %d bytes, need %d", errShortKey, len(key), config.MinTokenKeyLen)
	}
	return token.NewService(key, dur)
}
