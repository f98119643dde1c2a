package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Kariqs/amexan-eats/auth"
	"github.com/Kariqs/amexan-eats/cart"
	"github.com/Kariqs/amexan-eats/store/reststore"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	defaultAPIURL = "http://localhost:8080"
	apiURLEnv     = "AMEXAN_API_URL"
	tokenEnv      = "AMEXAN_TOKEN"
	apiKeyEnv     = "AMEXAN_API_KEY"
)

var errNotSignedIn = errors.New("not signed in: run `amexan cart login` and set " + tokenEnv)

// ClientOptions configure the commands that talk to a running API.
type ClientOptions struct {
	*RootOptions
	APIURL string
	Token  string
	APIKey string
}

func addClientFlags(cmd *cobra.Command, opts *ClientOptions) {
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api", "", "API base URL (default $"+apiURLEnv+" or "+defaultAPIURL+")")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "session token (default $"+tokenEnv+")")
	cmd.PersistentFlags().StringVar(&opts.APIKey, "api-key", "", "data API key (default $"+apiKeyEnv+")")
}

// resolve fills unset options from the environment and an optional .env.
func (o *ClientOptions) resolve() {
	_ = godotenv.Load()
	if o.APIURL == "" {
		o.APIURL = os.Getenv(apiURLEnv)
	}
	if o.APIURL == "" {
		o.APIURL = defaultAPIURL
	}
	if o.Token == "" {
		o.Token = os.Getenv(tokenEnv)
	}
	if o.APIKey == "" {
		o.APIKey = os.Getenv(apiKeyEnv)
	}
}

type cartClient struct {
	remote *reststore.Client
	engine *cart.Engine
}

// openCart signs in with the configured token and loads the cart.
func (o *ClientOptions) openCart(ctx context.Context, stderr io.Writer) (*cartClient, error) {
	o.resolve()
	if strings.TrimSpace(o.Token) == "" {
		return nil, errNotSignedIn
	}
	session := auth.NewSession()
	id, err := session.SignIn(strings.TrimSpace(o.Token))
	if err != nil {
		return nil, err
	}

	remote := reststore.New(o.APIURL, o.APIKey, session.Token)
	engine := cart.New(remote, session, cart.Options{Logger: log.New(stderr, "", 0)})
	if err := engine.SetIdentity(ctx, id, true); err != nil {
		return nil, err
	}
	return &cartClient{remote: remote, engine: engine}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}
}
