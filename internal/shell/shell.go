// Package shell is an interactive front end for the message router, standing
// in for the extension popup.
package shell

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shorthub/coordinator/internal/models"
	"github.com/shorthub/coordinator/internal/router"
)

// Dispatcher runs one typed request. *router.Router implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req router.Request) models.Response
}

// Shell reads commands from In and writes envelopes to Out.
type Shell struct {
	Router     Dispatcher
	In         io.Reader
	Out        io.Writer
	DeviceInfo string
	Prompt     string
}

const helpText = `Available commands:
  login                  log in with username and password
  logout                 end the session
  whoami                 show the current user
  token [value]          show the access token, or set a manual token
  extract <url>          resolve a channel URL
  save                   submit a channel to the catalog
  test                   check the connection to the catalog
  config                 show which services are configured
  help, exit`

// Run loops until "exit", end of input or ctx cancellation.
func (s *Shell) Run(ctx context.Context) {
	ctx = router.WithDeviceInfo(ctx, s.DeviceInfo)
	in := bufio.NewScanner(s.In)
	prompt := s.Prompt
	if prompt == "" {
		prompt = "shorthub> "
	}

	for ctx.Err() == nil {
		fmt.Fprint(s.Out, prompt)
		if !in.Scan() {
			break
		}
		args := strings.Fields(in.Text())
		if len(args) == 0 {
			continue
		}

		var req router.Request
		switch args[0] {
		case "help":
			fmt.Fprintln(s.Out, helpText)
			continue
		case "exit":
			fmt.Fprintln(s.Out, "Bye")
			return
		case "login":
			username, password := s.promptCredentials(in)
			req = &router.LoginRequest{Username: username, Password: password}
		case "logout":
			req = &router.LogoutRequest{}
		case "whoami":
			req = &router.GetUserInfoRequest{}
		case "token":
			if len(args) > 1 {
				req = &router.SetAuthTokenRequest{Token: args[1]}
			} else {
				req = &router.GetAuthTokenRequest{}
			}
		case "extract":
			if len(args) < 2 {
				fmt.Fprintln(s.Out, "Usage: extract <url>")
				continue
			}
			req = &router.ExtractChannelRequest{URL: args[1]}
		case "save":
			req = &router.SaveChannelRequest{Data: s.promptSubmission(in)}
		case "test":
			req = &router.TestConnectionRequest{}
		case "config":
			req = &router.GetConfigurationRequest{}
		default:
			fmt.Fprintln(s.Out, "Unknown command. Type 'help' for a list of commands.")
			continue
		}

		s.print(s.Router.Dispatch(ctx, req))
	}
}

func (s *Shell) print(resp models.Response) {
	b, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		fmt.Fprintf(s.Out, "cannot encode response: %v\n", err)
		return
	}
	fmt.Fprintln(s.Out, string(b))
}
