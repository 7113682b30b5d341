// Package commands implements the technician-facing CLI verbs. Each
// verb is a thin front over the client, the form mapper and the local
// draft store.
package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/LRM-Solutions/fortelyne-app-checklist/app"
)

const usage = `usage: fortelyne [flags] <command> [args]

commands:
  login <email>                       log in and store the session
  logout                              discard the stored session
  orders [-done]                      list pending (or completed) ordens
  form <ordem>                        show an ordem's questionnaire
  start <ordem> -lat <y> -lng <x>     verify you are on site and open a draft
  answer <ordem> <pergunta> <value>   stage an answer on the draft
  attach <ordem> <pergunta> <file|url> stage a photo attachment
  sign <ordem> <pergunta> <file>      stage a signature image
  submit <ordem>                      validate and submit the draft
  review <ordem>                      show submitted answers and edit window
  amend <ordem>                       push staged changes to a submission`

// Run dispatches a subcommand. The context is cancelled when the user
// interrupts the process, aborting any in-flight request.
func Run(ctx context.Context, app app.App, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return Login(ctx, app, rest)
	case "logout":
		return Logout(app)
	case "orders":
		return Orders(ctx, app, rest)
	case "form":
		return Form(ctx, app, rest)
	case "start":
		return Start(ctx, app, rest)
	case "answer":
		return Answer(ctx, app, rest)
	case "attach":
		return Attach(ctx, app, rest)
	case "sign":
		return Sign(app, rest)
	case "submit":
		return Submit(ctx, app, rest)
	case "review":
		return Review(ctx, app, rest)
	case "amend":
		return Amend(ctx, app, rest)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func ordemArg(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("missing ordem id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, nil, fmt.Errorf("invalid ordem id %q", args[0])
	}
	return id, args[1:], nil
}

func perguntaArg(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("missing pergunta id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, nil, fmt.Errorf("invalid pergunta id %q", args[0])
	}
	return id, args[1:], nil
}
