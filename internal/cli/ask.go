// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/mathly-tui/internal/backend"
	"github.com/jeranaias/mathly-tui/internal/conversation"
)

// errEmptyQuestion is returned when ask gets only whitespace.
var errEmptyQuestion = errors.New("question is empty")

func newAskCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and print the answer",
		Example: `  mathly ask "solve 2x + 3 = 7"
  mathly ask what is the derivative of x^3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAsk(cmd, strings.Join(args, " "))
		},
	}
}

func (a *app) runAsk(cmd *cobra.Command, question string) error {
	conv := conversation.New(a.client, conversation.Discard, a.logger)
	req, ok := conv.SubmitText(question)
	if !ok {
		return errEmptyQuestion
	}
	return a.answer(cmd, conv, req)
}

// answer dispatches req, prints the reply on stdout, or the apology on
// stderr and returns the error.
func (a *app) answer(cmd *cobra.Command, conv *conversation.Controller, req conversation.Request) error {
	res := conv.Dispatch(cmd.Context(), req)
	msg := conv.Resolve(res)
	if msg.IsError {
		fmt.Fprintln(cmd.ErrOrStderr(), msg.Text)
		err := res.Err
		if err == nil {
			err = backend.ErrMalformed
		}
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	a.newPrinter(cmd.OutOrStdout()).message(msg)
	return nil
}
