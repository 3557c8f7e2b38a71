// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/mathly-tui/internal/conversation"
	"github.com/jeranaias/mathly-tui/internal/mathfmt"
)

func newCalcCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "calc <expression>",
		Short:   "Evaluate an expression on the backend",
		Example: `  mathly calc "2^10 + sqrt(16)"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := strings.Join(args, " ")
			result, err := a.client.Calculate(cmd.Context(), expr)
			if err != nil {
				return a.commandFailed(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), mathfmt.Format(expr+" = "+result))
			return nil
		},
	}
}

func newFormulaCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formula <category> [topic]",
		Short: "Look up a formula",
		Example: `  mathly formula geometry
  mathly formula algebra quadratic formula`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args[1:], " ")
			text, err := a.client.Formula(cmd.Context(), args[0], topic)
			if err != nil {
				return a.commandFailed(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), mathfmt.Format(text))
			return nil
		},
	}
}

// commandFailed prints the apology for err and returns err for cobra.
func (a *app) commandFailed(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), conversation.Apology(err))
	return fmt.Errorf("%s: %w", cmd.Name(), err)
}
