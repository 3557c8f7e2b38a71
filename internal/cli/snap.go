// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/mathly-tui/internal/capture"
	"github.com/jeranaias/mathly-tui/internal/conversation"
)

const (
	// captureAttempts bounds how long snap waits for a first frame.
	captureAttempts   = 20
	captureRetryDelay = 250 * time.Millisecond
)

func newSnapCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snap",
		Short: "Photograph a problem and send it",
		Long: `Capture one frame from the camera (or the --image file) and send it
to Mathly as a picture of the problem.`,
		Example: `  mathly snap
  mathly snap --image homework.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSnap(cmd)
		},
	}
}

func (a *app) runSnap(cmd *cobra.Command) error {
	conv := conversation.New(a.client, conversation.Discard, a.logger)
	cam := capture.NewController(a.camera(), a.constraints(), a.logger)

	dataURL, err := takePhoto(cmd.Context(), cam, a.logger)
	if err != nil {
		msg := conv.ReportCameraFailure(err)
		fmt.Fprintln(cmd.ErrOrStderr(), msg.Text)
		return fmt.Errorf("snap: %w", err)
	}

	req, _ := conv.SubmitImage(dataURL)
	return a.answer(cmd, conv, req)
}

// takePhoto opens the camera, captures the first available frame and
// releases the device. The result is a JPEG data URL.
func takePhoto(ctx context.Context, c *capture.Controller, logger *zap.Logger) (string, error) {
	if err := c.Open(ctx); err != nil {
		return "", err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn("camera close", zap.Error(err))
		}
	}()

	for i := 1; ; i++ {
		err := c.Capture()
		if err == nil {
			return c.Send()
		}
		if !errors.Is(err, capture.ErrNoFrame) || i == captureAttempts {
			return "", err
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(captureRetryDelay):
		}
	}
}
