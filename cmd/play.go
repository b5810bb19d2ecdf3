package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play [conversation]",
	Short: "Open the quiz UI, optionally straight into a conversation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) == 1 {
			ref = args[0]
		}
		return runTUI(cmd, ref)
	},
}

// runTUI starts the terminal UI. ref selects a conversation by id or name.
func runTUI(cmd *cobra.Command, ref string) error {
	e, err := openEnv(cmd, "off")
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	svc, err := e.studyService(ctx)
	if err != nil {
		return err
	}

	opts := app.Options{Study: svc}
	if ref != "" {
		conv, err := svc.ResolveConversation(ctx, ref)
		if err != nil {
			return fmt.Errorf("conversation %q: %w", ref, err)
		}
		opts.Conversation = conv
	}
	return app.Run(opts)
}
