package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/cxdash/internal/chat"
	"github.com/theirongolddev/cxdash/internal/config"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask QUESTION...",
	Short: "Send one question to the chat endpoint",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(os.Stderr)

	session := chat.NewSession()
	q, err := session.SubmitErr(strings.Join(args, " "))
	if err != nil {
		return err
	}

	answer, err := newRemote(cfg).Ask(context.Background(), q)
	session.Resolve(answer, err)
	if err != nil {
		log.Warn("chat request failed", "url", cfg.Remote.ChatURL, "err", err)
	}

	msgs := session.Messages()
	reply := msgs[len(msgs)-1]
	fmt.Println()
	fmt.Printf("  %s\n", reply.Text)
	fmt.Println()
	if reply.Failed {
		return fmt.Errorf("chat request failed: %w", err)
	}
	return nil
}
