package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/lamim/horrorforge/internal/logging"
	"github.com/lamim/horrorforge/internal/metrics"
	"github.com/lamim/horrorforge/internal/story"
	"github.com/lamim/horrorforge/pkg/models"
)

var (
	characterName string
	situation     string
	lineCount     int
)

func newGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one story and print it",
		RunE:  runGenerate,
	}

	generateCmd.Flags().StringVar(&characterName, "character", "", "Character name")
	generateCmd.Flags().StringVar(&situation, "situation", "", "Situation or setting")
	generateCmd.Flags().IntVar(&lineCount, "lines", 10, "Number of lines")

	return generateCmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	req := models.StoryRequest{
		CharacterName: characterName,
		Situation:     situation,
		LineCount:     lineCount,
	}
	if err := story.Validate(req, rt.cfg.Story); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.New().String()
	ctx = logging.WithLogger(ctx, rt.logger.With("run_id", runID))

	service := story.NewService(rt.provider, rt.cfg.Story, metrics.NewCollector(), rt.logger)

	bar := progressbar.Default(-1, "Generating your horror story...")
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	resp, err := service.Submit(ctx, req)
	close(done)
	_ = bar.Clear()
	_ = bar.Finish()

	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Your Horror Story:")
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
	return nil
}
