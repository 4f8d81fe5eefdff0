package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yt-insights/ytviews/internal/api"
	"github.com/yt-insights/ytviews/internal/config"
	"github.com/yt-insights/ytviews/internal/pipeline"
	"github.com/yt-insights/ytviews/internal/viewer"
)

var errUsage = errors.New("usage")

type flags struct {
	search    string
	id        string
	envFile   string
	outDir    string
	addr      string
	noBrowser bool
	noChart   bool
	verbose   bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "ytviews (--search <text> | --id <channelId>)",
		Short: "Chart the view counts of a YouTube channel's latest uploads",
		Long: `ytviews resolves a YouTube channel by search or ID, fetches the view count of
its latest 50 uploads, saves them to <term>_youtube_data.json and opens a bar
chart of views per video title.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("search") && f.search == "" {
				return fmt.Errorf("%w: --search must not be empty", errUsage)
			}
			if cmd.Flags().Changed("id") && f.id == "" {
				return fmt.Errorf("%w: --id must not be empty", errUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), f)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.search, "search", "", "search for the channel by name")
	fs.StringVar(&f.id, "id", "", "use this channel ID directly")
	fs.StringVar(&f.envFile, "env-file", config.DefaultEnvFile, "dotenv file holding YT_API")
	fs.StringVar(&f.outDir, "out-dir", ".", "directory for the JSON output")
	fs.StringVar(&f.addr, "addr", "127.0.0.1:0", "listen address of the chart viewer")
	fs.BoolVar(&f.noBrowser, "no-browser", false, "do not open the chart in a browser")
	fs.BoolVar(&f.noChart, "no-chart", false, "stop after writing the JSON output")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")

	cmd.MarkFlagsMutuallyExclusive("search", "id")
	cmd.MarkFlagsOneRequired("search", "id")
	return cmd
}

func run(ctx context.Context, f flags) error {
	if f.verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(f.envFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := log.WithField("run_id", uuid.NewString())
	client := api.NewYouTubeClient(cfg, logger)

	var presenter pipeline.Presenter
	if !f.noChart {
		presenter = viewer.New(f.addr, !f.noBrowser, logger)
	}

	_, err = pipeline.New(client, presenter, logger).Run(ctx, pipeline.Options{
		Search:    f.search,
		ChannelID: f.id,
		OutDir:    f.outDir,
	})
	return err
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Errorf("ytviews: %v", err)
		stop()
		os.Exit(1)
	}
}
