// Package pipeline runs the linear fetch: resolve channel, enumerate
// uploads, collect view counts, persist, visualize.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/yt-insights/ytviews/internal/api"
	"github.com/yt-insights/ytviews/internal/chart"
	"github.com/yt-insights/ytviews/internal/models"
	"github.com/yt-insights/ytviews/internal/store"
)

// ErrInvalidOptions is returned when not exactly one of Search and ChannelID is set
var ErrInvalidOptions = errors.New("exactly one of search or channel ID is required")

// Options selects the channel and where the output goes
type Options struct {
	Search    string
	ChannelID string
	OutDir    string
}

// Term is the value the output file is named after
func (o Options) Term() string {
	if o.Search != "" {
		return o.Search
	}
	return o.ChannelID
}

// Validate checks that exactly one channel selector is set
func (o Options) Validate() error {
	if (o.Search == "") == (o.ChannelID == "") {
		return ErrInvalidOptions
	}
	return nil
}

// Presenter displays the chart built from the persisted file
type Presenter interface {
	Show(ctx context.Context, title string, table chart.Table, records []models.VideoRecord) error
}

// Report describes a finished run
type Report struct {
	ChannelID  string
	OutputPath string
	Records    []models.VideoRecord
}

// Pipeline wires the client, the output file and the presenter
type Pipeline struct {
	client    *api.YouTubeClient
	presenter Presenter
	log       *log.Entry
}

// New creates a pipeline. A nil presenter stops the run after the file is written.
func New(client *api.YouTubeClient, presenter Presenter, logger *log.Entry) *Pipeline {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Pipeline{client: client, presenter: presenter, log: logger}
}

// Run executes one fetch. Nothing is written unless every video resolved.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	channelID, err := p.channelID(ctx, opts)
	if err != nil {
		return nil, err
	}
	p.log.Infof("Using channel %s", channelID)

	videos, err := p.client.GetChannelVideos(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect videos for channel %s: %w", channelID, err)
	}

	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	path := store.Path(opts.OutDir, opts.Term())
	if err := store.Save(path, videos); err != nil {
		return nil, err
	}
	p.log.Infof("Saved %d videos to %s", len(videos), path)

	report := &Report{ChannelID: channelID, OutputPath: path, Records: videos}
	if p.presenter == nil {
		return report, nil
	}

	// the chart is built from what was persisted, not the in-memory list
	saved, err := store.Load(path)
	if err != nil {
		return report, err
	}
	if err := p.presenter.Show(ctx, opts.Term(), chart.NewTable(saved), saved); err != nil {
		return report, fmt.Errorf("failed to show chart: %w", err)
	}
	return report, nil
}

func (p *Pipeline) channelID(ctx context.Context, opts Options) (string, error) {
	if opts.ChannelID != "" {
		return opts.ChannelID, nil
	}

	p.log.Infof("Searching for channel %q", opts.Search)
	id, ok := p.client.ResolveChannel(ctx, opts.Search)
	if !ok {
		return "", fmt.Errorf("%w for search %q", api.ErrChannelNotFound, opts.Search)
	}
	return id, nil
}
