package cmd

import (
	"fmt"
	"os"

	"github.com/harpsync/harpsync/align"
	"github.com/harpsync/harpsync/config"
	"github.com/harpsync/harpsync/midi"
	"github.com/harpsync/harpsync/model"
	"github.com/harpsync/harpsync/pitchmap"
	"github.com/harpsync/harpsync/schedule"
	"github.com/harpsync/harpsync/tabtext"
	"github.com/harpsync/harpsync/timeline"
)

// song is the fully processed state of one midi + tab pair.
type song struct {
	midiPath string
	tabPath  string
	key      string
	events   []model.NoteEvent
	doc      model.TabDocument
	result   align.Result
	sched    *schedule.Schedule
	tl       *timeline.Timeline
}

func processSong(midiPath, tabPath, key string, cfg config.Config) (*song, error) {
	mapper, err := pitchmap.ForKey(key)
	if err != nil {
		return nil, err
	}

	smfData, err := midi.ReadFile(midiPath)
	if err != nil {
		return nil, err
	}
	events := midi.Extract(smfData, midi.Options{
		FixOverlaps: cfg.FixOverlaps,
		MinDuration: cfg.MinDuration,
	})
	fmt.Printf("Extracted %v note events from %v\n", len(events), midiPath)

	tabBytes, err := os.ReadFile(tabPath)
	if err != nil {
		return nil, fmt.Errorf("could not read tab file: %w", err)
	}
	doc, stats, err := tabtext.ParseWithStats(string(tabBytes))
	if err != nil {
		return nil, err
	}
	fmt.Printf("Parsed %v pages, %v lines, %v notes from %v\n",
		stats.Pages, stats.Lines, stats.Notes, tabPath)

	result, err := align.Align(doc, events, mapper, cfg.ChordThreshold)
	if err != nil {
		return nil, err
	}

	sched, err := schedule.Build(result.Doc, schedule.Config{
		HoleGap:     cfg.HoleGap,
		PagePadding: cfg.PagePadding,
	})
	if err != nil {
		return nil, err
	}

	return &song{
		midiPath: midiPath,
		tabPath:  tabPath,
		key:      mapper.Key(),
		events:   events,
		doc:      doc,
		result:   result,
		sched:    sched,
		tl:       timeline.FromSchedule(sched),
	}, nil
}

func loadConfig() config.Config {
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Printf("Warning: %v, using defaults\n", err)
	}
	return cfg
}
