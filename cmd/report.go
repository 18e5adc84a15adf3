package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harpsync/harpsync/db"
	"github.com/harpsync/harpsync/model"
	"github.com/spf13/cobra"
)

var reportKey string

func init() {
	reportCmd.Flags().StringVarP(&reportKey, "key", "k", "", "harmonica key (defaults to config)")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <midi-file> <tab-file>",
	Short: "Validate a tab file against a MIDI performance",
	Long:  `Aligns without writing artifacts and prints the match report, so tab/MIDI mismatches can be fixed iteratively.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		key := reportKey
		if key == "" {
			key = cfg.Key
		}

		s, err := processSong(args[0], args[1], key, cfg)
		if err != nil {
			fmt.Printf("Alignment failed: %v\n", err)
			os.Exit(1)
		}

		printHeader(args[0], s.key)
		printReport(s.result.Report, s.doc.NumNotes(), len(s.events))
		if !s.result.Report.Clean() {
			os.Exit(2)
		}
	},
}

func printHeader(midiPath, key string) {
	fmt.Printf("Report for %v (key of %v)\n", midiPath, key)
	if !db.Enabled() {
		return
	}
	filename := filepath.Base(midiPath)
	metadatas := db.GetSongMetadatas([]string{filename})
	if md, ok := metadatas[filename]; ok {
		fmt.Printf("Song: %v - %v (%v, %v)\n", md.Artist, md.Title, md.Release, md.Year)
	}
}

func printReport(r model.MatchReport, tabNotes, midiEvents int) {
	fmt.Printf("Tab notes: %v, MIDI events: %v\n", tabNotes, midiEvents)
	fmt.Printf("Matched: %v\n", r.Matched)

	for _, w := range r.Wrong {
		fmt.Printf("  wrong note at page %v line %v pos %v: tab says %v, MIDI pitch %v maps to %v (t=%.3fs)\n",
			w.Page+1, w.Line+1, w.Pos+1, w.WantHole, w.Pitch, w.GotHole, w.Time)
	}
	for _, e := range r.Extra {
		fmt.Printf("  extra MIDI note: pitch %v (hole %v) at %.3fs\n", e.Pitch, e.Hole, e.Time)
	}
	for _, m := range r.Missing {
		fmt.Printf("  missing MIDI note for hole %v at page %v line %v pos %v\n",
			m.Hole, m.Page+1, m.Line+1, m.Pos+1)
	}

	if r.Clean() {
		fmt.Println("Tab and MIDI line up.")
	} else {
		fmt.Printf("%v wrong, %v extra, %v missing\n", len(r.Wrong), len(r.Extra), len(r.Missing))
	}
}
