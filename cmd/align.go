package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/harpsync/harpsync/model"
	"github.com/spf13/cobra"
)

var (
	alignKey string
	alignOut string
)

func init() {
	alignCmd.Flags().StringVarP(&alignKey, "key", "k", "", "harmonica key (defaults to config)")
	alignCmd.Flags().StringVarP(&alignOut, "out", "o", "./out", "output directory for run artifacts")
	rootCmd.AddCommand(alignCmd)
}

var alignCmd = &cobra.Command{
	Use:   "align <midi-file> <tab-file>",
	Short: "Align a tab file against a MIDI performance",
	Long:  `Aligns a tab file against a MIDI performance and writes the timed document, the visual event schedule and the match report as JSON run artifacts.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		key := alignKey
		if key == "" {
			key = cfg.Key
		}

		s, err := processSong(args[0], args[1], key, cfg)
		if err != nil {
			fmt.Printf("Alignment failed: %v\n", err)
			os.Exit(1)
		}

		runDir := filepath.Join(alignOut, uuid.New().String())
		if err := os.MkdirAll(runDir, 0777); err != nil {
			panic("Could not create run dir: " + err.Error())
		}

		writeJSON(filepath.Join(runDir, "timed.json"), s.result.Doc)
		writeJSON(filepath.Join(runDir, "report.json"), s.result.Report)
		writeJSON(filepath.Join(runDir, "schedule.json"), model.ScheduleResponse{
			Holes:   s.sched.Holes,
			Entries: s.sched.Entries,
			Pages:   s.sched.Pages,
		})

		fmt.Printf("Matched %v notes, %v wrong, %v extra, %v missing\n",
			s.result.Report.Matched, len(s.result.Report.Wrong),
			len(s.result.Report.Extra), len(s.result.Report.Missing))
		fmt.Printf("Run artifacts written to %v\n", runDir)
	},
}

func writeJSON(path string, data any) {
	f, err := os.Create(path)
	if err != nil {
		panic("Could not create " + path + ": " + err.Error())
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		panic("Could not write " + path + ": " + err.Error())
	}
}
