package cmd

import (
	"fmt"
	"os"

	"github.com/harpsync/harpsync/midi"
	"github.com/harpsync/harpsync/pitchmap"
	"github.com/spf13/cobra"
)

var inspectKey string

func init() {
	inspectCmd.Flags().StringVarP(&inspectKey, "key", "k", "", "also show mapped holes for this key")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <midi-file>",
	Short: "Dump extracted note events from a MIDI file",
	Long:  `Dumps extracted note events from a MIDI file`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		smfData, err := midi.ReadFile(args[0])
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		events := midi.Extract(smfData, midi.Options{
			FixOverlaps: cfg.FixOverlaps,
			MinDuration: cfg.MinDuration,
		})

		var mapper *pitchmap.Mapper
		if inspectKey != "" {
			mapper, err = pitchmap.ForKey(inspectKey)
			if err != nil {
				fmt.Printf("%v\n", err)
				os.Exit(1)
			}
		}

		for i, ev := range events {
			fmt.Printf("%4d  pitch=%3d  t=%8.3f  dur=%6.3f  vel=%.2f", i, ev.Pitch, ev.Start, ev.Duration, ev.Velocity)
			if mapper != nil {
				if h, ok := mapper.HoleForPitch(ev.Pitch); ok {
					bend := ""
					if h.Bend {
						bend = "'"
					}
					fmt.Printf("  hole=%v%v", h.Hole, bend)
				} else {
					fmt.Printf("  hole=unmapped")
				}
			}
			fmt.Println()
		}
		fmt.Printf("%v events total\n", len(events))
	},
}
