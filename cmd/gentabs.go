package cmd

import (
	"fmt"
	"os"

	"github.com/harpsync/harpsync/midi"
	"github.com/harpsync/harpsync/pitchmap"
	"github.com/harpsync/harpsync/tabgen"
	"github.com/harpsync/harpsync/tabtext"
	"github.com/spf13/cobra"
)

var (
	gentabsKey    string
	gentabsOut    string
	gentabsStrict bool
)

func init() {
	gentabsCmd.Flags().StringVarP(&gentabsKey, "key", "k", "", "harmonica key (defaults to config)")
	gentabsCmd.Flags().StringVarP(&gentabsOut, "out", "o", "", "output tab file (stdout when empty)")
	gentabsCmd.Flags().BoolVar(&gentabsStrict, "strict", false, "fail on pitches unplayable in the chosen key")
	rootCmd.AddCommand(gentabsCmd)
}

var gentabsCmd = &cobra.Command{
	Use:   "gentabs <midi-file>",
	Short: "Generate a tab file from a MIDI performance",
	Long:  `Generates tab notation text from MIDI note events. The output parses back into the same structure, so it can go straight into align.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		key := gentabsKey
		if key == "" {
			key = cfg.Key
		}

		mapper, err := pitchmap.ForKey(key)
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}

		smfData, err := midi.ReadFile(args[0])
		if err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		events := midi.Extract(smfData, midi.Options{
			FixOverlaps: cfg.FixOverlaps,
			MinDuration: cfg.MinDuration,
		})

		policy := pitchmap.Warn
		if gentabsStrict {
			policy = pitchmap.Strict
		}
		gencfg := tabgen.DefaultConfig()
		gencfg.ChordTolerance = cfg.ChordThreshold
		doc, dropped, err := tabgen.Generate(events, mapper, policy, gencfg)
		if err != nil {
			fmt.Printf("Tab generation failed: %v\n", err)
			os.Exit(1)
		}
		for _, u := range dropped {
			fmt.Printf("Warning: dropped %v\n", u)
		}

		text := tabtext.Render(doc)
		if gentabsOut == "" {
			fmt.Print(text)
			return
		}
		if err := os.WriteFile(gentabsOut, []byte(text), 0666); err != nil {
			panic("Could not write tab file: " + err.Error())
		}
		fmt.Printf("Wrote %v pages to %v\n", len(doc.Pages), gentabsOut)
	},
}
