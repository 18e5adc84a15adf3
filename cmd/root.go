package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "harpsync",
	Short: "Sync harmonica tab notation with MIDI performances",
	Long:  `Aligns tab notation files against MIDI note events and computes the lit intervals that drive the hole and tab-page animations.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
