package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cbegin/mmlwave-go"
	"github.com/cbegin/mmlwave-go/internal/samplebank"
)

var renderFlags struct {
	mml        string
	file       string
	instrument string
	samples    string
	sampleRate int
	channels   int
	out        string
}

func init() {
	renderCmd.Flags().StringVar(&renderFlags.mml, "mml", "", "inline MML score")
	renderCmd.Flags().StringVar(&renderFlags.file, "file", "", "path to an MML score file")
	renderCmd.Flags().StringVar(&renderFlags.instrument, "instrument", "piano", "instrument name for every staff")
	renderCmd.Flags().StringVar(&renderFlags.samples, "samples", "", "directory of <instrument>_<note>.wav samples")
	renderCmd.Flags().IntVar(&renderFlags.sampleRate, "sample-rate", 44100, "render sample rate")
	renderCmd.Flags().IntVar(&renderFlags.channels, "channels", 2, "render channel count (1 or 2)")
	renderCmd.Flags().StringVar(&renderFlags.out, "out", "", "output WAV path (default mmlwave-<id>.wav)")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render an MML score to a 16-bit PCM WAV file",
	Run: func(cmd *cobra.Command, args []string) {
		score, err := resolveScore(renderFlags.file, renderFlags.mml)
		if err != nil {
			log.Fatal(err)
		}
		bank := samplebank.NewBank()
		if renderFlags.samples != "" {
			p, err := mmlwave.NewPlayer(mmlwave.WithBank(bank))
			if err != nil {
				log.Fatal(err)
			}
			if err := loadSampleDir(p, renderFlags.samples); err != nil {
				log.Fatal(err)
			}
		}
		data, err := mmlwave.RenderMML(score, renderFlags.instrument, bank, renderFlags.sampleRate, renderFlags.channels)
		if err != nil {
			log.Fatal(err)
		}
		out := renderFlags.out
		if out == "" {
			out = fmt.Sprintf("mmlwave-%s.wav", uuid.New())
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			log.Fatal(err)
		}
		frames := (len(data) - 44) / (2 * renderFlags.channels)
		seconds := float64(frames) / float64(renderFlags.sampleRate)
		fmt.Printf("wrote %s (%.2fs, %d bytes)\n", out, seconds, len(data))
	},
}
