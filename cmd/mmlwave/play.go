package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/cbegin/mmlwave-go"
)

var playFlags struct {
	mml        string
	file       string
	instrument string
	samples    string
	sampleRate int
	volume     float64
}

func init() {
	playCmd.Flags().StringVar(&playFlags.mml, "mml", "", "inline MML score")
	playCmd.Flags().StringVar(&playFlags.file, "file", "", "path to an MML score file")
	playCmd.Flags().StringVar(&playFlags.instrument, "instrument", "piano", "instrument name for every staff")
	playCmd.Flags().StringVar(&playFlags.samples, "samples", "", "directory of <instrument>_<note>.wav samples")
	playCmd.Flags().IntVar(&playFlags.sampleRate, "sample-rate", 48000, "output sample rate")
	playCmd.Flags().Float64Var(&playFlags.volume, "volume", 1.0, "master volume scalar")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an MML score through the audio device",
	Run: func(cmd *cobra.Command, args []string) {
		score, err := resolveScore(playFlags.file, playFlags.mml)
		if err != nil {
			log.Fatal(err)
		}
		p, err := mmlwave.NewPlayer(mmlwave.WithSampleRate(playFlags.sampleRate))
		if err != nil {
			log.Fatal(err)
		}
		defer p.Close()
		p.SetMasterVolume(playFlags.volume)
		if playFlags.samples != "" {
			if err := loadSampleDir(p, playFlags.samples); err != nil {
				log.Fatal(err)
			}
		}
		if err := p.PlayMML(score, playFlags.instrument); err != nil {
			log.Fatal(err)
		}
		p.Wait()
		fmt.Println("playback completed")
	},
}
