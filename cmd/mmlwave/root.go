package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cbegin/mmlwave-go"
)

var rootCmd = &cobra.Command{
	Use:   "mmlwave",
	Short: "Play and render MML scores with sampled instruments",
	Long: `mmlwave turns MML scores ("MML@ t120 cdefgab>c ;") into audio.
Notes play from pre-loaded WAV samples when available and fall back to a
sine tone otherwise.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func resolveScore(path, inline string) (string, error) {
	if strings.TrimSpace(inline) != "" {
		return inline, nil
	}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("provide a score with --mml or --file")
}

// loadSampleDir loads every "<instrument>_<note>.wav" in dir into the
// player's bank; failures are reported but never abort the batch.
func loadSampleDir(p *mmlwave.Player, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var refs []mmlwave.SampleRef
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".wav") {
			continue
		}
		base := strings.TrimSuffix(name, filepath.Ext(name))
		parts := strings.SplitN(base, "_", 2)
		if len(parts) != 2 {
			continue
		}
		refs = append(refs, mmlwave.SampleRef{
			Instrument: parts[0],
			Note:       strings.ToUpper(parts[1]),
			Path:       filepath.Join(dir, name),
		})
	}
	for i, ok := range p.LoadSamples(refs) {
		if !ok {
			fmt.Fprintf(os.Stderr, "skipping %s: load failed\n", refs[i].Path)
		}
	}
	return nil
}
