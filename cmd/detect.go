package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skywavefm/nowplaying/configs"
	"github.com/skywavefm/nowplaying/internal/deepscan"
	"github.com/skywavefm/nowplaying/pkg/logging"
)

var detectCmd = &cobra.Command{
	Use:   "detect <station-id|stream-url>",
	Short: "Run a deep advertisement scan against a live stream",
	Long: `Captures a short window of live audio from the station's stream,
transcribes it, and classifies the transcript. Requires a configured
deepscan api_key (NOWPLAYING_DEEPSCAN_API_KEY).`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scanner := deepscan.NewScanner(deepscan.Config{
		Endpoint:     cfg.DeepScan.Endpoint,
		APIKey:       cfg.DeepScan.APIKey,
		STTModel:     cfg.DeepScan.STTModel,
		LLMModel:     cfg.DeepScan.LLMModel,
		SampleWindow: cfg.DeepScan.SampleWindow,
	}, logging.Default())

	if !scanner.Enabled() {
		return fmt.Errorf("deep scan is not configured: set deepscan.api_key")
	}

	streamURL := args[0]
	if stations, err := configs.LoadStations(cfg.Stations.File); err == nil {
		if station, ok := stations[streamURL]; ok {
			if station.StreamURL == "" {
				return fmt.Errorf("station %s has no stream url", station.StationID)
			}
			streamURL = station.StreamURL
		}
	}

	result, err := scanner.Scan(cmd.Context(), streamURL)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
