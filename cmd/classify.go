package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skywavefm/nowplaying/pkg/adscan"
	"github.com/skywavefm/nowplaying/pkg/logging"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a metadata snapshot with the rules table",
	Long: `Runs the metadata-only classification tiers over a title and
artist pair and prints the verdict. Useful for checking what the
rules table makes of a given upstream snapshot.`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().String("title", "", "track title")
	classifyCmd.Flags().String("artist", "", "track artist")
	classifyCmd.Flags().String("description", "", "optional free-text description")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	artist, _ := cmd.Flags().GetString("artist")
	description, _ := cmd.Flags().GetString("description")
	if title == "" && artist == "" && description == "" {
		return fmt.Errorf("at least one of --title, --artist, --description is required")
	}

	classifier := adscan.NewClassifier(logging.Default())
	verdict := classifier.Classify(title, artist, description)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(verdict)
}
