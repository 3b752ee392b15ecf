package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skywavefm/nowplaying/configs"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List the configured station table",
	RunE:  runStations,
}

func init() {
	rootCmd.AddCommand(stationsCmd)
}

func runStations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	stations, err := configs.LoadStations(cfg.Stations.File)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(stations))
	for id := range stations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAPI\tGENRE\tFREQUENCY")
	for _, id := range ids {
		s := stations[id]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.StationID, s.DisplayName, s.APIType, s.Genre, s.Frequency)
	}
	return w.Flush()
}
