package configs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

// stationFile is the on-disk shape of the station table
type stationFile struct {
	Stations []*common.StationDescriptor `yaml:"stations"`
}

var validAPITypes = map[common.APIType]bool{
	common.APITypeTriton:         true,
	common.APITypeStreamTheWorld: true,
	common.APITypeSomaFM:         true,
	common.APITypeCustom:         true,
	common.APITypeAuto:           true,
}

// LoadStations reads the station table from a YAML file and returns it
// keyed by station id
func LoadStations(path string) (map[string]*common.StationDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stations file: %w", err)
	}

	var file stationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing stations file %s: %w", path, err)
	}
	if len(file.Stations) == 0 {
		return nil, fmt.Errorf("stations file %s defines no stations", path)
	}

	stations := make(map[string]*common.StationDescriptor, len(file.Stations))
	for _, station := range file.Stations {
		if err := validateStation(station); err != nil {
			return nil, err
		}
		if _, exists := stations[station.StationID]; exists {
			return nil, fmt.Errorf("duplicate station id %q", station.StationID)
		}
		stations[station.StationID] = station
	}
	return stations, nil
}

func validateStation(station *common.StationDescriptor) error {
	if station.StationID == "" {
		return fmt.Errorf("station with empty station_id")
	}
	if station.DisplayName == "" {
		return fmt.Errorf("station %s: display_name is required", station.StationID)
	}
	if station.APIType == "" {
		station.APIType = common.APITypeAuto
	}
	if !validAPITypes[station.APIType] {
		return fmt.Errorf("station %s: unknown api_type %q", station.StationID, station.APIType)
	}
	if station.APIURL == "" {
		return fmt.Errorf("station %s: api_url is required", station.StationID)
	}
	return nil
}
