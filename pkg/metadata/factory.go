// Package metadata selects and runs the upstream adapter for a station.
// One Adapter implementation exists per API family; the Factory holds
// the registry and implements auto-detection by probing registered
// adapters in priority order.
package metadata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skywavefm/nowplaying/pkg/logging"
	"github.com/skywavefm/nowplaying/pkg/metadata/common"
	"github.com/skywavefm/nowplaying/pkg/metadata/custom"
	"github.com/skywavefm/nowplaying/pkg/metadata/somafm"
	"github.com/skywavefm/nowplaying/pkg/metadata/streamtheworld"
	"github.com/skywavefm/nowplaying/pkg/metadata/triton"
)

// DefaultFetchTimeout bounds a single upstream metadata request
const DefaultFetchTimeout = 2500 * time.Millisecond

// Adapter translates one upstream API's wire format into a normalized
// Track. Implementations make a single attempt with a bounded timeout:
// a nil Track with a nil error is a clean miss.
type Adapter interface {
	Type() common.APIType
	Fetch(ctx context.Context, station *common.StationDescriptor) (*common.Track, error)
}

// probeOrder is the fixed priority in which adapters are tried for
// stations configured with api_type "auto". The generic adapter goes
// last because it accepts the widest range of payloads.
var probeOrder = []common.APIType{
	common.APITypeStreamTheWorld,
	common.APITypeTriton,
	common.APITypeSomaFM,
	common.APITypeCustom,
}

// Factory holds the adapter registry and the per-station memo of
// auto-detected API types
type Factory struct {
	adapters map[common.APIType]Adapter
	detected map[string]common.APIType
	mu       sync.RWMutex
	logger   logging.Logger
}

// NewFactory creates a factory with the default adapters registered,
// all sharing the given per-request timeout
func NewFactory(timeout time.Duration, logger logging.Logger) *Factory {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}

	f := &Factory{
		adapters: make(map[common.APIType]Adapter),
		detected: make(map[string]common.APIType),
		logger:   logger,
	}

	f.Register(triton.NewAdapter(timeout))
	f.Register(streamtheworld.NewAdapter(timeout))
	f.Register(somafm.NewAdapter(timeout))
	f.Register(custom.NewAdapter(timeout))

	return f
}

// Register adds or replaces the adapter for its API type
func (f *Factory) Register(adapter Adapter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adapters[adapter.Type()] = adapter
}

// AdapterFor returns the adapter registered for the given API type
func (f *Factory) AdapterFor(apiType common.APIType) (Adapter, error) {
	f.mu.RLock()
	adapter, ok := f.adapters[apiType]
	f.mu.RUnlock()

	if !ok {
		return nil, common.NewSourceError(
			apiType, "", common.ErrCodeUnsupported,
			fmt.Sprintf("unsupported api type: %s", apiType),
			nil,
		)
	}
	return adapter, nil
}

// SupportedTypes returns the registered API types
func (f *Factory) SupportedTypes() []common.APIType {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]common.APIType, 0, len(f.adapters))
	for apiType := range f.adapters {
		types = append(types, apiType)
	}
	return types
}

// Fetch resolves the right adapter for the station and runs it. For
// "auto" stations it probes registered adapters in priority order and
// remembers the first type that yields data, so subsequent polls skip
// the probing cost. The memo is process-lifetime only, and concurrent
// first polls may race to write it; last writer wins and every written
// value is a working one.
func (f *Factory) Fetch(ctx context.Context, station *common.StationDescriptor) (*common.Track, error) {
	apiType := station.APIType
	if apiType == common.APITypeAuto {
		f.mu.RLock()
		memo, ok := f.detected[station.StationID]
		f.mu.RUnlock()
		if ok {
			apiType = memo
		} else {
			return f.probe(ctx, station)
		}
	}

	adapter, err := f.AdapterFor(apiType)
	if err != nil {
		return nil, err
	}
	return adapter.Fetch(ctx, station)
}

// probe tries each adapter in priority order until one returns data
func (f *Factory) probe(ctx context.Context, station *common.StationDescriptor) (*common.Track, error) {
	for _, apiType := range probeOrder {
		adapter, err := f.AdapterFor(apiType)
		if err != nil {
			continue
		}

		track, err := adapter.Fetch(ctx, station)
		if err != nil {
			f.logger.Debug("Probe attempt failed", logging.Fields{
				"station":  station.StationID,
				"api_type": apiType,
				"error":    err.Error(),
			})
			continue
		}
		if track == nil {
			continue
		}

		f.mu.Lock()
		f.detected[station.StationID] = apiType
		f.mu.Unlock()

		f.logger.Info("Auto-detected station API type", logging.Fields{
			"station":  station.StationID,
			"api_type": apiType,
		})
		return track, nil
	}

	return nil, nil
}

// DetectedType returns the memoized API type for an auto station, if
// any probe has succeeded since process start
func (f *Factory) DetectedType(stationID string) (common.APIType, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	apiType, ok := f.detected[stationID]
	return apiType, ok
}
