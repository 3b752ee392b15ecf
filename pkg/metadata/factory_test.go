package metadata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywavefm/nowplaying/pkg/logging"
	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

// stubAdapter is a canned-response adapter for factory tests
type stubAdapter struct {
	apiType common.APIType
	track   *common.Track
	err     error
	calls   int
}

func (s *stubAdapter) Type() common.APIType {
	return s.apiType
}

func (s *stubAdapter) Fetch(ctx context.Context, station *common.StationDescriptor) (*common.Track, error) {
	s.calls++
	return s.track, s.err
}

func newTestFactory() *Factory {
	return NewFactory(time.Second, logging.NewTestLogger())
}

func TestNewFactoryRegistersDefaultAdapters(t *testing.T) {
	factory := newTestFactory()

	for _, apiType := range []common.APIType{
		common.APITypeTriton,
		common.APITypeStreamTheWorld,
		common.APITypeSomaFM,
		common.APITypeCustom,
	} {
		adapter, err := factory.AdapterFor(apiType)
		assert.NoError(t, err, "adapter for %s", apiType)
		assert.NotNil(t, adapter)
	}

	assert.Len(t, factory.SupportedTypes(), 4)
}

func TestAdapterForUnsupportedType(t *testing.T) {
	factory := newTestFactory()

	adapter, err := factory.AdapterFor("shoutcast")
	assert.Nil(t, adapter)
	require.Error(t, err)

	var srcErr *common.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, common.ErrCodeUnsupported, srcErr.Code)
}

func TestRegisterReplacesAdapter(t *testing.T) {
	factory := newTestFactory()
	stub := &stubAdapter{apiType: common.APITypeTriton}
	factory.Register(stub)

	adapter, err := factory.AdapterFor(common.APITypeTriton)
	require.NoError(t, err)
	assert.Same(t, stub, adapter)
}

func TestFetchDispatchesByConfiguredType(t *testing.T) {
	factory := newTestFactory()
	stub := &stubAdapter{
		apiType: common.APITypeSomaFM,
		track:   &common.Track{Title: "Aurora", Artist: "Helios"},
	}
	factory.Register(stub)

	station := &common.StationDescriptor{
		StationID: "groove-salad",
		APIType:   common.APITypeSomaFM,
	}

	track, err := factory.Fetch(context.Background(), station)
	require.NoError(t, err)
	require.NotNil(t, track)
	assert.Equal(t, "Aurora", track.Title)
	assert.Equal(t, 1, stub.calls)
}

func TestFetchAutoProbesAndMemoizes(t *testing.T) {
	factory := newTestFactory()

	// First two probe candidates fail or miss; the third one hits
	stw := &stubAdapter{apiType: common.APITypeStreamTheWorld, err: errors.New("refused")}
	tri := &stubAdapter{apiType: common.APITypeTriton}
	soma := &stubAdapter{
		apiType: common.APITypeSomaFM,
		track:   &common.Track{Title: "Aurora", Artist: "Helios"},
	}
	cust := &stubAdapter{apiType: common.APITypeCustom}
	factory.Register(stw)
	factory.Register(tri)
	factory.Register(soma)
	factory.Register(cust)

	station := &common.StationDescriptor{
		StationID: "mystery-station",
		APIType:   common.APITypeAuto,
	}

	track, err := factory.Fetch(context.Background(), station)
	require.NoError(t, err)
	require.NotNil(t, track)
	assert.Equal(t, "Aurora", track.Title)

	detected, ok := factory.DetectedType("mystery-station")
	require.True(t, ok)
	assert.Equal(t, common.APITypeSomaFM, detected)

	// The custom adapter sits after the winner and must not run
	assert.Equal(t, 0, cust.calls)

	// Subsequent fetches go straight to the memoized adapter
	_, err = factory.Fetch(context.Background(), station)
	require.NoError(t, err)
	assert.Equal(t, 1, stw.calls)
	assert.Equal(t, 1, tri.calls)
	assert.Equal(t, 2, soma.calls)
}

func TestFetchAutoAllProbesMissIsMiss(t *testing.T) {
	factory := newTestFactory()
	for _, apiType := range []common.APIType{
		common.APITypeStreamTheWorld,
		common.APITypeTriton,
		common.APITypeSomaFM,
		common.APITypeCustom,
	} {
		factory.Register(&stubAdapter{apiType: apiType})
	}

	station := &common.StationDescriptor{
		StationID: "dead-station",
		APIType:   common.APITypeAuto,
	}

	track, err := factory.Fetch(context.Background(), station)
	assert.NoError(t, err)
	assert.Nil(t, track)

	// No memo is written on a failed probe; the next poll probes again
	_, ok := factory.DetectedType("dead-station")
	assert.False(t, ok)
}
