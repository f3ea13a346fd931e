package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plastinin/srtmexport/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testAOI = domain.NewPolygonAOI([][2]float64{
	{-85.93, 16.08}, {-85.93, 15.69}, {-85.40, 15.69}, {-85.40, 16.08},
})

func newTestExportUseCase(ee *fakeEarthEngine, storage ArtifactStorage, dest Destination) (*ExportUseCase, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	clock := newFakeClock()
	poller := NewTaskPoller(ee, DefaultPollInterval, logger)
	poller.now = clock.now
	poller.sleep = clock.sleep

	uc := NewExportUseCase(ee, poller, storage, ExportSettings{
		Destination: dest,
		Timeout:     time.Hour,
	}, logger)
	return uc, logs
}

// exportJSON кодирует выражение экспорта для проверок
func exportJSON(t *testing.T, export ImageExport) string {
	t.Helper()
	data, err := json.Marshal(export.Image.Expression())
	require.NoError(t, err)
	return string(data)
}

func TestExportInvalidResolution(t *testing.T) {
	for _, res := range []domain.Resolution{0, 10, 60, 100} {
		ee := newFakeEarthEngine()
		uc, _ := newTestExportUseCase(ee, nil, Destination{Kind: DestinationDrive})

		req := domain.NewExportRequest(testAOI)
		req.Resolution = res

		_, err := uc.Export(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrInvalidResolution)
		assert.Empty(t, ee.exports, "no remote call expected for resolution %d", res)
		assert.Empty(t, ee.polls)
	}
}

func TestExportInvalidProduct(t *testing.T) {
	ee := newFakeEarthEngine()
	uc, _ := newTestExportUseCase(ee, nil, Destination{Kind: DestinationDrive})

	req := domain.NewExportRequest(testAOI)
	req.Product = "roughness"

	_, err := uc.Export(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)
	assert.Empty(t, ee.exports)
	assert.Empty(t, ee.polls)
}

func TestExportElevation30(t *testing.T) {
	ee := newFakeEarthEngine()
	uc, logs := newTestExportUseCase(ee, nil, Destination{Kind: DestinationDrive, Folder: "srtm"})

	req := domain.NewExportRequest(testAOI)
	req.Resolution = domain.Resolution30
	req.Product = domain.ProductElevation

	result, err := uc.Export(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Finished)
	assert.Equal(t, []string{"TASK1"}, result.TaskIDs)
	assert.Empty(t, result.Artifacts)

	require.Len(t, ee.exports, 1)
	export := ee.exports[0]
	assert.Equal(t, "elevation_30", export.FilePrefix)
	assert.Equal(t, "export_elevation_30", export.Description)
	assert.Equal(t, FileFormatGeoTIFF, export.FileFormat)
	assert.Equal(t, "EPSG:4326", export.CRS)
	assert.Equal(t, 1e13, export.MaxPixels)
	assert.Equal(t, "srtm", export.Destination.Folder)
	assert.NotEqual(t, uuid.Nil, export.RequestID)

	root := export.Image.Node()
	assert.Equal(t, "Image.clipToBoundsAndScale", root.Function)
	assert.Equal(t, 30.0, root.Args["scale"].Constant)

	unmask := root.Args["input"]
	require.Equal(t, "Image.unmask", unmask.Function)
	assert.Equal(t, 32767.0, unmask.Args["value"].Constant)

	body := exportJSON(t, export)
	assert.Contains(t, body, `"constantValue":"USGS/SRTMGL1_003"`)
	assert.NotContains(t, body, "CGIAR/SRTM90_V4")

	assert.Equal(t, 1, logs.FilterMessage("Exporting").Len())
}

func TestExportProductsNoData(t *testing.T) {
	cases := []struct {
		product  domain.Product
		function string
	}{
		{domain.ProductSlope, "Terrain.slope"},
		{domain.ProductAspect, "Terrain.aspect"},
		{domain.ProductHillshade, "Terrain.hillshade"},
	}

	for _, tc := range cases {
		t.Run(tc.product.String(), func(t *testing.T) {
			ee := newFakeEarthEngine()
			uc, _ := newTestExportUseCase(ee, nil, Destination{Kind: DestinationDrive})

			req := domain.NewExportRequest(testAOI)
			req.Resolution = domain.Resolution90
			req.Product = tc.product

			_, err := uc.Export(context.Background(), req)
			require.NoError(t, err)
			require.Len(t, ee.exports, 1)

			export := ee.exports[0]
			unmask := export.Image.Node().Args["input"]
			assert.Equal(t, 0.0, unmask.Args["value"].Constant)

			derived := unmask.Args["input"]
			assert.Equal(t, "Image.clip", derived.Function)
			assert.Equal(t, tc.function, derived.Args["input"].Function)

			body := exportJSON(t, export)
			assert.Contains(t, body, "CGIAR/SRTM90_V4")
			assert.Equal(t, tc.product.String()+"_90", export.FilePrefix)
		})
	}
}

func TestExportHillshadeIllumination(t *testing.T) {
	ee := newFakeEarthEngine()
	uc, _ := newTestExportUseCase(ee, nil, Destination{Kind: DestinationDrive})

	req := domain.NewExportRequest(testAOI)
	req.Product = domain.ProductHillshade

	_, err := uc.Export(context.Background(), req)
	require.NoError(t, err)

	hillshade := ee.exports[0].Image.Node().Args["input"].Args["input"].Args["input"]
	require.Equal(t, "Terrain.hillshade", hillshade.Function)
	assert.Equal(t, 315.0, hillshade.Args["azimuth"].Constant)
	assert.Equal(t, 45.0, hillshade.Args["elevation"].Constant)
}

func TestExportTimeout(t *testing.T) {
	ee := newFakeEarthEngine()
	ee.script("TASK1", domain.Task{State: domain.TaskStateRunning})
	storage := &fakeStorage{}
	uc, _ := newTestExportUseCase(ee, storage, Destination{Kind: DestinationGCS, Bucket: "b"})
	uc.settings.Timeout = 5 * time.Second

	result, err := uc.Export(context.Background(), domain.NewExportRequest(testAOI))
	require.NoError(t, err)
	assert.False(t, result.Finished)
	assert.Empty(t, storage.prefixes)
}

func TestExportSubmitError(t *testing.T) {
	ee := newFakeEarthEngine()
	ee.exportErr = errors.New("quota exceeded")
	uc, _ := newTestExportUseCase(ee, nil, Destination{Kind: DestinationDrive})

	_, err := uc.Export(context.Background(), domain.NewExportRequest(testAOI))
	assert.ErrorIs(t, err, ee.exportErr)
	assert.Empty(t, ee.polls)
}

func TestExportLocatesArtifacts(t *testing.T) {
	ee := newFakeEarthEngine()
	storage := &fakeStorage{artifacts: map[string][]domain.Artifact{
		"hillshade_30": {{Key: "hillshade_30.tif", Size: 1024, URL: "https://example/hillshade_30.tif"}},
	}}
	uc, _ := newTestExportUseCase(ee, storage, Destination{Kind: DestinationGCS, Bucket: "b"})

	req := domain.NewExportRequest(testAOI)
	req.Product = domain.ProductHillshade

	result, err := uc.Export(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"hillshade_30"}, storage.prefixes)
	require.Len(t, result.Artifacts, 1)
	assert.Equal(t, "hillshade_30.tif", result.Artifacts[0].Key)
}

func TestExportSkipsArtifactsForDrive(t *testing.T) {
	ee := newFakeEarthEngine()
	storage := &fakeStorage{}
	uc, _ := newTestExportUseCase(ee, storage, Destination{Kind: DestinationDrive})

	_, err := uc.Export(context.Background(), domain.NewExportRequest(testAOI))
	require.NoError(t, err)
	assert.Empty(t, storage.prefixes)
}

func TestExportArtifactListError(t *testing.T) {
	ee := newFakeEarthEngine()
	storage := &fakeStorage{err: errors.New("access denied")}
	uc, logs := newTestExportUseCase(ee, storage, Destination{Kind: DestinationGCS})

	result, err := uc.Export(context.Background(), domain.NewExportRequest(testAOI))
	require.NoError(t, err)
	assert.True(t, result.Finished)
	assert.Empty(t, result.Artifacts)
	assert.Equal(t, 1, logs.FilterMessage("Failed to list exported files").Len())
}

func TestExportAll(t *testing.T) {
	ee := newFakeEarthEngine()
	uc, _ := newTestExportUseCase(ee, nil, Destination{Kind: DestinationDrive})

	req := domain.NewExportRequest(testAOI)
	req.Product = "ignored"

	result, err := uc.ExportAll(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Finished)
	assert.Equal(t, []string{"TASK1", "TASK2", "TASK3", "TASK4"}, result.TaskIDs)

	require.Len(t, ee.exports, 4)
	prefixes := make([]string, len(ee.exports))
	for i, e := range ee.exports {
		prefixes[i] = e.FilePrefix
	}
	assert.Equal(t, []string{"elevation_30", "slope_30", "aspect_30", "hillshade_30"}, prefixes)
}

func TestExportAllSubmitFailureReportsStartedTasks(t *testing.T) {
	ee := newFakeEarthEngine()
	ee.exportErr = errors.New("quota exceeded")
	ee.exportErrAfter = 2
	uc, _ := newTestExportUseCase(ee, nil, Destination{Kind: DestinationDrive})

	result, err := uc.ExportAll(context.Background(), domain.NewExportRequest(testAOI))
	assert.Nil(t, result)
	require.ErrorIs(t, err, ee.exportErr)
	assert.Contains(t, err.Error(), "aspect after starting tasks TASK1, TASK2")
	assert.Len(t, ee.exports, 2)
}

func TestExportAllInvalidResolution(t *testing.T) {
	ee := newFakeEarthEngine()
	uc, _ := newTestExportUseCase(ee, nil, Destination{Kind: DestinationDrive})

	req := domain.NewExportRequest(testAOI)
	req.Resolution = 250

	_, err := uc.ExportAll(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidResolution)
	assert.Empty(t, ee.exports)
}

func TestNewExportUseCaseDefaultMaxPixels(t *testing.T) {
	uc := NewExportUseCase(newFakeEarthEngine(), nil, nil, ExportSettings{}, zap.NewNop())
	assert.Equal(t, DefaultMaxPixels, uc.settings.MaxPixels)
}

func TestDestinationValidate(t *testing.T) {
	assert.NoError(t, Destination{Kind: DestinationDrive}.Validate())
	assert.NoError(t, Destination{}.Validate())
	assert.NoError(t, Destination{Kind: DestinationGCS, Bucket: "srtm-exports"}.Validate())

	assert.ErrorIs(t, Destination{Kind: DestinationGCS}.Validate(), ErrInvalidDestination)
	assert.ErrorIs(t, Destination{Kind: "dropbox"}.Validate(), ErrInvalidDestination)
}
