package resort

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"medi-skimap/internal/area"
	"medi-skimap/internal/features"
	"medi-skimap/internal/pipeline"
	"medi-skimap/internal/projection"
	"medi-skimap/internal/records"
	"medi-skimap/internal/render"
	"medi-skimap/internal/store"
	"medi-skimap/internal/types"

	"github.com/paulmach/orb"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testBounds = types.GeoBounds{MinLon: 9.9, MinLat: 46.9, MaxLon: 10.1, MaxLat: 47.1}

func testResult(t *testing.T) *pipeline.Result {
	t.Helper()
	p, err := projection.New(testBounds, 160, 120)
	if err != nil {
		t.Fatalf("projection.New() unexpected error = %v", err)
	}
	assembly := &features.Assembly{
		Lifts: []features.Lift{
			{OsmID: 1, Name: "Talbahn", Type: "gondola", Status: "open", Capacity: 1800, Geometry: orb.LineString{{9.95, 46.95}, {10.05, 47.05}}},
			{OsmID: 2, Name: "Gipfellift", Type: "t-bar", Status: "closed", Capacity: 900, Geometry: orb.LineString{{10.0, 47.0}, {10.02, 47.02}}},
		},
	}
	raster, _ := render.NewCompositor(testLogger()).Render(p, render.Scene{Lifts: assembly.Lifts})
	return &pipeline.Result{
		Area:     &area.Area{Name: "Testberg", DisplayName: "Testberg, Tirol", Center: orb.Point{10.0, 47.0}, Bounds: testBounds},
		Assembly: assembly,
		Raster:   raster,
		Records:  records.Map(assembly, p),
	}
}

type mockRunner struct {
	result   func(place string) (*pipeline.Result, error)
	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	places   []string
}

func (m *mockRunner) Run(ctx context.Context, place string) (*pipeline.Result, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.peak.Load()
		if n <= peak || m.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	m.mu.Lock()
	m.places = append(m.places, place)
	m.mu.Unlock()
	return m.result(place)
}

type fixedTimezone string

func (f fixedTimezone) ForPoint(orb.Point) string { return string(f) }

// failingSink writes artifacts and then fails the transaction.
type failingSink struct{}

func (failingSink) SaveResort(ctx context.Context, resort records.ResortRecord, set records.Set, write store.ArtifactWriter) (int64, error) {
	if _, err := write(7); err != nil {
		return 0, err
	}
	return 0, errors.New("constraint failed")
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "ski_lifts.db"), testLogger())
	if err != nil {
		t.Fatalf("store.Open() unexpected error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	runner := &mockRunner{result: func(string) (*pipeline.Result, error) { return testResult(t), nil }}
	mapsDir := filepath.Join(dir, "maps")
	l := NewLoader(runner, s, fixedTimezone("Europe/Vienna"), Options{MapsDir: mapsDir, MapsURLPrefix: "/maps/"}, testLogger())

	out := l.Load(context.Background(), Info{Name: "Testberg", Website: "https://testberg.example"})
	if !out.Succeeded() {
		t.Fatalf("Load() error = %v", out.Err)
	}
	if runner.places[0] != "Testberg" {
		t.Errorf("geocoded %q, want the name when location is empty", runner.places[0])
	}

	wantURL := "/maps/ski_map_1.png"
	if out.ImageURL != wantURL {
		t.Errorf("ImageURL = %q, want %q", out.ImageURL, wantURL)
	}
	for _, name := range []string{"ski_map_1.png", "ski_map_1.geojson"} {
		if _, err := os.Stat(filepath.Join(mapsDir, name)); err != nil {
			t.Errorf("artifact %s missing: %v", name, err)
		}
	}

	got, err := s.Resort(context.Background(), out.ResortID)
	if err != nil {
		t.Fatalf("Resort() unexpected error = %v", err)
	}
	if got.ImageURL != wantURL || got.Timezone != "Europe/Vienna" || got.Location != "Testberg, Tirol" {
		t.Errorf("Resort() = %+v", got)
	}
	if got.SnowDepth != records.DefaultSnowDepth || got.WeatherConditions != records.DefaultWeatherConditions {
		t.Errorf("snow_depth=%d weather_conditions=%q, want fixed defaults", got.SnowDepth, got.WeatherConditions)
	}
	if got.TotalLifts != 2 || got.OpenLifts != 1 {
		t.Errorf("lifts total=%d open=%d, want 2/1", got.TotalLifts, got.OpenLifts)
	}

	lifts, err := s.Lifts(context.Background(), out.ResortID)
	if err != nil {
		t.Fatalf("Lifts() unexpected error = %v", err)
	}
	if len(lifts) != 2 || lifts[0].ResortID != out.ResortID {
		t.Errorf("Lifts() = %+v", lifts)
	}
}

func TestLoader_Load_RemovesArtifactsOnStoreFailure(t *testing.T) {
	mapsDir := t.TempDir()
	runner := &mockRunner{result: func(string) (*pipeline.Result, error) { return testResult(t), nil }}
	l := NewLoader(runner, failingSink{}, nil, Options{MapsDir: mapsDir, MapsURLPrefix: "/maps"}, testLogger())

	out := l.Load(context.Background(), Info{Name: "Testberg"})
	if out.Succeeded() {
		t.Fatal("Load() succeeded, want store failure")
	}

	entries, err := os.ReadDir(mapsDir)
	if err != nil {
		t.Fatalf("ReadDir() unexpected error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("maps dir has %d files after failed save, want 0", len(entries))
	}
}

func TestLoader_LoadAll(t *testing.T) {
	infos := []Info{
		{Name: "Alpha"},
		{Name: "Bravo", Location: "Bravo Valley"},
		{Name: "Charlie"},
		{Name: "Delta"},
		{Name: "Echo"},
	}
	res := testResult(t)
	runner := &mockRunner{result: func(place string) (*pipeline.Result, error) {
		if place == "Charlie" {
			return nil, types.ErrNoData
		}
		return res, nil
	}}
	l := NewLoader(runner, nil, nil, Options{Concurrency: 2}, testLogger())

	outcomes := l.LoadAll(context.Background(), infos)
	if len(outcomes) != len(infos) {
		t.Fatalf("len(outcomes) = %d, want %d", len(outcomes), len(infos))
	}
	for i, out := range outcomes {
		if out.Resort.Name != infos[i].Name {
			t.Errorf("outcomes[%d] = %s, want %s", i, out.Resort.Name, infos[i].Name)
		}
		wantErr := infos[i].Name == "Charlie"
		if (out.Err != nil) != wantErr {
			t.Errorf("outcomes[%d].Err = %v, wantErr %v", i, out.Err, wantErr)
		}
	}
	if !errors.Is(outcomes[2].Err, types.ErrNoData) {
		t.Errorf("outcomes[2].Err = %v, want ErrNoData", outcomes[2].Err)
	}
	if peak := runner.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "resorts.json")
	if err := os.WriteFile(good, []byte(`{"resorts":[{"name":"Zermatt","location":"Zermatt, Switzerland","website":"https://zermatt.ch"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	infos, err := LoadFile(good)
	if err != nil {
		t.Fatalf("LoadFile() unexpected error = %v", err)
	}
	if len(infos) != 1 || infos[0].Query() != "Zermatt, Switzerland" {
		t.Errorf("LoadFile() = %+v", infos)
	}

	nameless := filepath.Join(dir, "nameless.json")
	if err := os.WriteFile(nameless, []byte(`{"resorts":[{"location":"somewhere"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(nameless); err == nil {
		t.Error("LoadFile() expected error for a resort without name")
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadFile() expected error for a missing file")
	}
}

func TestArtifactNames(t *testing.T) {
	if got := GeoJSONFileName("12"); got != "ski_map_12.geojson" {
		t.Errorf("GeoJSONFileName() = %q", got)
	}
	if got := ImageURL("https://cdn.example/maps/", 12); got != "https://cdn.example/maps/ski_map_12.png" {
		t.Errorf("ImageURL() = %q", got)
	}
}
