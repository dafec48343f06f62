package resort

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"medi-skimap/internal/pipeline"
	"medi-skimap/internal/render"
)

// GeoJSONFileName is the artifact name for a resort's feature export.
func GeoJSONFileName(resortID string) string {
	return strings.TrimSuffix(render.FileName(resortID), ".png") + ".geojson"
}

// ImageURL is the public URL of a resort's raster.
func ImageURL(prefix string, resortID int64) string {
	return strings.TrimSuffix(prefix, "/") + "/" + render.FileName(strconv.FormatInt(resortID, 10))
}

// artifactSet tracks files written for one resort so a failed save can
// remove them.
type artifactSet struct {
	dir   string
	paths []string
}

func (a *artifactSet) write(res *pipeline.Result, resortID int64) error {
	id := strconv.FormatInt(resortID, 10)

	png, err := res.Raster.SavePNG(a.dir, id)
	if err != nil {
		return err
	}
	a.paths = append(a.paths, png)

	data, err := res.Assembly.FeatureCollection().MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}
	geo := filepath.Join(a.dir, GeoJSONFileName(id))
	if err := os.WriteFile(geo, data, 0o644); err != nil {
		return fmt.Errorf("failed to save features: %w", err)
	}
	a.paths = append(a.paths, geo)
	return nil
}

func (a *artifactSet) remove() error {
	var errs []error
	for _, p := range a.paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	a.paths = nil
	return errors.Join(errs...)
}
