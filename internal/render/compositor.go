// Package render composites contours and ski-area features into one raster.
package render

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"medi-skimap/internal/contour"
	"medi-skimap/internal/features"
	"medi-skimap/internal/projection"
	"medi-skimap/internal/types"

	"github.com/fogleman/gg"
)

const stageRender = "render"

// Scene is everything drawn for one resort, in geographic coordinates
// except for the contours, which are already in pixel space.
type Scene struct {
	Contours    contour.Set
	WaterBodies []features.WaterBody
	Pistes      []features.Piste
	Lifts       []features.Lift
}

// Raster is a finished composite image.
type Raster struct {
	dc *gg.Context
}

func (r *Raster) Image() image.Image { return r.dc.Image() }

func (r *Raster) Width() int { return r.dc.Width() }

func (r *Raster) Height() int { return r.dc.Height() }

func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }

// FileName is the artifact name for a resort's raster.
func FileName(resortID string) string {
	return fmt.Sprintf("ski_map_%s.png", resortID)
}

// SavePNG writes the raster into dir under FileName(resortID) and returns the
// written path.
func (r *Raster) SavePNG(dir, resortID string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create map directory: %w", err)
	}
	path := filepath.Join(dir, FileName(resortID))
	if err := r.dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("failed to save map: %w", err)
	}
	return path, nil
}

type Compositor struct {
	logger *slog.Logger
}

func NewCompositor(logger *slog.Logger) *Compositor {
	return &Compositor{logger: logger.With("component", "map-compositor")}
}

// Render draws the scene back to front: minor contours, major contours, water
// bodies, pistes, lifts. The background stays transparent. A feature that
// cannot be drawn is skipped and reported; it never stops the other layers.
func (c *Compositor) Render(p *projection.Projector, scene Scene) (*Raster, []types.Warning) {
	dc := gg.NewContext(p.Width(), p.Height())
	dc.SetLineCapRound()
	dc.SetLineJoinRound()

	var warnings []types.Warning
	draw := func(subject string, fn func() error) {
		if err := guard(fn); err != nil {
			dc.ClearPath()
			warnings = append(warnings, types.NewWarning(stageRender, subject, err))
			c.logger.Warn("skipped feature", "subject", subject, "error", err)
		}
	}

	for _, line := range scene.Contours.Minor {
		draw(fmt.Sprintf("minor contour %g", line.Level), func() error {
			return strokePath(dc, line.Path, minorContourStyle)
		})
	}
	for _, line := range scene.Contours.Major {
		draw(fmt.Sprintf("major contour %g", line.Level), func() error {
			return strokePath(dc, line.Path, majorContourStyle)
		})
	}
	for _, w := range scene.WaterBodies {
		draw(fmt.Sprintf("water %d (%s)", w.OsmID, w.Name), func() error {
			return fillPolygon(dc, p, w)
		})
	}
	for _, piste := range scene.Pistes {
		draw(fmt.Sprintf("piste %d (%s)", piste.OsmID, piste.Name), func() error {
			style := lineStyle{color: pisteColor(piste.Difficulty), width: pisteWidth}
			return strokePath(dc, p.ProjectLine(piste.Geometry), style)
		})
	}
	for _, lift := range scene.Lifts {
		draw(fmt.Sprintf("lift %d (%s)", lift.OsmID, lift.Name), func() error {
			return strokePath(dc, p.ProjectLine(lift.Geometry), liftStyle)
		})
	}

	c.logger.Debug("rendered map",
		"width", p.Width(),
		"height", p.Height(),
		"skipped", len(warnings),
	)
	return &Raster{dc: dc}, warnings
}

// guard turns a panic inside fn into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", types.ErrRender, r)
		}
	}()
	return fn()
}

func checkPath(path types.PixelPath, minPoints int) error {
	if len(path) < minPoints {
		return fmt.Errorf("%w: %d points, need %d", types.ErrRender, len(path), minPoints)
	}
	for i, pt := range path {
		if !pt.Finite() {
			return fmt.Errorf("%w: non-finite point %d", types.ErrRender, i)
		}
	}
	return nil
}

func strokePath(dc *gg.Context, path types.PixelPath, style lineStyle) error {
	if err := checkPath(path, 2); err != nil {
		return err
	}
	dc.NewSubPath()
	dc.MoveTo(path[0].X(), path[0].Y())
	for _, pt := range path[1:] {
		dc.LineTo(pt.X(), pt.Y())
	}
	dc.SetRGBA(style.color.r, style.color.g, style.color.b, style.color.a)
	dc.SetLineWidth(style.width)
	dc.Stroke()
	return nil
}

// fillPolygon fills the exterior with every interior ring cut out using the
// even-odd rule.
func fillPolygon(dc *gg.Context, p *projection.Projector, w features.WaterBody) error {
	rings := make([]types.PixelPath, 0, 1+len(w.Interiors))
	for _, r := range w.Polygon() {
		path := p.ProjectRing(r)
		if err := checkPath(path, 4); err != nil {
			return err
		}
		rings = append(rings, path)
	}

	for _, ring := range rings {
		dc.NewSubPath()
		dc.MoveTo(ring[0].X(), ring[0].Y())
		for _, pt := range ring[1:] {
			dc.LineTo(pt.X(), pt.Y())
		}
		dc.ClosePath()
	}

	dc.SetFillRuleEvenOdd()
	dc.SetRGBA(waterFill.r, waterFill.g, waterFill.b, waterFill.a)
	dc.FillPreserve()
	dc.SetRGBA(waterEdge.color.r, waterEdge.color.g, waterEdge.color.b, waterEdge.color.a)
	dc.SetLineWidth(waterEdge.width)
	dc.Stroke()
	return nil
}
