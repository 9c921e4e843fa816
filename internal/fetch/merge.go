package fetch

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cldb/internal/canon"
	"cldb/internal/catalog"
)

// FetchLenses enumerates every lens listing, scrapes each detail page with
// at most workers concurrent downloads, and returns catalog rows in
// canonical order. IDs already assigned in existing rows are kept, matched
// by name; new equipment gets a fresh UUID. Detail pages that cannot be
// parsed are logged and skipped, as a single broken page should not sink
// the whole run.
func FetchLenses(ctx context.Context, c *Client, existing []catalog.Row, workers int) ([]catalog.Row, error) {
	var all []Equipment
	for _, class := range LensClasses {
		eqs, err := EnumerateEquipment(ctx, c, class)
		if err != nil {
			return nil, err
		}
		all = append(all, eqs...)
	}

	specs := make([]*LensSpec, len(all))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))
	for i, eq := range all {
		i, eq := i, eq
		g.Go(func() error {
			spec, err := ReadLens(gctx, c, eq)
			if err != nil {
				c.log.Warn("skipping lens", zap.String("name", eq.Name), zap.Error(err))
				return nil
			}
			specs[i] = spec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := idsByName(catalog.LensSchema, existing)
	var rows []catalog.Row
	for _, spec := range specs {
		if spec == nil {
			continue
		}
		row, err := lensRow(spec, ids)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return canon.Canonicalize(catalog.LensSchema, rows), nil
}

// FetchCameras is the camera counterpart of FetchLenses.
func FetchCameras(ctx context.Context, c *Client, existing []catalog.Row, workers int) ([]catalog.Row, error) {
	var all []Equipment
	for _, class := range CameraClasses {
		eqs, err := EnumerateEquipment(ctx, c, class)
		if err != nil {
			return nil, err
		}
		all = append(all, eqs...)
	}

	specs := make([]*CameraSpec, len(all))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(workers))
	for i, eq := range all {
		i, eq := i, eq
		g.Go(func() error {
			spec, err := ReadCamera(gctx, c, eq)
			if err != nil {
				c.log.Warn("skipping camera", zap.String("name", eq.Name), zap.Error(err))
				return nil
			}
			specs[i] = spec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := idsByName(catalog.CameraSchema, existing)
	var rows []catalog.Row
	for _, spec := range specs {
		if spec == nil {
			continue
		}
		row, err := cameraRow(spec, ids)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return canon.Canonicalize(catalog.CameraSchema, rows), nil
}

// formatSpecNumber renders scraped values the way the data files store
// numbers.
func formatSpecNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func workerLimit(n int) int {
	if n <= 0 {
		return 4
	}
	return n
}

// idsByName indexes the already assigned equipment IDs by lowercased name.
func idsByName(s catalog.Schema, rows []catalog.Row) map[string]string {
	name := s.Index(catalog.KeyName)
	id := s.Index(catalog.KeyID)
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[strings.ToLower(r.Field(name))] = strings.ToLower(r.Field(id))
	}
	return out
}

func assignID(ids map[string]string, name string) string {
	if id, ok := ids[strings.ToLower(name)]; ok {
		return id
	}
	return uuid.NewString()
}

func lensRow(spec *LensSpec, ids map[string]string) (catalog.Row, error) {
	return catalog.NewRow(catalog.LensSchema, []string{
		assignID(ids, spec.Name),
		spec.Name,
		spec.Brand,
		spec.Mount,
		formatSpecNumber(spec.MinFocalLength),
		formatSpecNumber(spec.MaxFocalLength),
		formatSpecNumber(spec.MinFValue),
		formatSpecNumber(spec.MaxFValue),
		formatSpecNumber(spec.MinFocusDist),
		"",
	})
}

func cameraRow(spec *CameraSpec, ids map[string]string) (catalog.Row, error) {
	return catalog.NewRow(catalog.CameraSchema, []string{
		assignID(ids, spec.Name),
		spec.Name,
		spec.Brand,
		spec.Mount,
		formatSpecNumber(spec.MediaWidth),
		formatSpecNumber(spec.MediaHeight),
		spec.SizeName,
		"",
	})
}
