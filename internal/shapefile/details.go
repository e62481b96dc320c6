package shapefile

import (
	"context"
	"fmt"

	shp "github.com/jonas-p/go-shp"
)

// Details holds refinement data obtained by scanning every record of a
// shapefile.
type Details struct {
	// DominantGeometry is the most frequent per-record geometry type.
	// Empty when the file has no non-null records.
	DominantGeometry string

	// MaxStringLen maps character field names to the longest value
	// observed in the data. Fields with no non-empty values are absent.
	MaxStringLen map[string]int
}

// cancelCheckEvery is how many records to read between context checks.
const cancelCheckEvery = 256

// ScanDetails reads every record of the shapefile at path and reports the
// dominant geometry type and per-field maximum observed string lengths.
//
// The scan respects ctx cancellation. Callers treat any error as "no
// refinement available" and keep the ReadSchema result.
func ScanDetails(ctx context.Context, path string) (*Details, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer r.Close()

	// Character fields are the only ones whose observed length matters.
	var charFields []int
	fields := r.Fields()
	for i, f := range fields {
		if f.Fieldtype == 'C' {
			charFields = append(charFields, i)
		}
	}

	geomCounts := make(map[string]int)
	maxLens := make(map[string]int)

	row := 0
	for r.Next() {
		if row%cancelCheckEvery == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		n, shape := r.Shape()
		if name := shapeName(shape); name != "" {
			geomCounts[name]++
		}

		for _, i := range charFields {
			val := r.ReadAttribute(n, i)
			if len(val) > maxLens[fields[i].String()] {
				maxLens[fields[i].String()] = len(val)
			}
		}
		row++
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	return &Details{
		DominantGeometry: dominant(geomCounts),
		MaxStringLen:     maxLens,
	}, nil
}

// dominant returns the geometry name with the highest record count.
// Ties resolve to the lexicographically smaller name so the result is
// deterministic regardless of record order.
func dominant(counts map[string]int) string {
	best := ""
	bestCount := 0
	for name, c := range counts {
		if c > bestCount || (c == bestCount && best != "" && name < best) {
			best = name
			bestCount = c
		}
	}
	return best
}
