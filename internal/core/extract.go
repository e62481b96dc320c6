package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ramirezmaps/Diccionario-datos/internal/shapefile"
)

// extractFile reads one shapefile and returns its field records.
//
// Extraction is two-tiered, matching how much each tier is trusted:
// the schema read is mandatory and its failure skips the file with a
// warning; the full-data scan only refines the result (dominant geometry,
// observed string lengths) and its failure is silently tolerated.
func extractFile(ctx context.Context, path string) ([]FieldRecord, string) {
	name := filepath.Base(path)

	schema, err := shapefile.ReadSchema(path)
	if err != nil {
		return nil, fmt.Sprintf("schema read failed for %s: %v", name, err)
	}

	details, err := shapefile.ScanDetails(ctx, path)
	if err != nil {
		details = nil
	}

	return buildRecords(filepath.Dir(path), name, schema, details), ""
}

// buildRecords converts a schema (plus optional scan details) into field
// records. details may be nil, in which case the declared schema stands
// alone.
func buildRecords(folder, name string, schema *shapefile.Schema, details *shapefile.Details) []FieldRecord {
	geometry := schema.GeometryType
	if details != nil && details.DominantGeometry != "" {
		geometry = details.DominantGeometry
	}

	if len(schema.Fields) == 0 {
		return []FieldRecord{{
			BaseFolder:    folder,
			ShapefileName: name,
			GeometryType:  geometry,
			FieldName:     PlaceholderFieldName,
			DataType:      "",
			Length:        0,
		}}
	}

	records := make([]FieldRecord, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		dataType, length := parseDeclaredType(f.DeclaredType)

		// A declared length of zero defers to the longest value actually
		// present in the data, when the full scan produced one.
		if length == 0 && details != nil {
			if observed, ok := details.MaxStringLen[f.Name]; ok && observed > 0 {
				length = observed
			}
		}

		records = append(records, FieldRecord{
			BaseFolder:    folder,
			ShapefileName: name,
			GeometryType:  geometry,
			FieldName:     f.Name,
			DataType:      dataType,
			Length:        length,
		})
	}
	return records
}

// parseDeclaredType splits a compound "type:length" declaration.
// Declarations without a colon keep their full text as the type with
// length zero. A non-integer length suffix (e.g. the "24.15" of
// "float:24.15") also resolves to zero, leaving the observed-length
// fallback to fill it in.
func parseDeclaredType(declared string) (string, int) {
	i := strings.IndexByte(declared, ':')
	if i < 0 {
		return declared, 0
	}

	length, err := strconv.Atoi(declared[i+1:])
	if err != nil || length < 0 {
		length = 0
	}
	return declared[:i], length
}
