// Package shapefile provides schema access to ESRI shapefiles.
//
// It exposes two tiers of access that mirror how much of a shapefile the
// caller is willing to pay for:
//
//   - ReadSchema reads only the declared structure: the field list from the
//     .dbf side and the nominal geometry type from the .shp header. This is
//     cheap and is the authoritative source for field names and types.
//   - ScanDetails walks every record to find the statistically dominant
//     geometry type and the maximum observed string length per character
//     field. This is optional refinement; callers are expected to tolerate
//     its failure and fall back to the schema alone.
package shapefile

import (
	"fmt"

	shp "github.com/jonas-p/go-shp"
)

// Field describes a single declared attribute field.
type Field struct {
	// Name is the field name as stored in the .dbf header.
	Name string

	// DeclaredType is a compound type string in the form "type:length",
	// e.g. "str:10", "int:9", "float:24.15". Types without a meaningful
	// length ("date", "bool") omit the suffix.
	DeclaredType string
}

// Schema is the declared structure of a shapefile.
type Schema struct {
	// GeometryType is the nominal geometry type from the .shp header.
	GeometryType string

	// Fields lists the declared attribute fields in .dbf order.
	// Empty for shapefiles without an attribute table.
	Fields []Field
}

// ReadSchema reads the declared schema of the shapefile at path.
// It does not touch record data. A shapefile whose .dbf sidecar is missing
// yields a schema with zero fields rather than an error.
func ReadSchema(path string) (*Schema, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile: %w", err)
	}
	defer r.Close()

	dbfFields := r.Fields()
	fields := make([]Field, 0, len(dbfFields))
	for _, f := range dbfFields {
		fields = append(fields, Field{
			Name:         f.String(),
			DeclaredType: declaredType(f),
		})
	}

	return &Schema{
		GeometryType: geometryName(r.GeometryType),
		Fields:       fields,
	}, nil
}

// declaredType renders a dbf field descriptor as a fiona-style compound
// type string. Unrecognized field type codes are treated as character data.
func declaredType(f shp.Field) string {
	switch f.Fieldtype {
	case 'C':
		return fmt.Sprintf("str:%d", f.Size)
	case 'N':
		if f.Precision > 0 {
			return fmt.Sprintf("float:%d.%d", f.Size, f.Precision)
		}
		return fmt.Sprintf("int:%d", f.Size)
	case 'F':
		return fmt.Sprintf("float:%d.%d", f.Size, f.Precision)
	case 'D':
		return "date"
	case 'L':
		return "bool"
	default:
		return fmt.Sprintf("str:%d", f.Size)
	}
}
