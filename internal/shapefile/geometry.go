package shapefile

import (
	shp "github.com/jonas-p/go-shp"
)

// geometryName maps a shapefile header geometry code to a display name.
// The names follow the OGC-style vocabulary GIS users expect (PolyLine is
// reported as LineString).
func geometryName(t shp.ShapeType) string {
	switch t {
	case shp.NULL:
		return "Null"
	case shp.POINT:
		return "Point"
	case shp.POLYLINE:
		return "LineString"
	case shp.POLYGON:
		return "Polygon"
	case shp.MULTIPOINT:
		return "MultiPoint"
	case shp.POINTZ:
		return "3D Point"
	case shp.POLYLINEZ:
		return "3D LineString"
	case shp.POLYGONZ:
		return "3D Polygon"
	case shp.MULTIPOINTZ:
		return "3D MultiPoint"
	case shp.POINTM:
		return "PointM"
	case shp.POLYLINEM:
		return "LineStringM"
	case shp.POLYGONM:
		return "PolygonM"
	case shp.MULTIPOINTM:
		return "MultiPointM"
	case shp.MULTIPATCH:
		return "MultiPatch"
	default:
		return "Unknown"
	}
}

// shapeName classifies a decoded record geometry. Null shapes return ""
// and are excluded from the dominant-geometry tally.
func shapeName(s shp.Shape) string {
	switch s.(type) {
	case *shp.Null:
		return ""
	case *shp.Point:
		return "Point"
	case *shp.PolyLine:
		return "LineString"
	case *shp.Polygon:
		return "Polygon"
	case *shp.MultiPoint:
		return "MultiPoint"
	case *shp.PointZ:
		return "3D Point"
	case *shp.PolyLineZ:
		return "3D LineString"
	case *shp.PolygonZ:
		return "3D Polygon"
	case *shp.MultiPointZ:
		return "3D MultiPoint"
	case *shp.PointM:
		return "PointM"
	case *shp.PolyLineM:
		return "LineStringM"
	case *shp.PolygonM:
		return "PolygonM"
	case *shp.MultiPointM:
		return "MultiPointM"
	case *shp.MultiPatch:
		return "MultiPatch"
	default:
		return "Unknown"
	}
}
