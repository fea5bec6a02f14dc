// Package dataset loads the unified Cascadia watershed polygon file and
// answers point-containment queries against it. The collection and its
// spatial index are built once at startup and never mutated, so concurrent
// reads from any number of request goroutines are safe without locking.
package dataset

import (
	"errors"
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/cascadiahydro/watershed-lookup/internal/domain"
)

// ErrUnavailable marks a dataset that could not be loaded. The service keeps
// running in degraded mode and reports unavailability per lookup instead of
// crashing.
var ErrUnavailable = errors.New("watershed dataset unavailable")

// pointQueryTol is the side length of the degenerate rectangle used for
// R-tree point queries. rtreego requires strictly positive extents.
const pointQueryTol = 1e-9

// Collection is the immutable in-memory polygon set plus its spatial index.
type Collection struct {
	records []domain.WatershedRecord
	tree    *rtreego.Rtree
	prefer  domain.Country
}

// indexEntry is one R-tree leaf: a single polygon's bounding box pointing
// back at its record. MultiPolygon records get one entry per member polygon
// so their boxes stay tight.
type indexEntry struct {
	rect      rtreego.Rect
	recordIdx int
	polygon   orb.Polygon
}

func (e *indexEntry) Bounds() rtreego.Rect { return e.rect }

// New builds a Collection and its R-tree over the given records. Index
// construction is eager: the whole point of the collection is fast repeated
// lookups against a large static polygon set. prefer selects which country
// wins when independently sourced polygons overlap at the border;
// CountryUnknown disables the preference.
func New(records []domain.WatershedRecord, prefer domain.Country) (*Collection, error) {
	tree := rtreego.NewTree(2, 25, 50)

	for i, rec := range records {
		polys, err := polygonsOf(rec.Geometry)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		for _, poly := range polys {
			rect, err := boundRect(poly.Bound())
			if err != nil {
				return nil, fmt.Errorf("record %s: %w", rec.ID, err)
			}
			tree.Insert(&indexEntry{rect: rect, recordIdx: i, polygon: poly})
		}
	}

	return &Collection{records: records, tree: tree, prefer: prefer}, nil
}

// Resolve finds the watershed whose interior contains the WGS84 point. The
// query runs bounding-box candidates through an exact containment test;
// points on a shared polygon boundary may match either or neither side.
// When several polygons contain the point (possible only near the border,
// where the national datasets overlap) the preferred country wins, otherwise
// the first match in index order is taken.
func (c *Collection) Resolve(lat, lon float64) (domain.WatershedRecord, bool) {
	rec, _, found := c.ResolveWithStats(lat, lon)
	return rec, found
}

// ResolveWithStats is Resolve plus the number of bounding-box candidates the
// index produced, for instrumentation.
func (c *Collection) ResolveWithStats(lat, lon float64) (domain.WatershedRecord, int, bool) {
	pt := orb.Point{lon, lat}
	q := rtreego.Point{lon, lat}

	hits := c.tree.SearchIntersect(q.ToRect(pointQueryTol))

	var matched []int
	seen := make(map[int]bool)
	for _, hit := range hits {
		entry := hit.(*indexEntry)
		if seen[entry.recordIdx] {
			continue
		}
		if planar.PolygonContains(entry.polygon, pt) {
			seen[entry.recordIdx] = true
			matched = append(matched, entry.recordIdx)
		}
	}

	if len(matched) == 0 {
		return domain.WatershedRecord{}, len(hits), false
	}

	if c.prefer != domain.CountryUnknown {
		for _, idx := range matched {
			if c.records[idx].Country == c.prefer {
				return c.records[idx], len(hits), true
			}
		}
	}
	return c.records[matched[0]], len(hits), true
}

// Len reports the number of records in the collection.
func (c *Collection) Len() int { return len(c.records) }

// Records exposes the loaded records for inspection tooling. The slice is
// shared; callers must treat it as read-only.
func (c *Collection) Records() []domain.WatershedRecord { return c.records }

// polygonsOf splits a record geometry into its member polygons.
func polygonsOf(g orb.Geometry) ([]orb.Polygon, error) {
	switch geom := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{geom}, nil
	case orb.MultiPolygon:
		return []orb.Polygon(geom), nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.GeoJSONType())
	}
}

// boundRect converts an orb bound to an rtreego rectangle, padding
// degenerate extents to satisfy rtreego's positive-length requirement.
func boundRect(b orb.Bound) (rtreego.Rect, error) {
	lengths := []float64{
		math.Max(b.Max[0]-b.Min[0], pointQueryTol),
		math.Max(b.Max[1]-b.Min[1], pointQueryTol),
	}
	return rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, lengths)
}
