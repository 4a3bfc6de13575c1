// Package store loads apartment element data from a CSV export and
// serves it grouped per apartment.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/log"

	floorplan "github.com/flywave/go-floorplan"
)

// Height applied to rows that carry none.
const defaultHeight = 2.6

type record struct {
	entityType    string
	entitySubtype string
	geom          string
	elevation     float64
	height        float64
	zoning        string
	roomtype      string
	areaID        *float64
	unitID        *float64
}

// Extractor reads the whole CSV once at construction and answers
// per-apartment queries from memory. It is read-only after load and safe
// for concurrent use.
type Extractor struct {
	path   string
	order  []string
	byID   map[string][]record
	logger *log.Logger
}

// NewExtractor loads the CSV at path and indexes its rows by
// apartment_id.
func NewExtractor(path string) (*Extractor, error) {
	ex := &Extractor{
		path: path,
		byID: make(map[string][]record),
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "store",
		}),
	}
	if err := ex.load(); err != nil {
		return nil, err
	}
	return ex, nil
}

func (ex *Extractor) load() error {
	f, err := os.Open(ex.path)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("csv %s has no header row", ex.path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, need := range []string{"apartment_id", "entity_type", "entity_subtype", "geom"} {
		if _, ok := col[need]; !ok {
			return fmt.Errorf("csv %s is missing column %q", ex.path, need)
		}
	}
	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	for _, row := range rows[1:] {
		id := field(row, "apartment_id")
		if id == "" {
			continue
		}
		if _, seen := ex.byID[id]; !seen {
			ex.order = append(ex.order, id)
		}
		ex.byID[id] = append(ex.byID[id], record{
			entityType:    field(row, "entity_type"),
			entitySubtype: field(row, "entity_subtype"),
			geom:          field(row, "geom"),
			elevation:     floatOr(field(row, "elevation"), 0),
			height:        floatOr(field(row, "height"), defaultHeight),
			zoning:        field(row, "zoning"),
			roomtype:      field(row, "roomtype"),
			areaID:        floatPtr(field(row, "area_id")),
			unitID:        floatPtr(field(row, "unit_id")),
		})
	}

	ex.logger.Info("loaded apartment data",
		"path", ex.path, "rows", len(rows)-1, "apartments", len(ex.byID))
	return nil
}

// Apartment returns the plan for one apartment id, or false when the id
// is unknown. Rows whose WKT geometry cannot be parsed are skipped with
// a warning; rows with an unrecognized entity type are dropped the same
// way.
func (ex *Extractor) Apartment(id string) (*floorplan.Plan, bool) {
	rows, ok := ex.byID[id]
	if !ok {
		return nil, false
	}
	plan := &floorplan.Plan{ApartmentID: id}
	for _, rec := range rows {
		ring, err := floorplan.ParseFootprint(rec.geom)
		if err != nil {
			ex.logger.Warn("skipping row with bad geometry", "apartment", id, "err", err)
			continue
		}
		el := &floorplan.Element{
			EntityType:    rec.entityType,
			EntitySubtype: rec.entitySubtype,
			Footprint:     ring,
			Elevation:     rec.elevation,
			Height:        rec.height,
			RoomType:      rec.roomtype,
			Zoning:        rec.zoning,
			AreaID:        rec.areaID,
			UnitID:        rec.unitID,
		}
		switch rec.entityType {
		case floorplan.EntityArea:
			plan.Areas = append(plan.Areas, el)
		case floorplan.EntitySeparator:
			plan.Separators = append(plan.Separators, el)
		case floorplan.EntityOpening:
			plan.Openings = append(plan.Openings, el)
		default:
			ex.logger.Warn("skipping row with unknown entity type",
				"apartment", id, "entity_type", rec.entityType)
		}
	}
	return plan, true
}

// ApartmentIDs returns up to limit distinct apartment ids in file order.
// A non-positive limit returns all of them.
func (ex *Extractor) ApartmentIDs(limit int) []string {
	if limit <= 0 || limit > len(ex.order) {
		limit = len(ex.order)
	}
	out := make([]string, limit)
	copy(out, ex.order[:limit])
	return out
}

// Statistics summarizes one apartment's element groups.
type Statistics struct {
	ApartmentID   string   `json:"apartment_id"`
	NumAreas      int      `json:"num_areas"`
	NumSeparators int      `json:"num_separators"`
	NumOpenings   int      `json:"num_openings"`
	TotalElements int      `json:"total_elements"`
	RoomTypes     []string `json:"room_types"`
}

// Statistics returns counts and the distinct room types of an apartment,
// or false when the id is unknown.
func (ex *Extractor) Statistics(id string) (*Statistics, bool) {
	plan, ok := ex.Apartment(id)
	if !ok {
		return nil, false
	}
	seen := make(map[string]bool)
	roomTypes := []string{}
	for _, area := range plan.Areas {
		if area.RoomType != "" && !seen[area.RoomType] {
			seen[area.RoomType] = true
			roomTypes = append(roomTypes, area.RoomType)
		}
	}
	sort.Strings(roomTypes)
	return &Statistics{
		ApartmentID:   id,
		NumAreas:      len(plan.Areas),
		NumSeparators: len(plan.Separators),
		NumOpenings:   len(plan.Openings),
		TotalElements: plan.TotalElements(),
		RoomTypes:     roomTypes,
	}, true
}

func floatOr(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func floatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
