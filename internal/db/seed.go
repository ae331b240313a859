package db

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dealflow/dealgrid/internal/grid"
	"github.com/dealflow/dealgrid/internal/util"
)

// DemoProject is the project the in-memory store starts with.
const DemoProject = "demo"

// DemoRows is the size of the demo project.
const DemoRows = 2000

var (
	namePrefixes = []string{"Nord", "Alpen", "Rhein", "Blue", "Iber", "Helio", "Atlas", "Vela", "Kern", "Lumen", "Orbis", "Terra"}
	nameSuffixes = []string{"tech", "logistics", "systems", "foods", "medical", "works", "energy", "labs", "partners", "robotics"}
	legalForms   = []string{"GmbH", "AG", "SA", "S.L.", "B.V.", "Ltd"}
	cities       = []struct{ city, country string }{
		{"Berlin", "DE"}, {"München", "DE"}, {"Hamburg", "DE"}, {"Zürich", "CH"},
		{"Wien", "AT"}, {"Paris", "FR"}, {"Lyon", "FR"}, {"Madrid", "ES"},
		{"Barcelona", "ES"}, {"Amsterdam", "NL"}, {"London", "GB"}, {"Kraków", "PL"},
	}
	sectors  = []string{"Software", "Industrial", "Healthcare", "Consumer", "Energy", "Logistics", "Business Services"}
	statuses = []string{"new", "contacted", "in review", "nda signed", "passed"}
	owners   = []string{"", "ana", "ben", "carla", "dimitri"}
)

// GenerateCompanies returns n synthetic target companies. The same seed
// yields the same field values; uids are always fresh.
func GenerateCompanies(n int, seed uint64) []grid.Row {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	base := time.Now().Add(-time.Duration(n) * time.Minute)

	rows := make([]grid.Row, n)
	for i := range n {
		loc := cities[rng.IntN(len(cities))]
		name := fmt.Sprintf("%s%s %s",
			namePrefixes[rng.IntN(len(namePrefixes))],
			nameSuffixes[rng.IntN(len(nameSuffixes))],
			legalForms[rng.IntN(len(legalForms))])
		revenue := 2 + rng.Float64()*250 // EUR m
		fields := map[string]grid.Scalar{
			"name":      grid.Str(name),
			"city":      grid.Str(loc.city),
			"country":   grid.Str(loc.country),
			"sector":    grid.Str(sectors[rng.IntN(len(sectors))]),
			"status":    grid.Str(statuses[rng.IntN(len(statuses))]),
			"revenue":   grid.Num(round1(revenue)),
			"employees": grid.Int(int64(10 + rng.IntN(2500))),
			"founded":   grid.Int(int64(1950 + rng.IntN(74))),
			"owner":     grid.Str(owners[rng.IntN(len(owners))]),
			"website":   grid.Str("https://" + strings.ToLower(strings.Fields(name)[0]) + ".example"),
			"family":    grid.Bool(rng.IntN(3) == 0),
		}
		// EBITDA is often not disclosed
		if rng.IntN(5) == 0 {
			fields["ebitda"] = grid.Null()
		} else {
			fields["ebitda"] = grid.Num(round1(revenue * (rng.Float64()*0.35 - 0.05)))
		}
		uid := util.NewULIDWithTime(base.Add(time.Duration(i) * time.Minute))
		rows[i] = grid.NewRow(uid, grid.ViewLonglist, fields)
	}
	return rows
}

func round1(f float64) float64 {
	return float64(int64(f*10)) / 10
}

// SeedBatch is the number of rows inserted per call while seeding.
const SeedBatch = 1000

// Seed creates projectID if needed and loads n synthetic rows into it.
// Roughly one row in ten starts in the shortlist and one in twenty in the
// discarded list.
func Seed(ctx context.Context, store Store, projectID string, n int, seed uint64) error {
	return SeedWithProgress(ctx, store, projectID, n, seed, nil)
}

// SeedWithProgress is Seed reporting the rows inserted after every batch.
func SeedWithProgress(ctx context.Context, store Store, projectID string, n int, seed uint64, progress func(inserted int)) error {
	if _, err := store.CreateProject(ctx, projectID, ""); err != nil && !errors.Is(err, util.ErrProjectExists) {
		return err
	}
	rows := GenerateCompanies(n, seed)
	for i := range rows {
		switch {
		case i%20 == 7:
			rows[i].ListID = grid.ViewDiscarded
		case i%10 == 3:
			rows[i].ListID = grid.ViewShortlist
		}
	}
	for start := 0; start < len(rows); start += SeedBatch {
		batch := rows[start:min(start+SeedBatch, len(rows))]
		if err := store.InsertRows(ctx, projectID, batch); err != nil {
			return err
		}
		if progress != nil {
			progress(len(batch))
		}
	}
	return nil
}

// NewDemo returns an in-memory store holding the demo project.
func NewDemo(ctx context.Context) (*Memory, error) {
	m := NewMemory()
	if err := Seed(ctx, m, DemoProject, DemoRows, 42); err != nil {
		return nil, err
	}
	return m, nil
}
