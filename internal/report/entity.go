package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/models"
)

// GroupByEntity accumulates consumption per machine or furnace id.
// An entity field holding a comma-separated list means the consumption
// was shared across those machines for the day; the amount is split
// evenly among them so the grand total is conserved. Records with zero
// or blank consumption are skipped and create no entries. The result is
// sorted numerically when every id parses as a number, lexicographically
// otherwise, and carries each entity's share of the grand total.
func GroupByEntity(records []models.Record, consumptionField, entityField string) []models.EntitySummary {
	type acc struct {
		total float64
		days  int
	}
	totals := make(map[string]*acc)

	for _, r := range records {
		consumption := r.Num(consumptionField)
		if consumption <= 0 {
			continue
		}

		ids := splitEntityIDs(r.Field(entityField))
		if len(ids) == 0 {
			ids = []string{"Unknown"}
		}
		share := consumption / float64(len(ids))

		for _, id := range ids {
			a := totals[id]
			if a == nil {
				a = &acc{}
				totals[id] = a
			}
			a.total += share
			a.days++
		}
	}

	grandTotal := 0.0
	for _, a := range totals {
		grandTotal += a.total
	}

	out := make([]models.EntitySummary, 0, len(totals))
	for id, a := range totals {
		e := models.EntitySummary{ID: id, Total: a.total, Days: a.days}
		if grandTotal > 0 {
			e.Percent = a.total / grandTotal * 100
		}
		out = append(out, e)
	}

	sortEntities(out)
	return out
}

// splitEntityIDs splits a free-text entity field on commas, trimming
// whitespace and dropping empty parts.
func splitEntityIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// sortEntities orders summaries numerically when every id is a number,
// lexicographically otherwise. The ordering is deterministic either way.
func sortEntities(entities []models.EntitySummary) {
	allNumeric := true
	nums := make(map[string]float64, len(entities))
	for _, e := range entities {
		v, err := strconv.ParseFloat(e.ID, 64)
		if err != nil {
			allNumeric = false
			break
		}
		nums[e.ID] = v
	}

	if allNumeric {
		sort.Slice(entities, func(i, j int) bool {
			a, b := nums[entities[i].ID], nums[entities[j].ID]
			if a != b {
				return a < b
			}
			return entities[i].ID < entities[j].ID
		})
		return
	}

	sort.Slice(entities, func(i, j int) bool {
		return entities[i].ID < entities[j].ID
	})
}
