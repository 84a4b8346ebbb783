// Package reconcile implements duplicate-identity resolution for attendee
// records. Exactly one record should exist per real-world attendee; when
// multiple records share a normalized email, this package decides which one
// survives.
package reconcile

import (
	"sort"

	"github.com/tngss/attendee-sync/internal/domain"
)

// Plan is the outcome of resolving one duplicate group: one record retained,
// the rest marked for deletion.
type Plan struct {
	Keep   domain.Attendee
	Delete []domain.Attendee
}

// Duplicates partitions records by normalized email and returns only the
// groups of size > 1. Records without an email cannot be keyed and are never
// considered duplicates of anything.
func Duplicates(records []domain.Attendee) map[string][]domain.Attendee {
	groups := make(map[string][]domain.Attendee)
	for _, r := range records {
		email := domain.NormalizeEmail(r.Email)
		if email == "" {
			continue
		}
		groups[email] = append(groups[email], r)
	}
	for email, group := range groups {
		if len(group) < 2 {
			delete(groups, email)
		}
	}
	return groups
}

// Resolve selects the surviving record of a duplicate group.
//
// A preferred pass (the conference's primary paid tier) always outranks any
// other pass for the same person, and recency breaks ties within a tier:
// latest purchase wins. When two records tie exactly on timestamp, input
// order decides and the earlier record wins. That tie-break is a defined
// behavior of this function, not an accident of sorting.
func Resolve(group []domain.Attendee, preferredPassTypeID string) Plan {
	if len(group) == 0 {
		return Plan{}
	}

	var preferred, other []domain.Attendee
	for _, r := range group {
		if preferredPassTypeID != "" && r.PassTypeID == preferredPassTypeID {
			preferred = append(preferred, r)
		} else {
			other = append(other, r)
		}
	}

	byRecency := func(rs []domain.Attendee) {
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].EffectiveCreated().After(rs[j].EffectiveCreated())
		})
	}

	var plan Plan
	if len(preferred) > 0 {
		byRecency(preferred)
		plan.Keep = preferred[0]
		plan.Delete = append(plan.Delete, preferred[1:]...)
		plan.Delete = append(plan.Delete, other...)
	} else {
		byRecency(other)
		plan.Keep = other[0]
		plan.Delete = append(plan.Delete, other[1:]...)
	}
	return plan
}

// ResolveAll builds a deletion plan for every duplicate group found in
// records. The returned slice lists every record to delete across groups.
func ResolveAll(records []domain.Attendee, preferredPassTypeID string) (plans map[string]Plan, toDelete []domain.Attendee) {
	plans = make(map[string]Plan)
	for email, group := range Duplicates(records) {
		p := Resolve(group, preferredPassTypeID)
		plans[email] = p
		toDelete = append(toDelete, p.Delete...)
	}
	return plans, toDelete
}
