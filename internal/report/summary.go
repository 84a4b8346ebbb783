// Package report builds run summaries: the counts and distributions printed
// at the end of a migration, archived to S3, and mailed to operators.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tngss/attendee-sync/internal/domain"
	"github.com/tngss/attendee-sync/internal/pipeline"
)

// Tallies are the distributions computed over a set of attendee records.
type Tallies struct {
	Total          int            `json:"total"`
	CheckedIn      int            `json:"checked_in"`
	CheckedInPct   float64        `json:"checked_in_pct"`
	MissingEmail   int            `json:"missing_email"`
	MissingMobile  int            `json:"missing_mobile"`
	MissingName    int            `json:"missing_name"`
	Remapped       int            `json:"remapped"` // records carrying migration notes
	DuplicateEmail int            `json:"duplicate_email_records"`
	ByOrganisation map[string]int `json:"by_organisation_type"`
	ByProfile      map[string]int `json:"by_profile_type"`
	BySector       map[string]int `json:"by_sector_interested"`
}

// BuildTallies computes distributions over records.
func BuildTallies(records []domain.Attendee) Tallies {
	t := Tallies{
		Total:          len(records),
		ByOrganisation: make(map[string]int),
		ByProfile:      make(map[string]int),
		BySector:       make(map[string]int),
	}

	emails := make(map[string]int)
	for _, a := range records {
		if a.CheckedIn {
			t.CheckedIn++
		}
		if a.Email == "" {
			t.MissingEmail++
		} else {
			emails[a.Email]++
		}
		if a.Mobile == "" {
			t.MissingMobile++
		}
		if a.Name == "" {
			t.MissingName++
		}
		if len(a.MigrationNotes) > 0 {
			t.Remapped++
		}
		t.ByOrganisation[string(a.OrganisationType)]++
		t.ByProfile[string(a.ProfileType)]++
		t.BySector[string(a.SectorInterested)]++
	}

	for _, n := range emails {
		if n > 1 {
			t.DuplicateEmail += n
		}
	}
	if t.Total > 0 {
		t.CheckedInPct = 100 * float64(t.CheckedIn) / float64(t.Total)
	}
	return t
}

// Summary is the record of one run.
type Summary struct {
	RunID      string    `json:"run_id"`
	Mode       string    `json:"mode"` // direct, via-api, dedupe, clear, recode
	DryRun     bool      `json:"dry_run,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	LegacyRows int               `json:"legacy_rows"`
	Stats      pipeline.RunStats `json:"stats"`
	StoreCount int               `json:"store_count"`
	Tallies    Tallies           `json:"tallies"`
}

// NewSummary opens a summary for a run starting now.
func NewSummary(mode string) *Summary {
	return &Summary{
		RunID:     uuid.New().String(),
		Mode:      mode,
		StartedAt: time.Now().UTC(),
	}
}

// Finish stamps the end time.
func (s *Summary) Finish() {
	s.FinishedAt = time.Now().UTC()
}

// Text renders the summary as the plain-text report used for console output
// and the operator email body.
func (s *Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Migration run %s (%s)\n", s.RunID, s.Mode)
	if s.DryRun {
		b.WriteString("DRY RUN: no writes were performed\n")
	}
	fmt.Fprintf(&b, "Started:  %s\n", s.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Finished: %s (%.0fs)\n", s.FinishedAt.Format(time.RFC3339),
		s.FinishedAt.Sub(s.StartedAt).Seconds())
	fmt.Fprintf(&b, "\nLegacy rows read:   %d\n", s.LegacyRows)
	fmt.Fprintf(&b, "Created:            %d\n", s.Stats.Created)
	fmt.Fprintf(&b, "Already existed:    %d\n", s.Stats.AlreadyExisted)
	fmt.Fprintf(&b, "Failed:             %d\n", s.Stats.Failed)
	fmt.Fprintf(&b, "Store count after:  %d\n", s.StoreCount)
	if s.Tallies.Total > 0 {
		fmt.Fprintf(&b, "\nChecked in:         %d (%.1f%%)\n", s.Tallies.CheckedIn, s.Tallies.CheckedInPct)
		fmt.Fprintf(&b, "Missing email:      %d\n", s.Tallies.MissingEmail)
		fmt.Fprintf(&b, "Missing mobile:     %d\n", s.Tallies.MissingMobile)
		fmt.Fprintf(&b, "Remapped records:   %d\n", s.Tallies.Remapped)
		fmt.Fprintf(&b, "Duplicate-email:    %d\n", s.Tallies.DuplicateEmail)
	}
	for _, f := range s.Stats.Failures {
		fmt.Fprintf(&b, "FAILED %s: %v\n", f.PassID, f.Err)
	}
	return b.String()
}
