// The recode CLI re-applies the categorical mapping tables to records
// already in the store, for when a mapping table gains entries after a
// migration has run.
//
// Usage:
//
//	recode selective [-dry-run]  rewrite only records holding retired values
//	recode all [-dry-run]        rewrite every record
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/tngss/attendee-sync/internal/config"
	"github.com/tngss/attendee-sync/internal/domain"
	"github.com/tngss/attendee-sync/internal/legacy"
	"github.com/tngss/attendee-sync/internal/mapping"
	"github.com/tngss/attendee-sync/internal/pkg/confirm"
	"github.com/tngss/attendee-sync/internal/pkg/distlock"
	"github.com/tngss/attendee-sync/internal/pkg/logger"
	"github.com/tngss/attendee-sync/internal/repository/dynamo"
	"github.com/tngss/attendee-sync/internal/service/attendee"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: recode <selective|all> [-dry-run]")
	os.Exit(2)
}

// needsRecode reports whether any categorical field holds a value outside
// the current enumerations.
func needsRecode(a domain.Attendee) bool {
	return !a.OrganisationType.Valid() || !a.ProfileType.Valid() ||
		!a.SectorInterested.Valid() || !a.WhyAttending.Valid()
}

// recode runs the stored values back through the mapping tables. The mapper
// treats them as raw input, so retired values translate and current values
// pass through untouched.
func recode(a *domain.Attendee) (changed bool) {
	m := mapping.Apply(legacy.Candidate{
		RawOrganisationType: string(a.OrganisationType),
		RawProfileType:      string(a.ProfileType),
		RawSector:           string(a.SectorInterested),
		RawWhyAttending:     string(a.WhyAttending),
	})
	if len(m.Notes) == 0 {
		return false
	}
	a.OrganisationType = m.OrganisationType
	a.ProfileType = m.ProfileType
	a.SectorInterested = m.SectorInterested
	a.WhyAttending = m.WhyAttending
	for _, note := range m.Notes {
		a.AddNote(note)
	}
	return true
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	verb := os.Args[1]
	if verb != "selective" && verb != "all" {
		usage()
	}

	fs := flag.NewFlagSet(verb, flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "report what would change without writing")
	fs.Parse(os.Args[2:])

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireStore(); err != nil {
		log.Fatalf("Config check failed: %v", err)
	}

	ctx := context.Background()
	repo, err := dynamo.NewFromAWS(ctx, cfg.Store.DynamoDBTable, cfg.Store.AWSRegion, cfg.Store.GetAWSProfile())
	if err != nil {
		log.Fatalf("Failed to initialize DynamoDB: %v", err)
	}
	svc := attendee.NewService(repo)

	all, err := svc.All(ctx)
	if err != nil {
		log.Fatalf("Reading store: %v", err)
	}

	var candidates []domain.Attendee
	for _, a := range all {
		if verb == "all" || needsRecode(a) {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		fmt.Println("nothing to recode")
		return
	}

	if *dryRun {
		changed := 0
		for i := range candidates {
			a := candidates[i]
			if recode(&a) {
				changed++
				fmt.Printf("%s: %s\n", a.PassID, a.MigrationNotes[len(a.MigrationNotes)-1])
			}
		}
		fmt.Printf("would rewrite %d of %d candidate records\n", changed, len(candidates))
		return
	}

	ok, err := confirm.NewStdin().Confirm(
		fmt.Sprintf("This will rewrite up to %d records in %s.", len(candidates), cfg.Store.DynamoDBTable),
		"recode records")
	if err != nil {
		log.Fatalf("Confirmation failed: %v", err)
	}
	if !ok {
		log.Fatal("aborted by operator")
	}

	_, release, err := distlock.AcquireRun(ctx, cfg.Redis.URL, cfg.LegacyDB.URL, cfg.Migration.LockTTL())
	if err != nil {
		log.Fatalf("Run lock: %v", err)
	}
	defer release()

	changed := 0
	for i := range candidates {
		a := candidates[i]
		if !recode(&a) {
			continue
		}
		if err := repo.Put(ctx, &a); err != nil {
			log.Fatalf("Rewriting pass %s failed after %d records: %v", a.PassID, changed, err)
		}
		changed++
	}
	logger.Info("recode complete", "candidates", len(candidates), "rewritten", changed)
	fmt.Printf("rewrote %d records\n", changed)
}
