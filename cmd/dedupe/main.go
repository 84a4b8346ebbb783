// The dedupe CLI finds and removes duplicate attendee records: groups
// sharing a normalized email keep one survivor, chosen by pass tier then
// recency.
//
// Usage:
//
//	dedupe find              list duplicate groups and the planned survivor
//	dedupe remove [-dry-run] delete the losing records
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/tngss/attendee-sync/internal/config"
	"github.com/tngss/attendee-sync/internal/pipeline"
	"github.com/tngss/attendee-sync/internal/pkg/confirm"
	"github.com/tngss/attendee-sync/internal/pkg/distlock"
	"github.com/tngss/attendee-sync/internal/pkg/logger"
	"github.com/tngss/attendee-sync/internal/reconcile"
	"github.com/tngss/attendee-sync/internal/repository/dynamo"
	"github.com/tngss/attendee-sync/internal/service/attendee"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: dedupe <find|remove> [-dry-run]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	verb := os.Args[1]

	fs := flag.NewFlagSet(verb, flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "report the deletion plan without writing")
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
	plans, victims := reconcile.ResolveAll(all, cfg.Migration.PreferredPassTypeID)

	switch verb {
	case "find":
		if len(plans) == 0 {
			fmt.Println("no duplicate emails found")
			return
		}
		for email, plan := range plans {
			fmt.Printf("%s: keep %s, delete %d\n", email, plan.Keep.PassID, len(plan.Delete))
			for _, d := range plan.Delete {
				fmt.Printf("  - %s (tier %s, created %s)\n", d.PassID, d.PassTypeID, d.EffectiveCreated().Format("2006-01-02"))
			}
		}
		fmt.Printf("%d groups, %d records to delete\n", len(plans), len(victims))

	case "remove":
		if len(victims) == 0 {
			fmt.Println("nothing to remove")
			return
		}
		if *dryRun {
			fmt.Printf("would delete %d records across %d duplicate groups\n", len(victims), len(plans))
			return
		}
		ok, err := confirm.NewStdin().Confirm(
			fmt.Sprintf("This will DELETE %d duplicate records from %s.", len(victims), cfg.Store.DynamoDBTable),
			"remove duplicates")
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

		deleter := pipeline.NewDeleter(svc, cfg.Migration.DeleteBatchSize, 0)
		stats, err := deleter.DeletePlanned(ctx, victims)
		if err != nil {
			log.Fatalf("Deletion failed after %d records: %v", stats.Deleted, err)
		}
		logger.Info("duplicates removed", "groups", len(plans), "deleted", stats.Deleted, "failed", stats.Failed)
		fmt.Printf("deleted %d records\n", stats.Deleted)
		if stats.Failed > 0 {
			fmt.Printf("%d deletions failed; rerun remove to retry them\n", stats.Failed)
			release()
			os.Exit(1)
		}

	default:
		usage()
	}
}
