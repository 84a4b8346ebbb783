// The migration CLI moves attendee passes from the legacy Postgres database
// into the DynamoDB-backed attendee store, either directly or through the
// registration API.
//
// Usage:
//
//	migrate <verb> [flags]
//
// Verbs:
//
//	test            connectivity checks (legacy DB, target store, API)
//	explore-pg      row counts for the legacy tables
//	test-transform  transform a sample without writing (-limit N)
//	migrate         run the migration (-via-api, -dry-run, -limit N)
//	resume          re-run; existing passes count as progress
//	full            clear the store, migrate everything, then verify
//	clear           delete every record from the target store
//	stats           distributions over the target store
//	verify          assert store invariants; non-zero exit on violation
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/tngss/attendee-sync/internal/apiclient"
	"github.com/tngss/attendee-sync/internal/config"
	"github.com/tngss/attendee-sync/internal/legacy"
	"github.com/tngss/attendee-sync/internal/pipeline"
	"github.com/tngss/attendee-sync/internal/pkg/confirm"
	"github.com/tngss/attendee-sync/internal/pkg/distlock"
	"github.com/tngss/attendee-sync/internal/pkg/logger"
	"github.com/tngss/attendee-sync/internal/reconcile"
	"github.com/tngss/attendee-sync/internal/report"
	"github.com/tngss/attendee-sync/internal/repository/dynamo"
	"github.com/tngss/attendee-sync/internal/service/attendee"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate <test|explore-pg|test-transform|migrate|resume|full|clear|stats|verify> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	verb := os.Args[1]

	fs := flag.NewFlagSet(verb, flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "report what would happen without writing")
	viaAPI := fs.Bool("via-api", false, "write through the registration API instead of the store")
	limit := fs.Int("limit", 0, "cap the number of legacy rows processed (0 = all)")
	fs.Parse(os.Args[2:])

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app := &app{cfg: cfg, confirm: confirm.NewStdin()}
	ctx := context.Background()

	switch verb {
	case "test":
		err = app.test(ctx, *viaAPI)
	case "explore-pg":
		err = app.explorePG(ctx)
	case "test-transform":
		err = app.testTransform(ctx, *limit)
	case "migrate":
		err = app.migrate(ctx, "migrate", *viaAPI, *dryRun, *limit)
	case "resume":
		err = app.migrate(ctx, "resume", *viaAPI, *dryRun, *limit)
	case "full":
		err = app.full(ctx, *viaAPI, *dryRun)
	case "clear":
		err = app.clear(ctx, *dryRun)
	case "stats":
		err = app.stats(ctx)
	case "verify":
		err = app.verify(ctx)
	default:
		usage()
	}
	if err != nil {
		log.Fatalf("%s failed: %v", verb, err)
	}
}

type app struct {
	cfg     *config.Config
	confirm confirm.Provider
}

func (a *app) openLegacy() (*sql.DB, error) {
	if err := a.cfg.RequireLegacyDB(); err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", a.cfg.LegacyDB.URL)
	if err != nil {
		return nil, fmt.Errorf("opening legacy database: %w", err)
	}
	return db, nil
}

func (a *app) openStore(ctx context.Context) (*attendee.Service, *dynamo.Repository, error) {
	if err := a.cfg.RequireStore(); err != nil {
		return nil, nil, err
	}
	repo, err := dynamo.NewFromAWS(ctx, a.cfg.Store.DynamoDBTable, a.cfg.Store.AWSRegion, a.cfg.Store.GetAWSProfile())
	if err != nil {
		return nil, nil, err
	}
	return attendee.NewService(repo), repo, nil
}

// acquireRunLock serializes writing commands. Redis when configured,
// otherwise a Postgres advisory lock on the legacy connection.
func (a *app) acquireRunLock(ctx context.Context, db *sql.DB) (distlock.DistLock, error) {
	var redisClient *redis.Client
	if a.cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(a.cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		redisClient = redis.NewClient(opts)
	}
	if redisClient == nil && db == nil {
		var err error
		db, err = a.openLegacy()
		if err != nil {
			return nil, fmt.Errorf("run lock needs REDIS_URL or DATABASE_URL: %w", err)
		}
	}

	lock := distlock.NewRunLock(redisClient, db, a.cfg.Migration.LockTTL())
	ok, err := lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	if !ok {
		return nil, distlock.ErrRunInProgress
	}
	return lock, nil
}

func (a *app) test(ctx context.Context, viaAPI bool) error {
	db, err := a.openLegacy()
	if err != nil {
		return err
	}
	defer db.Close()
	if err := legacy.NewReader(db).Ping(ctx); err != nil {
		return err
	}
	fmt.Println("legacy database: OK")

	svc, _, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	n, err := svc.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("target store: OK (%d records)\n", n)

	if viaAPI {
		if err := a.cfg.RequireRegistrationAPI(); err != nil {
			return err
		}
		client := apiclient.New(a.cfg.Registration.BaseURL, a.cfg.Registration.Token, a.cfg.Registration.Timeout())
		if err := client.Health(ctx); err != nil {
			return err
		}
		fmt.Println("registration API: OK")
	}
	return nil
}

func (a *app) explorePG(ctx context.Context) error {
	db, err := a.openLegacy()
	if err != nil {
		return err
	}
	defer db.Close()

	tc, err := legacy.NewReader(db).Explore(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("visitors:    %d\npasses:      %d\nconferences: %d\n",
		tc.Visitors, tc.Passes, tc.Conferences)
	return nil
}

func (a *app) testTransform(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = 10
	}
	db, err := a.openLegacy()
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := legacy.NewReader(db).FetchPasses(ctx, limit)
	if err != nil {
		return err
	}
	records := pipeline.TransformAll(rows)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, a := range records {
		if err := enc.Encode(a); err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stderr, "transformed %d rows\n", len(records))
	return nil
}

func (a *app) migrate(ctx context.Context, mode string, viaAPI, dryRun bool, limit int) error {
	db, err := a.openLegacy()
	if err != nil {
		return err
	}
	defer db.Close()

	svc, _, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	rows, err := legacy.NewReader(db).FetchPasses(ctx, limit)
	if err != nil {
		return err
	}
	records := pipeline.TransformAll(rows)
	logger.Info("legacy rows transformed", "mode", mode, "rows", len(records))

	summary := report.NewSummary(mode)
	summary.DryRun = dryRun
	summary.LegacyRows = len(rows)
	summary.Tallies = report.BuildTallies(records)

	if dryRun {
		summary.Finish()
		fmt.Print(summary.Text())
		return nil
	}

	lock, err := a.acquireRunLock(ctx, db)
	if err != nil {
		return err
	}
	defer lock.Release(ctx)

	var sink pipeline.Sink
	execCfg := pipeline.ExecutorConfig{
		BatchSize:  a.cfg.Migration.CreateBatchSize,
		InterBatch: a.cfg.Migration.InterBatchDelay(),
		// Paced runs outlast the lock TTL, so refresh it at batch boundaries.
		KeepAlive: func(ctx context.Context) error {
			return lock.Extend(ctx, a.cfg.Migration.LockTTL())
		},
	}
	if viaAPI {
		if err := a.cfg.RequireRegistrationAPI(); err != nil {
			return err
		}
		client := apiclient.New(a.cfg.Registration.BaseURL, a.cfg.Registration.Token, a.cfg.Registration.Timeout())
		sink = pipeline.NewAPISink(client)
		execCfg.Concurrency = 1
		execCfg.InterItem = a.cfg.Migration.InterItemDelay()
	} else {
		sink = pipeline.NewStoreSink(svc)
		execCfg.Concurrency = 8
	}

	stats, runErr := pipeline.NewExecutor(sink, execCfg).Run(ctx, records)
	summary.Stats = stats
	if n, err := svc.Count(ctx); err == nil {
		summary.StoreCount = n
	}
	summary.Finish()
	fmt.Print(summary.Text())

	a.archiveAndMail(ctx, summary)
	return runErr
}

func (a *app) clear(ctx context.Context, dryRun bool) error {
	svc, _, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	n, err := svc.Count(ctx)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Printf("would delete %d records from %s\n", n, a.cfg.Store.DynamoDBTable)
		return nil
	}

	ok, err := a.confirm.Confirm(
		fmt.Sprintf("This will DELETE all %d records from table %s.", n, a.cfg.Store.DynamoDBTable),
		"delete everything")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("aborted by operator")
	}

	lock, err := a.acquireRunLock(ctx, nil)
	if err != nil {
		return err
	}
	defer lock.Release(ctx)

	deleter := pipeline.NewDeleter(svc, a.cfg.Migration.DeleteBatchSize, a.cfg.Migration.InterBatchDelay())
	stats, err := deleter.DrainAll(ctx)
	fmt.Printf("deleted %d records\n", stats.Deleted)
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d deletions failed; those records remain in the store", stats.Failed)
	}
	return nil
}

func (a *app) full(ctx context.Context, viaAPI, dryRun bool) error {
	if !dryRun {
		ok, err := a.confirm.Confirm(
			"Full migration: the target store will be cleared and repopulated from the legacy database.",
			"run full migration")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("aborted by operator")
		}
	}
	if err := a.clearUnconfirmed(ctx, dryRun); err != nil {
		return err
	}
	if err := a.migrate(ctx, "full", viaAPI, dryRun, 0); err != nil {
		return err
	}
	if dryRun {
		return nil
	}
	return a.verify(ctx)
}

// clearUnconfirmed is the full-run variant of clear: the operator already
// confirmed the whole run, so no second prompt.
func (a *app) clearUnconfirmed(ctx context.Context, dryRun bool) error {
	svc, _, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if dryRun {
		n, err := svc.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("would delete %d records before migrating\n", n)
		return nil
	}

	lock, err := a.acquireRunLock(ctx, nil)
	if err != nil {
		return err
	}
	deleter := pipeline.NewDeleter(svc, a.cfg.Migration.DeleteBatchSize, a.cfg.Migration.InterBatchDelay())
	stats, err := deleter.DrainAll(ctx)
	lock.Release(ctx)
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d deletions failed; refusing to migrate over a partially cleared store", stats.Failed)
	}
	logger.Info("store cleared before full migration", "deleted", stats.Deleted)
	return nil
}

func (a *app) stats(ctx context.Context) error {
	svc, _, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	all, err := svc.All(ctx)
	if err != nil {
		return err
	}

	tallies := report.BuildTallies(all)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(tallies)
}

func (a *app) verify(ctx context.Context) error {
	svc, _, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	all, err := svc.All(ctx)
	if err != nil {
		return err
	}

	violations := 0
	for _, rec := range all {
		if !rec.OrganisationType.Valid() || !rec.ProfileType.Valid() ||
			!rec.SectorInterested.Valid() || !rec.WhyAttending.Valid() {
			violations++
			fmt.Fprintf(os.Stderr, "VIOLATION pass %s: legacy category value survived\n", rec.PassID)
		}
	}
	dupGroups := reconcile.Duplicates(all)
	for email, group := range dupGroups {
		violations++
		fmt.Fprintf(os.Stderr, "VIOLATION email %s: %d records\n", email, len(group))
	}

	if violations > 0 {
		return fmt.Errorf("%d invariant violations in %d records", violations, len(all))
	}
	fmt.Printf("verified %d records: no duplicate emails, no legacy category values\n", len(all))
	return nil
}

// archiveAndMail persists and mails the summary. Both are best-effort: the
// run's outcome is already decided.
func (a *app) archiveAndMail(ctx context.Context, s *report.Summary) {
	if a.cfg.Store.S3Bucket != "" {
		archiver, err := newArchiver(ctx, a.cfg)
		if err == nil {
			if key, err := archiver.Save(ctx, s); err != nil {
				logger.Error("summary archival failed", "error", err)
			} else {
				logger.Info("summary archived", "s3_key", key)
			}
		} else {
			logger.Error("summary archiver unavailable", "error", err)
		}
	}

	if a.cfg.Mailer.Enabled {
		if err := a.cfg.RequireMailer(); err != nil {
			logger.Error("summary mailer misconfigured", "error", err)
			return
		}
		mailer, err := newMailer(ctx, a.cfg)
		if err != nil {
			logger.Error("summary mailer unavailable", "error", err)
			return
		}
		sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := mailer.SendSummary(sendCtx, s); err != nil {
			logger.Error("summary email failed", "error", err)
		}
	}
}
