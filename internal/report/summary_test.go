package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/tngss/attendee-sync/internal/domain"
	"github.com/tngss/attendee-sync/internal/pipeline"
)

func TestBuildTallies(t *testing.T) {
	records := []domain.Attendee{
		{PassID: "P-1", Email: "a@b.com", Mobile: "1", Name: "A", CheckedIn: true,
			OrganisationType: domain.OrgStartup, MigrationNotes: []string{"n"}},
		{PassID: "P-2", Email: "a@b.com", Mobile: "2", Name: "B",
			OrganisationType: domain.OrgStartup},
		{PassID: "P-3", Email: "c@b.com", Name: "C",
			OrganisationType: domain.OrgInvestor},
		{PassID: "P-4"},
	}

	tl := BuildTallies(records)
	if tl.Total != 4 || tl.CheckedIn != 1 {
		t.Errorf("totals: %+v", tl)
	}
	if tl.CheckedInPct != 25 {
		t.Errorf("checked-in pct: %v", tl.CheckedInPct)
	}
	if tl.MissingEmail != 1 || tl.MissingMobile != 2 || tl.MissingName != 1 {
		t.Errorf("missing tallies: %+v", tl)
	}
	if tl.Remapped != 1 {
		t.Errorf("remapped: %d", tl.Remapped)
	}
	if tl.DuplicateEmail != 2 {
		t.Errorf("duplicate-email records: %d", tl.DuplicateEmail)
	}
	if tl.ByOrganisation["startup"] != 2 || tl.ByOrganisation["investor"] != 1 {
		t.Errorf("distribution: %v", tl.ByOrganisation)
	}
}

func TestSummaryText(t *testing.T) {
	s := NewSummary("direct")
	s.LegacyRows = 100
	s.Stats = pipeline.RunStats{Total: 100, Created: 95, AlreadyExisted: 4, Failed: 1,
		Failures: []pipeline.ItemResult{{PassID: "P-9", Err: context.DeadlineExceeded}}}
	s.StoreCount = 99
	s.Finish()

	text := s.Text()
	for _, want := range []string{"Created:            95", "Already existed:    4", "FAILED P-9"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

type fakeS3 struct {
	lastKey    string
	lastBucket string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastBucket = *in.Bucket
	f.lastKey = *in.Key
	return &s3.PutObjectOutput{}, nil
}

func TestArchiver_KeyLayout(t *testing.T) {
	fake := &fakeS3{}
	s := NewSummary("direct")
	s.StartedAt = time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)
	s.Finish()

	key, err := NewArchiver(fake, "tngss-run-summaries").Save(context.Background(), s)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(key, "runs/2025/08/15/") || !strings.HasSuffix(key, ".json") {
		t.Errorf("key: %s", key)
	}
	if fake.lastBucket != "tngss-run-summaries" || fake.lastKey != key {
		t.Errorf("put: bucket=%s key=%s", fake.lastBucket, fake.lastKey)
	}
}

type fakeSES struct {
	lastInput *sesv2.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.lastInput = in
	return &sesv2.SendEmailOutput{}, nil
}

func TestMailer_SendSummary(t *testing.T) {
	fake := &fakeSES{}
	s := NewSummary("via-api")
	s.Stats.Created = 10
	s.Finish()

	m := NewMailer(fake, "ops@tngss.in", []string{"team@tngss.in"})
	if err := m.SendSummary(context.Background(), s); err != nil {
		t.Fatalf("SendSummary: %v", err)
	}
	if *fake.lastInput.FromEmailAddress != "ops@tngss.in" {
		t.Errorf("from: %s", *fake.lastInput.FromEmailAddress)
	}
	subject := *fake.lastInput.Content.Simple.Subject.Data
	if !strings.Contains(subject, "via-api") || !strings.Contains(subject, "10 created") {
		t.Errorf("subject: %s", subject)
	}
}
