package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/seed"
	"github.com/geocoder89/workoutseed/internal/store"
)

func sampleResult() seed.Result {
	return seed.Result{
		RunID: "run-1",
		Outcomes: []seed.Outcome{
			{Kind: store.KindUser, Key: "maria@example.com", Status: seed.StatusCreated, ID: 7},
			{Kind: store.KindExercise, Key: "Cardio", Status: seed.StatusSkipped, Reason: seed.ReasonExists},
			{Kind: store.KindTemplate, Key: "ab", Status: seed.StatusFailed, Reason: "name: must be at least 3 characters", Err: errors.New("x")},
		},
	}
}

func TestPrinter_ResultEnglish(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, "en")
	if err != nil {
		t.Fatalf("NewPrinter error: %v", err)
	}

	p.Result(sampleResult())
	out := buf.String()

	for _, want := range []string{
		"[created] user maria@example.com (id 7)",
		"[skipped] exercise Cardio: already exists",
		"[failed] workout template ab: name: must be at least 3 characters",
		"Seed run run-1: 1 created, 1 skipped, 1 failed, 3 total",
		"  user: 1 created, 0 skipped, 0 failed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestPrinter_ResultSpanish(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, "es")
	if err != nil {
		t.Fatalf("NewPrinter error: %v", err)
	}

	p.Result(sampleResult())
	out := buf.String()

	if !strings.Contains(out, "[omitido] ejercicio Cardio: ya existe") {
		t.Fatalf("expected spanish skip line, got:\n%s", out)
	}
	if !strings.Contains(out, "1 creados, 1 omitidos, 1 fallidos, 3 en total") {
		t.Fatalf("expected spanish summary, got:\n%s", out)
	}
}

func TestPrinter_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, "not a tag!")
	if err != nil {
		t.Fatalf("NewPrinter error: %v", err)
	}

	p.SchemaReady()
	if strings.TrimSpace(buf.String()) != "Tables are ready." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestPrinter_Users(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter(&buf, "en")
	if err != nil {
		t.Fatalf("NewPrinter error: %v", err)
	}

	created := time.Date(2025, 11, 4, 20, 30, 0, 0, time.UTC)
	err = p.Users([]user.User{
		{ID: 1, Username: "admin", Email: "admin@example.com", FullName: "Administrator", IsAdmin: true, IsActive: true,
			CreatedAt: created, UpdatedAt: created.Add(time.Hour)},
		{ID: 2, Username: "maria", Email: "maria@example.com", FullName: "Maria Garcia", IsActive: false},
	})
	if err != nil {
		t.Fatalf("Users error: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "2 users\n") {
		t.Fatalf("expected plural header, got:\n%s", out)
	}
	if !strings.Contains(out, "Admins: 1, regular: 1, active: 1, inactive: 1") {
		t.Fatalf("expected role summary, got:\n%s", out)
	}
	if !strings.Contains(out, "2025-11-04 20:30:00") || !strings.Contains(out, "2025-11-04 21:30:00") {
		t.Fatalf("expected created and updated timestamps, got:\n%s", out)
	}
	if !strings.Contains(out, "inactive") {
		t.Fatalf("expected inactive marker, got:\n%s", out)
	}
}

func TestPrinter_NoUsers(t *testing.T) {
	var buf bytes.Buffer
	p, _ := NewPrinter(&buf, "es")

	if err := p.Users(nil); err != nil {
		t.Fatalf("Users error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No se encontraron usuarios." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
