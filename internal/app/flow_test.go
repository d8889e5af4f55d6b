package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kitikazis/ELAC-Lectura/internal/app"
	"github.com/kitikazis/ELAC-Lectura/internal/domain"
)

// Full admin-to-student flow: author a category, mint a code, join before
// expiry, answer, and score.
func TestStudentFlowCorrectAnswer(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 11, 9, 0, 0, 0, time.UTC)
	manager, _ := newTestManager(t, &now)

	code, err := manager.Generate(ctx, "biologia")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	now = now.Add(2 * time.Minute) // join well before expiry
	category, err := manager.Validate(ctx, code.Code)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	session := app.NewSession("Ana", category, time.Minute)
	defer session.Close()

	if got := len(session.Category().Questions); got != 1 {
		t.Fatalf("expected snapshot with 1 question, got %d", got)
	}

	session.BeginAnswering()
	if err := session.SelectAnswer(0, 1); err != nil {
		t.Fatalf("select: %v", err)
	}
	score, err := session.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if score.Correct != 1 || score.Total != 1 || score.Percentage != 100 {
		t.Fatalf("expected 1/1 at 100%%, got %+v", score)
	}
}

func TestStudentFlowWrongAnswer(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 11, 9, 0, 0, 0, time.UTC)
	manager, _ := newTestManager(t, &now)

	code, err := manager.Generate(ctx, "biologia")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	category, err := manager.Validate(ctx, code.Code)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	session := app.NewSession("Ana", category, time.Minute)
	defer session.Close()

	session.BeginAnswering()
	if err := session.SelectAnswer(0, 0); err != nil {
		t.Fatalf("select: %v", err)
	}
	score, err := session.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if score.Correct != 0 || score.Percentage != 0 {
		t.Fatalf("expected 0 at 0%%, got %+v", score)
	}
}

func TestStudentJoinAfterExpiryFails(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 8, 11, 9, 0, 0, 0, time.UTC)
	manager, _ := newTestManager(t, &now)

	code, err := manager.Generate(ctx, "biologia")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	now = now.Add(301 * time.Second)
	if _, err := manager.Validate(ctx, code.Code); !errors.Is(err, domain.ErrExpired) {
		t.Fatalf("expected expired at +301s, got %v", err)
	}
}
