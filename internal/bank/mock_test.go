package bank_test

import (
	"context"
	"errors"
	"testing"

	"github.com/p-n-ai/pratico-importer/internal/bank"
)

func TestMock_CreateTopicTwice(t *testing.T) {
	m := bank.NewMock("tok")
	ctx := context.Background()

	if _, err := m.CreateTopic(ctx, "Geral", "d", "tok"); err != nil {
		t.Fatalf("first CreateTopic() error = %v", err)
	}
	_, err := m.CreateTopic(ctx, "Geral", "d", "tok")
	if !bank.IsConflict(err) {
		t.Fatalf("second CreateTopic() error = %v, want conflict", err)
	}
	if len(m.Created()) != 1 {
		t.Errorf("Created() = %d, want 1", len(m.Created()))
	}
}

func TestMock_ImportErr(t *testing.T) {
	m := bank.NewMock("tok")
	m.ImportErr = func(call int) error {
		if call == 1 {
			return errors.New("rejected")
		}
		return nil
	}
	ctx := context.Background()

	if _, err := m.ImportQuestions(ctx, "1", []bank.Question{{}}, "tok"); err != nil {
		t.Errorf("call 0 error = %v", err)
	}
	if _, err := m.ImportQuestions(ctx, "1", []bank.Question{{}}, "tok"); err == nil {
		t.Error("call 1 should fail")
	}
	if len(m.Imports()) != 2 {
		t.Errorf("Imports() = %d, want 2", len(m.Imports()))
	}
}

func TestDryRun(t *testing.T) {
	d := bank.NewDryRun()
	ctx := context.Background()

	token, err := d.Login(ctx, "a", "b")
	if err != nil || token == "" {
		t.Fatalf("Login() = %q, %v", token, err)
	}

	t1, _ := d.CreateTopic(ctx, "Arte Naval", "", token)
	t2, _ := d.CreateTopic(ctx, "Geral", "", token)
	if t1.ID == t2.ID {
		t.Errorf("dry-run topic ids should differ, both %q", t1.ID)
	}

	res, err := d.ImportQuestions(ctx, t1.ID, make([]bank.Question, 3), token)
	if err != nil {
		t.Fatalf("ImportQuestions() error = %v", err)
	}
	if res.Accepted != 3 {
		t.Errorf("Accepted = %d, want 3", res.Accepted)
	}
}
