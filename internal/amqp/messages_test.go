package amqp

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/McPreacher/MissionTeamMoney/internal/core"
	"github.com/McPreacher/MissionTeamMoney/internal/ledger"
)

func TestNewMutationMessageNormalizes(t *testing.T) {
	msg := NewMutationMessage(ledger.Mutation{
		Name:   "Alice",
		Group:  "A",
		Amount: decimal.NewFromInt(50),
	})

	if msg.MessageID == "" {
		t.Error("message id not assigned")
	}
	if msg.Timestamp.IsZero() {
		t.Error("timestamp not stamped")
	}
	if msg.Mutation.Action != ledger.ActionAdd {
		t.Errorf("action = %q, want defaulted ADD", msg.Mutation.Action)
	}
	if msg.Mutation.Role != core.RoleStudent {
		t.Errorf("role = %q, want defaulted Student", msg.Mutation.Role)
	}
	if msg.Mutation.ID == "" {
		t.Error("entry id not assigned")
	}
}

func TestMutationMessageJSONRoundTrip(t *testing.T) {
	in := NewMutationMessage(ledger.Mutation{
		Name:    "Bob",
		Group:   "B",
		Comment: "cash",
		Amount:  decimal.RequireFromString("25.50"),
	})

	data, err := in.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	out, err := MutationMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	if out.MessageID != in.MessageID {
		t.Errorf("message id = %q, want %q", out.MessageID, in.MessageID)
	}
	if out.Mutation.Name != "Bob" || out.Mutation.Group != "B" || out.Mutation.Comment != "cash" {
		t.Errorf("mutation = %+v", out.Mutation)
	}
	if !out.Mutation.Amount.Equal(in.Mutation.Amount) {
		t.Errorf("amount = %s, want %s", out.Mutation.Amount, in.Mutation.Amount)
	}
}

func TestMutationMessageFromJSONInvalid(t *testing.T) {
	if _, err := MutationMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
