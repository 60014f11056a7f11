// Package worker applies queued ledger mutations to the remote store.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/McPreacher/MissionTeamMoney/internal/amqp"
	"github.com/McPreacher/MissionTeamMoney/internal/ledger"
)

// MutationWorker drains the mutation queue into the spreadsheet-backed
// ledger. The queue is the only write path when AMQP is configured, so the
// web process never blocks a request on a Sheets round trip.
type MutationWorker struct {
	store ledger.MutationWriter
}

func NewMutationWorker(store ledger.MutationWriter) *MutationWorker {
	return &MutationWorker{store: store}
}

// HandleMutationMessage applies one queued mutation. A returned error
// requeues the delivery.
func (w *MutationWorker) HandleMutationMessage(ctx context.Context, msg *amqp.MutationMessage) error {
	slog.InfoContext(ctx, "Processing mutation message",
		"message_id", msg.MessageID,
		"action", msg.Mutation.Action,
		"name", msg.Mutation.Name,
		"group", msg.Mutation.Group)

	if err := w.store.Apply(ctx, msg.Mutation); err != nil {
		return fmt.Errorf("apply mutation %s: %w", msg.Mutation.Action, err)
	}

	slog.InfoContext(ctx, "Mutation applied to ledger store",
		"message_id", msg.MessageID,
		"action", msg.Mutation.Action,
		"id", msg.Mutation.ID)
	return nil
}
