package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DeliveryService sends drafts through the transactional-email
// collaborator with at-most-once-per-recipient semantics. Concurrent
// requests for the same idempotency key collapse onto a single in-flight
// delivery; the losers observe the winner's record.
type DeliveryService struct {
	sender EmailSender
	store  DeliveryStore
	retry  RetryPolicy
	logger *zap.Logger
	group  singleflight.Group
}

// NewDeliveryService creates a new delivery pipeline.
func NewDeliveryService(sender EmailSender, store DeliveryStore, retry RetryPolicy, logger *zap.Logger) *DeliveryService {
	return &DeliveryService{
		sender: sender,
		store:  store,
		retry:  retry,
		logger: logger,
	}
}

// IdempotencyKey derives the deterministic delivery key for a recipient
// address and draft identity.
func IdempotencyKey(recipient, draftID string) string {
	sum := sha256.Sum256([]byte(recipient + "\n" + draftID))
	return hex.EncodeToString(sum[:])
}

// Deliver sends a draft to a recipient. A record already in state sent is
// returned as-is without contacting the provider. Transient provider
// failures are retried per the shared policy; permanent ones mark the
// record failed immediately. A failed record from an earlier request is
// reused and delivery is attempted again on it.
func (s *DeliveryService) Deliver(ctx context.Context, draft *OutreachDraft, recipient string) (*DeliveryRecord, error) {
	key := IdempotencyKey(recipient, draft.ID)

	type outcome struct {
		rec *DeliveryRecord
		err error
	}
	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		rec, err := s.deliver(ctx, key, draft, recipient)
		return outcome{rec: rec, err: err}, nil
	})
	out := v.(outcome)
	return out.rec, out.err
}

func (s *DeliveryService) deliver(ctx context.Context, key string, draft *OutreachDraft, recipient string) (*DeliveryRecord, error) {
	rec, claimed, err := s.store.Claim(ctx, key, &DeliveryRecord{
		Key:       key,
		DraftID:   draft.ID,
		Recipient: recipient,
		Status:    StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim delivery record: %w", err)
	}
	if !claimed && rec.Status == StatusSent {
		s.logger.Debug("Delivery already sent, skipping provider call",
			zap.String("key", key),
			zap.String("recipient", recipient))
		return rec, nil
	}

	if rec.FirstAttemptAt.IsZero() {
		rec.FirstAttemptAt = time.Now()
	}
	rec.Status = StatusPending

	sendErr := s.retry.DoTransient(ctx, func(ctx context.Context) error {
		rec.Attempts++
		err := s.sender.Send(ctx, &OutreachEmail{
			To:      recipient,
			Subject: draft.Subject,
			Body:    draft.Body,
		})
		if err != nil {
			rec.LastError = err.Error()
		}
		return err
	})

	if sendErr != nil {
		rec.Status = StatusFailed
		rec.CompletedAt = time.Now()
		if uerr := s.store.Update(ctx, rec); uerr != nil {
			s.logger.Error("Failed to persist delivery record", zap.Error(uerr), zap.String("key", key))
		}
		s.logger.Warn("Delivery failed",
			zap.String("key", key),
			zap.String("recipient", recipient),
			zap.Int("attempts", rec.Attempts),
			zap.Error(sendErr))

		var perm *PermanentDeliveryError
		if errors.As(sendErr, &perm) {
			return rec, sendErr
		}
		return rec, &UpstreamUnavailableError{Collaborator: "transactional-email", Err: sendErr}
	}

	rec.Status = StatusSent
	rec.LastError = ""
	rec.CompletedAt = time.Now()
	if uerr := s.store.Update(ctx, rec); uerr != nil {
		s.logger.Error("Failed to persist delivery record", zap.Error(uerr), zap.String("key", key))
	}

	s.logger.Info("Delivery sent",
		zap.String("key", key),
		zap.String("recipient", recipient),
		zap.Int("attempts", rec.Attempts))

	return rec, nil
}
