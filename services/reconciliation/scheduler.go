package reconciliation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RoamSim/RoamSim-Backend/services/monitoring/logging"
	"github.com/RoamSim/RoamSim-Backend/utils"
	"github.com/hibiken/asynq"
)

const (
	TypeInvoiceCheck = "invoice:check"
	queueName        = "reconciliation"
)

// SchedulerConfig carries the check cadence. Offsets are minutes from
// invoice creation, comma separated.
type SchedulerConfig struct {
	CheckOffsets string `mapstructure:"INVOICE_CHECK_OFFSETS"`
}

var defaultOffsets = []time.Duration{
	5 * time.Minute,
	10 * time.Minute,
	15 * time.Minute,
	20 * time.Minute,
}

type InvoiceCheckPayload struct {
	SenderInvoiceNo string `json:"sender_invoice_no"`
	Attempt         int    `json:"attempt"`
}

// Scheduler enqueues and cancels the delayed invoice checks. Tasks live
// in redis, so pending checks survive a process restart.
type Scheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	offsets   []time.Duration
	logger    *logging.Logger
}

func NewScheduler(redisOpt asynq.RedisClientOpt, logger *logging.Logger) *Scheduler {
	var c SchedulerConfig
	if err := utils.LoadCustomConfig(utils.EnvPath, &c); err != nil {
		logger.Error(fmt.Sprintf("could not load scheduler config, using defaults: %v", err))
	}
	return &Scheduler{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		offsets:   parseOffsets(c.CheckOffsets, logger),
		logger:    logger,
	}
}

func parseOffsets(raw string, logger *logging.Logger) []time.Duration {
	if raw == "" {
		return defaultOffsets
	}
	var offsets []time.Duration
	for _, part := range strings.Split(raw, ",") {
		minutes, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || minutes <= 0 {
			logger.Error(fmt.Sprintf("invalid check offset %q, using defaults", part))
			return defaultOffsets
		}
		offsets = append(offsets, time.Duration(minutes)*time.Minute)
	}
	return offsets
}

func checkTaskID(senderInvoiceNo string, attempt int) string {
	return fmt.Sprintf("invoice:%s:check:%d", senderInvoiceNo, attempt)
}

// ScheduleInvoiceChecks enqueues one delayed check per configured offset.
// The deterministic task ids make the whole set addressable for
// cancellation once a check fulfills the invoice.
func (s *Scheduler) ScheduleInvoiceChecks(senderInvoiceNo string) error {
	for i, offset := range s.offsets {
		attempt := i + 1
		payload, err := json.Marshal(InvoiceCheckPayload{
			SenderInvoiceNo: senderInvoiceNo,
			Attempt:         attempt,
		})
		if err != nil {
			return err
		}

		task := asynq.NewTask(TypeInvoiceCheck, payload)
		_, err = s.client.Enqueue(task,
			asynq.Queue(queueName),
			asynq.TaskID(checkTaskID(senderInvoiceNo, attempt)),
			asynq.ProcessIn(offset),
			asynq.MaxRetry(0),
		)
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			// Rescheduling the same invoice is a no-op.
			continue
		}
		if err != nil {
			return fmt.Errorf("enqueue check %d for invoice %s: %w", attempt, senderInvoiceNo, err)
		}
	}

	s.logger.Info(fmt.Sprintf("scheduled %d checks for invoice %s", len(s.offsets), senderInvoiceNo))
	return nil
}

// CancelRemainingChecks removes every still-pending check for the
// invoice. Checks that already ran or never existed are skipped silently.
func (s *Scheduler) CancelRemainingChecks(senderInvoiceNo string) {
	for i := range s.offsets {
		attempt := i + 1
		err := s.inspector.DeleteTask(queueName, checkTaskID(senderInvoiceNo, attempt))
		if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
			s.logger.Error(fmt.Sprintf("cancel check %d for invoice %s: %v", attempt, senderInvoiceNo, err))
		}
	}
}

func (s *Scheduler) Close() error {
	return s.client.Close()
}
