package scheduler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/agentledger/internal/infrastructure/metrics"
	"github.com/iho/agentledger/internal/usecase"
)

// Reconciler produces a ledger reconciliation report.
type Reconciler interface {
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// ConsistencyJob replays every account balance from the journal and reports
// drift, so a broken posting path surfaces without waiting for an operator.
type ConsistencyJob struct {
	reconciler Reconciler
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

// NewConsistencyJob creates a new ConsistencyJob. m may be nil.
func NewConsistencyJob(reconciler Reconciler, m *metrics.Metrics, log zerolog.Logger) *ConsistencyJob {
	return &ConsistencyJob{
		reconciler: reconciler,
		metrics:    m,
		log:        log.With().Str("job", "ledger_consistency").Logger(),
	}
}

// Name returns the job name
func (j *ConsistencyJob) Name() string {
	return "ledger_consistency"
}

// Run executes one reconciliation pass. Discrepancies are logged and counted;
// only a failure to read the ledger is returned as an error.
func (j *ConsistencyJob) Run(ctx context.Context) error {
	report, err := j.reconciler.GenerateReconciliationReport(ctx)
	if err != nil {
		j.record("error", 0)
		return err
	}

	result := "healthy"
	if !report.Healthy() {
		result = "unhealthy"
	}
	j.record(result, len(report.Discrepancies))

	if report.Healthy() {
		j.log.Info().
			Int("balances", report.TotalBalances).
			Msg("ledger consistent")
		return nil
	}

	j.log.Error().
		Bool("ledger_consistent", report.LedgerConsistent).
		Int("balances", report.TotalBalances).
		Int("discrepancies", len(report.Discrepancies)).
		Msg("ledger inconsistency detected")

	for _, d := range report.Discrepancies {
		j.log.Warn().
			Str("account_code", d.AccountCode).
			Str("currency", d.Currency).
			Str("recorded", d.RecordedBalance.String()).
			Str("calculated", d.CalculatedBalance.String()).
			Str("difference", d.Difference.String()).
			Msg("balance discrepancy")
	}

	return nil
}

func (j *ConsistencyJob) record(result string, discrepancies int) {
	if j.metrics == nil {
		return
	}
	j.metrics.ConsistencyChecks.WithLabelValues(result).Inc()
	if result != "error" {
		j.metrics.BalanceDiscrepancies.Set(float64(discrepancies))
		j.metrics.LastConsistencyCheckTime.SetToCurrentTime()
	}
}
