package reconcile

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/JustinDo720/SpendingAnalysisETL/internal/model"
)

// Outcome is the terminal state of one reconciliation attempt.
type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeUpdated  Outcome = "updated"
	OutcomeSkipped  Outcome = "skipped"
)

// Tx scopes one reconciliation attempt: the span lookup and the write that
// follows it run on the same underlying transaction, so a crash between the
// two leaves the store untouched.
type Tx interface {
	FindReport(beginDate, endDate time.Time) (*model.StoredReport, error)
	InsertReport(report *model.StoredReport) error
	UpdateReport(beginDate, endDate time.Time, details []byte, narrative string) error
	Commit() error
	Rollback() error
}

type Store interface {
	Begin() (Tx, error)
}

// Engine decides whether a freshly computed report for a span is inserted,
// revises the stored report in place, or is discarded as stale.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Reconcile looks up the stored report for the exact (begin_date, end_date)
// span of the computed report and applies the insert-or-revise rule. The
// stored transaction count is the proxy for data completeness: a re-run that
// observed no new uploads produces an equal or smaller count and must not
// overwrite a possibly richer prior computation.
//
// Only exact span matches are considered. An upload whose dates fall inside
// a previously reported span but would widen its boundaries is not detected.
func (e *Engine) Reconcile(report *model.AggregateReport) (Outcome, error) {
	tx, err := e.store.Begin()
	if err != nil {
		return "", fmt.Errorf("begin reconciliation: %w", err)
	}
	defer tx.Rollback()

	existing, err := tx.FindReport(report.BeginDate, report.EndDate)
	if err != nil {
		return "", fmt.Errorf("lookup stored report: %w", err)
	}

	details, err := json.Marshal(report.Details())
	if err != nil {
		return "", fmt.Errorf("encode report details: %w", err)
	}

	if existing == nil {
		stored := &model.StoredReport{
			BeginDate: report.BeginDate,
			EndDate:   report.EndDate,
			Details:   details,
			Narrative: report.Narrative,
		}
		if err := tx.InsertReport(stored); err != nil {
			return "", fmt.Errorf("insert report: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("commit insert: %w", err)
		}
		return OutcomeInserted, nil
	}

	var prior model.ReportDetails
	if err := json.Unmarshal(existing.Details, &prior); err != nil {
		return "", fmt.Errorf("decode stored details: %w", err)
	}

	if report.TotalTransactions <= prior.TotalTransactions {
		return OutcomeSkipped, nil
	}

	// Revision, not re-creation: id, span and created_at stay as they are.
	if err := tx.UpdateReport(report.BeginDate, report.EndDate, details, report.Narrative); err != nil {
		return "", fmt.Errorf("update report: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit update: %w", err)
	}
	return OutcomeUpdated, nil
}
