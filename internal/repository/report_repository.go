package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/JustinDo720/SpendingAnalysisETL/internal/model"
	"github.com/JustinDo720/SpendingAnalysisETL/internal/reconcile"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Begin opens the transaction scope for one reconciliation attempt.
func (r *ReportRepository) Begin() (reconcile.Tx, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	return &reportTx{tx: tx}, nil
}

type reportTx struct {
	tx *sql.Tx
}

func (t *reportTx) FindReport(beginDate, endDate time.Time) (*model.StoredReport, error) {
	var s model.StoredReport
	err := t.tx.QueryRow(`
		SELECT id, begin_date, end_date, details, narrative, created_at
		FROM financial_report
		WHERE begin_date = $1 AND end_date = $2
	`, beginDate, endDate).Scan(&s.ID, &s.BeginDate, &s.EndDate, &s.Details, &s.Narrative, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (t *reportTx) InsertReport(report *model.StoredReport) error {
	report.ID = uuid.NewString()
	return t.tx.QueryRow(`
		INSERT INTO financial_report(id, begin_date, end_date, details, narrative)
		VALUES($1, $2, $3, $4, $5)
		RETURNING created_at
	`, report.ID, report.BeginDate, report.EndDate, report.Details, report.Narrative).Scan(&report.CreatedAt)
}

func (t *reportTx) UpdateReport(beginDate, endDate time.Time, details []byte, narrative string) error {
	_, err := t.tx.Exec(`
		UPDATE financial_report
		SET details = $3, narrative = $4
		WHERE begin_date = $1 AND end_date = $2
	`, beginDate, endDate, details, narrative)
	return err
}

func (t *reportTx) Commit() error {
	return t.tx.Commit()
}

func (t *reportTx) Rollback() error {
	return t.tx.Rollback()
}

func (r *ReportRepository) GetDateRanges() ([]model.DateRange, error) {
	rows, err := r.db.Query(`
		SELECT begin_date, end_date
		FROM financial_report
		ORDER BY begin_date ASC, end_date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranges []model.DateRange
	for rows.Next() {
		var dr model.DateRange
		if err := rows.Scan(&dr.BeginDate, &dr.EndDate); err != nil {
			return nil, err
		}
		ranges = append(ranges, dr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ranges, nil
}

func (r *ReportRepository) GetByRange(beginDate, endDate time.Time) (*model.StoredReport, error) {
	var s model.StoredReport
	err := r.db.QueryRow(`
		SELECT id, begin_date, end_date, details, narrative, created_at
		FROM financial_report
		WHERE begin_date = $1 AND end_date = $2
	`, beginDate, endDate).Scan(&s.ID, &s.BeginDate, &s.EndDate, &s.Details, &s.Narrative, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
