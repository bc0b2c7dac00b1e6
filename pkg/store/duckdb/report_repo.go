package duckdb

import (
	"context"

	"github.com/oyabun/tendon/pkg/model"
	"github.com/oyabun/tendon/pkg/validate"
)

// ReportRepo persists validation run summaries
type ReportRepo struct {
	client *Client
}

// NewReportRepo creates a new validation report repository
func NewReportRepo(client *Client) *ReportRepo {
	return &ReportRepo{client: client}
}

// Insert stores one validation report under the given run ID.
func (r *ReportRepo) Insert(ctx context.Context, runID string, report *validate.Report) error {
	query := `
		INSERT INTO validation_reports (
			run_id, schema_version, total_rows, accepted_rows,
			insufficient_history_rows, out_of_range_rows,
			injured_rows, uninjured_rows, unlabeled_rows
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id) DO UPDATE SET
			schema_version = EXCLUDED.schema_version,
			total_rows = EXCLUDED.total_rows,
			accepted_rows = EXCLUDED.accepted_rows,
			insufficient_history_rows = EXCLUDED.insufficient_history_rows,
			out_of_range_rows = EXCLUDED.out_of_range_rows,
			injured_rows = EXCLUDED.injured_rows,
			uninjured_rows = EXCLUDED.uninjured_rows,
			unlabeled_rows = EXCLUDED.unlabeled_rows
	`
	return r.client.Exec(query,
		runID, model.SchemaVersion, report.TotalRows, report.AcceptedRows,
		report.InsufficientHistoryRows, len(report.OutOfRange),
		report.InjuredRows, report.UninjuredRows, report.UnlabeledRows,
	)
}
