package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/etarang/garba-desk/internal/entity"
)

// EntryMirrorRepository keeps a Postgres copy of the sheet for reporting.
// The sheet stays the source of truth; the mirror is best effort and a failed
// upsert must never fail a page load.
type EntryMirrorRepository struct {
	DB *sql.DB
}

func NewEntryMirrorRepository(db *sql.DB) *EntryMirrorRepository {
	return &EntryMirrorRepository{DB: db}
}

func (r *EntryMirrorRepository) UpsertEntries(ctx context.Context, entries []entity.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mirror tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO entries_mirror
			(registration_number, name, email, phone_number, residency_status,
			 unique_id, transaction_id, desk, mail_sent, row_number, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (registration_number) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone_number = EXCLUDED.phone_number,
			residency_status = EXCLUDED.residency_status,
			unique_id = EXCLUDED.unique_id,
			transaction_id = EXCLUDED.transaction_id,
			desk = EXCLUDED.desk,
			mail_sent = EXCLUDED.mail_sent,
			row_number = EXCLUDED.row_number,
			synced_at = NOW()
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare mirror upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if e.RegistrationNumber == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			e.RegistrationNumber, e.Name, e.Email, e.PhoneNumber, e.ResidencyStatus,
			e.UniqueID, e.TransactionID, e.Desk, e.MailSent, e.RowNumber,
		); err != nil {
			return fmt.Errorf("upsert %s: %w", e.RegistrationNumber, err)
		}
	}

	return tx.Commit()
}
