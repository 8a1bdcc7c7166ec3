package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/confera/registration-api/internal/model"
)

// EnrollmentRepo provides access to enrollments and their addresses.
// An enrollment is keyed on the unique user_id; its address is keyed on
// the unique enrollment_id.  Both rows are written together in one
// transaction on submission.
type EnrollmentRepo struct {
	db *sql.DB
}

// NewEnrollmentRepo returns a repo bound to the given database.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

// EnrollmentByUser loads a user's enrollment with its address.  Returns
// nil, nil when the user never enrolled.
func (r *EnrollmentRepo) EnrollmentByUser(ctx context.Context, userID uint64) (*model.Enrollment, error) {
	const q = `SELECT e.id, e.user_id, e.name, e.document, e.phone, e.birthday, e.created_at, e.updated_at,
	                  a.id, a.street, a.number, a.district, a.city, a.state, a.postal_code
	           FROM enrollments e
	           LEFT JOIN addresses a ON a.enrollment_id = e.id
	           WHERE e.user_id = ?`
	var (
		e          model.Enrollment
		addrID     sql.NullInt64
		street     sql.NullString
		number     sql.NullString
		district   sql.NullString
		city       sql.NullString
		state      sql.NullString
		postalCode sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&e.ID, &e.UserID, &e.Name, &e.Document, &e.Phone, &e.Birthday, &e.CreatedAt, &e.UpdatedAt,
		&addrID, &street, &number, &district, &city, &state, &postalCode,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if addrID.Valid {
		e.Address = &model.Address{
			ID:           uint64(addrID.Int64),
			EnrollmentID: e.ID,
			Street:       street.String,
			Number:       number.String,
			District:     district.String,
			City:         city.String,
			State:        state.String,
			PostalCode:   postalCode.String,
		}
	}
	return &e, nil
}

// UpsertWithAddress creates or updates the user's enrollment and its
// address as one atomic unit.  The enrollment upsert is keyed on the
// unique user_id, the address upsert on the unique enrollment_id, so
// concurrent submissions for the same user collapse into one row pair.
func (r *EnrollmentRepo) UpsertWithAddress(ctx context.Context, e *model.Enrollment, a *model.Address) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const upsertEnrollment = `INSERT INTO enrollments (user_id, name, document, phone, birthday)
	                          VALUES (?, ?, ?, ?, ?)
	                          ON DUPLICATE KEY UPDATE
	                            name = VALUES(name), document = VALUES(document),
	                            phone = VALUES(phone), birthday = VALUES(birthday)`
	if _, err := tx.ExecContext(ctx, upsertEnrollment,
		e.UserID, e.Name, e.Document, e.Phone, e.Birthday); err != nil {
		return err
	}
	// LastInsertId is unreliable for the update path of an upsert, so
	// read the id back by its unique key.
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM enrollments WHERE user_id = ?`, e.UserID).Scan(&e.ID); err != nil {
		return err
	}

	const upsertAddress = `INSERT INTO addresses (enrollment_id, street, number, district, city, state, postal_code)
	                       VALUES (?, ?, ?, ?, ?, ?, ?)
	                       ON DUPLICATE KEY UPDATE
	                         street = VALUES(street), number = VALUES(number),
	                         district = VALUES(district), city = VALUES(city),
	                         state = VALUES(state), postal_code = VALUES(postal_code)`
	if _, err := tx.ExecContext(ctx, upsertAddress,
		e.ID, a.Street, a.Number, a.District, a.City, a.State, a.PostalCode); err != nil {
		return err
	}
	a.EnrollmentID = e.ID

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
