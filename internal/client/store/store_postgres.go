package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"bimadesk/internal/client"
	id "bimadesk/pkg/domain"
	"bimadesk/pkg/platform/sentinel"
	txcontext "bimadesk/pkg/platform/tx"
)

// Postgres persists the aggregate across the clients root table and one of
// the three detail tables. The root row carries the variant tag so a load
// touches exactly one detail table. Detail rows reference the root with
// ON DELETE CASCADE.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// execer routes through the context transaction when one is present so
// read-then-diff-then-write happens against the snapshot that will commit.
func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) Create(ctx context.Context, c *client.Client) error {
	execer := s.execer(ctx)
	const rootQuery = `
		INSERT INTO clients (
			id, client_type, first_name, last_name, email, address, city, state,
			pincode, pan_number, gst_number, profile_image, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := execer.ExecContext(ctx, rootQuery,
		uuid.UUID(c.ID), string(c.Variant()),
		c.FirstName, c.LastName, c.Email, c.Address, c.City, c.State,
		c.Pincode, c.PANNumber, c.GSTNumber, c.ProfileImage,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return s.upsertDetails(ctx, execer, c)
}

func (s *Postgres) Get(ctx context.Context, clientID id.ClientID) (*client.Client, error) {
	execer := s.execer(ctx)
	const rootQuery = `
		SELECT id, client_type, first_name, last_name, email, address, city, state,
		       pincode, pan_number, gst_number, profile_image, created_at, updated_at
		FROM clients
		WHERE id = $1
	`
	var (
		c       client.Client
		rowID   uuid.UUID
		variant string
	)
	err := execer.QueryRowContext(ctx, rootQuery, uuid.UUID(clientID)).Scan(
		&rowID, &variant,
		&c.FirstName, &c.LastName, &c.Email, &c.Address, &c.City, &c.State,
		&c.Pincode, &c.PANNumber, &c.GSTNumber, &c.ProfileImage,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select client: %w", err)
	}
	c.ID = id.ClientID(rowID)
	if !client.IsValidVariant(client.Variant(variant)) {
		return nil, fmt.Errorf("client %s has unknown client_type %q", clientID, variant)
	}

	details, err := s.loadDetails(ctx, execer, clientID, client.Variant(variant))
	if err != nil {
		return nil, err
	}
	c.Details = details
	return &c, nil
}

func (s *Postgres) Update(ctx context.Context, c *client.Client) error {
	execer := s.execer(ctx)
	const rootQuery = `
		UPDATE clients SET
			first_name = $2, last_name = $3, email = $4, address = $5, city = $6,
			state = $7, pincode = $8, pan_number = $9, gst_number = $10,
			profile_image = $11, updated_at = $12
		WHERE id = $1
	`
	res, err := execer.ExecContext(ctx, rootQuery,
		uuid.UUID(c.ID),
		c.FirstName, c.LastName, c.Email, c.Address, c.City,
		c.State, c.Pincode, c.PANNumber, c.GSTNumber,
		c.ProfileImage, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sentinel.ErrNotFound
	}
	return s.upsertDetails(ctx, execer, c)
}

func (s *Postgres) Delete(ctx context.Context, clientID id.ClientID) error {
	const query = `DELETE FROM clients WHERE id = $1`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(clientID))
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) upsertDetails(ctx context.Context, execer dbExecutor, c *client.Client) error {
	switch d := c.Details.(type) {
	case *client.PersonalDetails:
		const query = `
			INSERT INTO personal_details (
				client_id, mobile_number, birth_date, gender, height, weight,
				education, marital_status, occupation, annual_income
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (client_id) DO UPDATE SET
				mobile_number = EXCLUDED.mobile_number, birth_date = EXCLUDED.birth_date,
				gender = EXCLUDED.gender, height = EXCLUDED.height, weight = EXCLUDED.weight,
				education = EXCLUDED.education, marital_status = EXCLUDED.marital_status,
				occupation = EXCLUDED.occupation, annual_income = EXCLUDED.annual_income
		`
		_, err := execer.ExecContext(ctx, query,
			uuid.UUID(c.ID), d.MobileNumber, d.BirthDate, d.Gender,
			nullFloat(d.Height), nullFloat(d.Weight),
			d.Education, d.MaritalStatus, d.Occupation, nullFloat(d.AnnualIncome),
		)
		if err != nil {
			return fmt.Errorf("upsert personal details: %w", err)
		}
	case *client.FamilyDetails:
		const query = `
			INSERT INTO family_details (
				client_id, phone_number, whatsapp_number, date_of_birth,
				relationship, gender, height, weight
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (client_id) DO UPDATE SET
				phone_number = EXCLUDED.phone_number, whatsapp_number = EXCLUDED.whatsapp_number,
				date_of_birth = EXCLUDED.date_of_birth, relationship = EXCLUDED.relationship,
				gender = EXCLUDED.gender, height = EXCLUDED.height, weight = EXCLUDED.weight
		`
		_, err := execer.ExecContext(ctx, query,
			uuid.UUID(c.ID), d.PhoneNumber, d.WhatsappNumber, d.DateOfBirth,
			string(d.Relationship), d.Gender, nullFloat(d.Height), nullFloat(d.Weight),
		)
		if err != nil {
			return fmt.Errorf("upsert family details: %w", err)
		}
	case *client.CorporateDetails:
		const query = `
			INSERT INTO corporate_details (
				client_id, company_name, contact_mobile, contact_email,
				registered_address, annual_income
			)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (client_id) DO UPDATE SET
				company_name = EXCLUDED.company_name, contact_mobile = EXCLUDED.contact_mobile,
				contact_email = EXCLUDED.contact_email,
				registered_address = EXCLUDED.registered_address,
				annual_income = EXCLUDED.annual_income
		`
		_, err := execer.ExecContext(ctx, query,
			uuid.UUID(c.ID), d.CompanyName, d.ContactMobile, d.ContactEmail,
			d.RegisteredAddress, nullFloat(d.AnnualIncome),
		)
		if err != nil {
			return fmt.Errorf("upsert corporate details: %w", err)
		}
	default:
		return fmt.Errorf("client %s has no detail record", c.ID)
	}
	return nil
}

func (s *Postgres) loadDetails(ctx context.Context, execer dbExecutor, clientID id.ClientID, variant client.Variant) (client.Details, error) {
	switch variant {
	case client.VariantPersonal:
		const query = `
			SELECT mobile_number, birth_date, gender, height, weight,
			       education, marital_status, occupation, annual_income
			FROM personal_details WHERE client_id = $1
		`
		var (
			d                      client.PersonalDetails
			height, weight, income sql.NullFloat64
		)
		err := execer.QueryRowContext(ctx, query, uuid.UUID(clientID)).Scan(
			&d.MobileNumber, &d.BirthDate, &d.Gender, &height, &weight,
			&d.Education, &d.MaritalStatus, &d.Occupation, &income,
		)
		if err != nil {
			return nil, fmt.Errorf("select personal details: %w", err)
		}
		d.Height = fromNullFloat(height)
		d.Weight = fromNullFloat(weight)
		d.AnnualIncome = fromNullFloat(income)
		return &d, nil
	case client.VariantFamilyEmployee:
		const query = `
			SELECT phone_number, whatsapp_number, date_of_birth, relationship,
			       gender, height, weight
			FROM family_details WHERE client_id = $1
		`
		var (
			d              client.FamilyDetails
			relationship   string
			height, weight sql.NullFloat64
		)
		err := execer.QueryRowContext(ctx, query, uuid.UUID(clientID)).Scan(
			&d.PhoneNumber, &d.WhatsappNumber, &d.DateOfBirth, &relationship,
			&d.Gender, &height, &weight,
		)
		if err != nil {
			return nil, fmt.Errorf("select family details: %w", err)
		}
		d.Relationship = client.Relationship(relationship)
		d.Height = fromNullFloat(height)
		d.Weight = fromNullFloat(weight)
		return &d, nil
	case client.VariantCorporate:
		const query = `
			SELECT company_name, contact_mobile, contact_email, registered_address, annual_income
			FROM corporate_details WHERE client_id = $1
		`
		var (
			d      client.CorporateDetails
			income sql.NullFloat64
		)
		err := execer.QueryRowContext(ctx, query, uuid.UUID(clientID)).Scan(
			&d.CompanyName, &d.ContactMobile, &d.ContactEmail, &d.RegisteredAddress, &income,
		)
		if err != nil {
			return nil, fmt.Errorf("select corporate details: %w", err)
		}
		d.AnnualIncome = fromNullFloat(income)
		return &d, nil
	default:
		return nil, fmt.Errorf("client %s has unknown variant %q", clientID, variant)
	}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func fromNullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
