package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/shramba/internal/auth"
	"github.com/erazemk/shramba/internal/model"
)

const accountColumns = `id, username, business_name, sms_enabled, phone_number`

// CreateAccount registers a new account. Only a bcrypt hash of password is
// stored. Returns ErrDuplicate if the username is taken and
// ErrPasswordTooLong if password exceeds 72 bytes.
func (s *Store) CreateAccount(ctx context.Context, username, password string) (*model.Account, error) {
	hash, err := auth.HashPassword(password, s.cost)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, fmt.Errorf("creating account: %w", ErrPasswordTooLong)
	}
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	var id int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (username, password_hash, business_name, sms_enabled)
			 VALUES (?, ?, ?, 0)`,
			username, hash, model.DefaultBusinessName,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q: %w", username, ErrDuplicate)
		}
		if err != nil {
			return fmt.Errorf("creating account: %w", err)
		}

		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting account id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account created", "account_id", id)
	return s.GetAccount(ctx, id)
}

// VerifyCredentials reports whether password is correct for username.
// It returns false for unknown users, corrupt hashes and storage errors alike.
func (s *Store) VerifyCredentials(ctx context.Context, username, password string) bool {
	var hash sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM accounts WHERE username = ?`, username,
	).Scan(&hash)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Error("verifying credentials", "error", err)
		}
		return false
	}
	return auth.CheckPassword(hash.String, password)
}

// AccountExists reports whether username is registered.
func (s *Store) AccountExists(ctx context.Context, username string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE username = ?`, username,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking account: %w", err)
	}
	return count > 0, nil
}

// GetAccount returns an account by ID.
func (s *Store) GetAccount(ctx context.Context, id int64) (*model.Account, error) {
	a, err := scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// GetAccountByUsername returns an account by username.
func (s *Store) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	a, err := scanAccount(s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting account by username: %w", err)
	}
	return a, nil
}

// UpdateAccountSettings replaces an account's business name, SMS preference
// and phone number. An empty phone number is stored as NULL.
func (s *Store) UpdateAccountSettings(ctx context.Context, id int64, businessName string, smsEnabled bool, phoneNumber string) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE accounts SET business_name = ?, sms_enabled = ?, phone_number = ? WHERE id = ?`,
			businessName, smsEnabled, nullString(phoneNumber), id,
		)
		if err != nil {
			return fmt.Errorf("updating account settings: %w", err)
		}
		n, err = result.RowsAffected()
		return err
	})
	return n, err
}

// SetSMSEnabled changes only the SMS preference.
func (s *Store) SetSMSEnabled(ctx context.Context, id int64, enabled bool) (int64, error) {
	var n int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE accounts SET sms_enabled = ? WHERE id = ?`, enabled, id,
		)
		if err != nil {
			return fmt.Errorf("updating sms preference: %w", err)
		}
		n, err = result.RowsAffected()
		return err
	})
	return n, err
}

func scanAccount(row scanner) (*model.Account, error) {
	a := &model.Account{}
	var businessName, phone sql.NullString
	if err := row.Scan(&a.ID, &a.Username, &businessName, &a.SMSEnabled, &phone); err != nil {
		return nil, err
	}
	a.BusinessName = businessName.String
	a.PhoneNumber = phone.String
	return a, nil
}
