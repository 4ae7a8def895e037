package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/vitrinecms/vitrine/internal/model"
)

// adminRow maps 1:1 to the admins table. Assigned regions are stored as a
// comma-separated list of codes; the model exposes them as a slice.
type adminRow struct {
	ID                int64      `db:"id"`
	Username          string     `db:"username"`
	Email             string     `db:"email"`
	FullName          string     `db:"full_name"`
	PasswordHash      string     `db:"password_hash"`
	IsSuperAdmin      bool       `db:"is_super_admin"`
	IsActive          bool       `db:"is_active"`
	Regions           string     `db:"regions"`
	ProfilePictureURL string     `db:"profile_picture_url"`
	IsTest            bool       `db:"is_test"`
	LastLoginAt       *time.Time `db:"last_login_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func encodeRegions(codes []string) string {
	return strings.Join(codes, ",")
}

func decodeRegions(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func (r adminRow) toModel() model.Admin {
	return model.Admin{
		ID:                r.ID,
		Username:          r.Username,
		Email:             r.Email,
		FullName:          r.FullName,
		PasswordHash:      r.PasswordHash,
		IsSuperAdmin:      r.IsSuperAdmin,
		IsActive:          r.IsActive,
		Regions:           decodeRegions(r.Regions),
		ProfilePictureURL: r.ProfilePictureURL,
		IsTest:            r.IsTest,
		LastLoginAt:       r.LastLoginAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// CreateAdmin inserts a new admin account. The ID and timestamps on admin are
// populated after a successful insert.
func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	const q = `INSERT INTO admins
		(username, email, full_name, password_hash, is_super_admin, is_active,
		 regions, profile_picture_url, is_test, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := s.insertID(ctx, q,
		admin.Username, admin.Email, admin.FullName, admin.PasswordHash,
		admin.IsSuperAdmin, admin.IsActive, encodeRegions(admin.Regions),
		admin.ProfilePictureURL, admin.IsTest, admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		return err
	}
	admin.ID = id
	return nil
}

// GetAdminByUsername looks up an admin account for login.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var row adminRow
	err := s.db.GetContext(ctx, &row,
		s.db.Rebind(`SELECT * FROM admins WHERE username = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	admin := row.toModel()
	return &admin, nil
}

// GetAdmin looks up an admin account by id.
func (s *Store) GetAdmin(ctx context.Context, id int64) (*model.Admin, error) {
	var row adminRow
	err := s.db.GetContext(ctx, &row,
		s.db.Rebind(`SELECT * FROM admins WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	admin := row.toModel()
	return &admin, nil
}

// ListAdmins returns all admin accounts ordered by username.
func (s *Store) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	var rows []adminRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM admins ORDER BY username`); err != nil {
		return nil, err
	}

	admins := make([]model.Admin, len(rows))
	for i, r := range rows {
		admins[i] = r.toModel()
	}
	return admins, nil
}

// UpdateAdmin persists changes to an existing account. The password hash is
// only replaced when admin.PasswordHash is non-empty.
func (s *Store) UpdateAdmin(ctx context.Context, admin *model.Admin) error {
	admin.UpdatedAt = time.Now().UTC()

	q := `UPDATE admins SET email = ?, full_name = ?, is_super_admin = ?,
		is_active = ?, regions = ?, profile_picture_url = ?, updated_at = ?
		WHERE id = ?`
	args := []interface{}{
		admin.Email, admin.FullName, admin.IsSuperAdmin, admin.IsActive,
		encodeRegions(admin.Regions), admin.ProfilePictureURL, admin.UpdatedAt, admin.ID,
	}
	if admin.PasswordHash != "" {
		q = `UPDATE admins SET email = ?, full_name = ?, password_hash = ?,
			is_super_admin = ?, is_active = ?, regions = ?, profile_picture_url = ?,
			updated_at = ? WHERE id = ?`
		args = []interface{}{
			admin.Email, admin.FullName, admin.PasswordHash, admin.IsSuperAdmin,
			admin.IsActive, encodeRegions(admin.Regions), admin.ProfilePictureURL,
			admin.UpdatedAt, admin.ID,
		}
	}

	result, err := s.db.ExecContext(ctx, s.db.Rebind(q), args...)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAdmin removes an account by id.
func (s *Store) DeleteAdmin(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM admins WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAdminLastLogin stamps a successful authentication.
func (s *Store) UpdateAdminLastLogin(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		s.db.Rebind(`UPDATE admins SET last_login_at = ? WHERE id = ?`),
		time.Now().UTC(), id)
	return err
}

// HasAnyAdmin reports whether at least one admin account exists, for
// first-run detection.
func (s *Store) HasAnyAdmin(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM admins`); err != nil {
		return false, err
	}
	return count > 0, nil
}
