package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/vitrinecms/vitrine/internal/model"
)

// The content collections are thin record mappers: every entity is scoped by
// region code and follows the same list/get/create/update/delete shape.

func (s *Store) checkAffected(result sql.Result) error {
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Slider images
// ---------------------------------------------------------------------------

// ListSliderImages returns slides for a region ordered for display. When
// activeOnly is set, hidden slides are excluded (public reads).
func (s *Store) ListSliderImages(ctx context.Context, region string, activeOnly bool) ([]model.SliderImage, error) {
	q := `SELECT * FROM slider_images WHERE region = ?`
	if activeOnly {
		q += ` AND is_active = ?`
	}
	q += ` ORDER BY sort_order, id`

	var out []model.SliderImage
	var err error
	if activeOnly {
		err = s.db.SelectContext(ctx, &out, s.db.Rebind(q), region, true)
	} else {
		err = s.db.SelectContext(ctx, &out, s.db.Rebind(q), region)
	}
	return out, err
}

func (s *Store) CreateSliderImage(ctx context.Context, img *model.SliderImage) error {
	now := time.Now().UTC()
	img.CreatedAt, img.UpdatedAt = now, now

	const q = `INSERT INTO slider_images
		(region, image_url, caption, link_url, sort_order, is_active, created_at, updated_at)
		VALUES (:region, :image_url, :caption, :link_url, :sort_order, :is_active, :created_at, :updated_at)`
	id, err := s.insertNamedID(ctx, q, img)
	if err != nil {
		return err
	}
	img.ID = id
	return nil
}

func (s *Store) UpdateSliderImage(ctx context.Context, img *model.SliderImage) error {
	img.UpdatedAt = time.Now().UTC()

	const q = `UPDATE slider_images SET image_url = :image_url, caption = :caption,
		link_url = :link_url, sort_order = :sort_order, is_active = :is_active,
		updated_at = :updated_at WHERE id = :id AND region = :region`
	result, err := s.db.NamedExecContext(ctx, q, img)
	if err != nil {
		return err
	}
	return s.checkAffected(result)
}

func (s *Store) DeleteSliderImage(ctx context.Context, region string, id int64) error {
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind(`DELETE FROM slider_images WHERE id = ? AND region = ?`), id, region)
	if err != nil {
		return err
	}
	return s.checkAffected(result)
}

// ---------------------------------------------------------------------------
// Gallery images
// ---------------------------------------------------------------------------

func (s *Store) ListGalleryImages(ctx context.Context, region string, activeOnly bool) ([]model.GalleryImage, error) {
	q := `SELECT * FROM gallery_images WHERE region = ?`
	if activeOnly {
		q += ` AND is_active = ?`
	}
	q += ` ORDER BY sort_order, id`

	var out []model.GalleryImage
	var err error
	if activeOnly {
		err = s.db.SelectContext(ctx, &out, s.db.Rebind(q), region, true)
	} else {
		err = s.db.SelectContext(ctx, &out, s.db.Rebind(q), region)
	}
	return out, err
}

func (s *Store) CreateGalleryImage(ctx context.Context, img *model.GalleryImage) error {
	now := time.Now().UTC()
	img.CreatedAt, img.UpdatedAt = now, now

	const q = `INSERT INTO gallery_images
		(region, image_url, thumb_url, title, category, sort_order, is_active, created_at, updated_at)
		VALUES (:region, :image_url, :thumb_url, :title, :category, :sort_order, :is_active, :created_at, :updated_at)`
	id, err := s.insertNamedID(ctx, q, img)
	if err != nil {
		return err
	}
	img.ID = id
	return nil
}

func (s *Store) UpdateGalleryImage(ctx context.Context, img *model.GalleryImage) error {
	img.UpdatedAt = time.Now().UTC()

	const q = `UPDATE gallery_images SET image_url = :image_url, thumb_url = :thumb_url,
		title = :title, category = :category, sort_order = :sort_order,
		is_active = :is_active, updated_at = :updated_at
		WHERE id = :id AND region = :region`
	result, err := s.db.NamedExecContext(ctx, q, img)
	if err != nil {
		return err
	}
	return s.checkAffected(result)
}

func (s *Store) DeleteGalleryImage(ctx context.Context, region string, id int64) error {
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind(`DELETE FROM gallery_images WHERE id = ? AND region = ?`), id, region)
	if err != nil {
		return err
	}
	return s.checkAffected(result)
}

// ---------------------------------------------------------------------------
// Logos
// ---------------------------------------------------------------------------

func (s *Store) ListLogos(ctx context.Context, region string, activeOnly bool) ([]model.Logo, error) {
	q := `SELECT * FROM logos WHERE region = ?`
	if activeOnly {
		q += ` AND is_active = ?`
	}
	q += ` ORDER BY sort_order, id`

	var out []model.Logo
	var err error
	if activeOnly {
		err = s.db.SelectContext(ctx, &out, s.db.Rebind(q), region, true)
	} else {
		err = s.db.SelectContext(ctx, &out, s.db.Rebind(q), region)
	}
	return out, err
}

func (s *Store) CreateLogo(ctx context.Context, logo *model.Logo) error {
	now := time.Now().UTC()
	logo.CreatedAt, logo.UpdatedAt = now, now

	const q = `INSERT INTO logos (region, name, image_url, sort_order, is_active, created_at, updated_at)
		VALUES (:region, :name, :image_url, :sort_order, :is_active, :created_at, :updated_at)`
	id, err := s.insertNamedID(ctx, q, logo)
	if err != nil {
		return err
	}
	logo.ID = id
	return nil
}

func (s *Store) UpdateLogo(ctx context.Context, logo *model.Logo) error {
	logo.UpdatedAt = time.Now().UTC()

	const q = `UPDATE logos SET name = :name, image_url = :image_url,
		sort_order = :sort_order, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id AND region = :region`
	result, err := s.db.NamedExecContext(ctx, q, logo)
	if err != nil {
		return err
	}
	return s.checkAffected(result)
}

func (s *Store) DeleteLogo(ctx context.Context, region string, id int64) error {
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind(`DELETE FROM logos WHERE id = ? AND region = ?`), id, region)
	if err != nil {
		return err
	}
	return s.checkAffected(result)
}

// ---------------------------------------------------------------------------
// Services
// ---------------------------------------------------------------------------

func (s *Store) ListServices(ctx context.Context, region string, activeOnly bool) ([]model.Service, error) {
	q := `SELECT * FROM services WHERE region = ?`
	if activeOnly {
		q += ` AND is_active = ?`
	}
	q += ` ORDER BY sort_order, id`

	var out []model.Service
	var err error
	if activeOnly {
		err = s.db.SelectContext(ctx, &out, s.db.Rebind(q), region, true)
	} else {
		err = s.db.SelectContext(ctx, &out, s.db.Rebind(q), region)
	}
	return out, err
}

func (s *Store) CreateService(ctx context.Context, svc *model.Service) error {
	now := time.Now().UTC()
	svc.CreatedAt, svc.UpdatedAt = now, now

	const q = `INSERT INTO services (region, title, description, icon_url, sort_order, is_active, created_at, updated_at)
		VALUES (:region, :title, :description, :icon_url, :sort_order, :is_active, :created_at, :updated_at)`
	id, err := s.insertNamedID(ctx, q, svc)
	if err != nil {
		return err
	}
	svc.ID = id
	return nil
}

func (s *Store) UpdateService(ctx context.Context, svc *model.Service) error {
	svc.UpdatedAt = time.Now().UTC()

	const q = `UPDATE services SET title = :title, description = :description,
		icon_url = :icon_url, sort_order = :sort_order, is_active = :is_active,
		updated_at = :updated_at WHERE id = :id AND region = :region`
	result, err := s.db.NamedExecContext(ctx, q, svc)
	if err != nil {
		return err
	}
	return s.checkAffected(result)
}

func (s *Store) DeleteService(ctx context.Context, region string, id int64) error {
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind(`DELETE FROM services WHERE id = ? AND region = ?`), id, region)
	if err != nil {
		return err
	}
	return s.checkAffected(result)
}

// ---------------------------------------------------------------------------
// Team members
// ---------------------------------------------------------------------------

func (s *Store) ListTeamMembers(ctx context.Context, region string, activeOnly bool) ([]model.TeamMember, error) {
	q := `SELECT * FROM team_members WHERE region = ?`
	if activeOnly {
		q += ` AND is_active = ?`
	}
	q += ` ORDER BY sort_order, id`

	var out []model.TeamMember
	var err error
	if activeOnly {
		err = s.db.SelectContext(ctx, &out, s.db.Rebind(q), region, true)
	} else {
		err = s.db.SelectContext(ctx, &out, s.db.Rebind(q), region)
	}
	return out, err
}

func (s *Store) CreateTeamMember(ctx context.Context, m *model.TeamMember) error {
	now := time.Now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now

	const q = `INSERT INTO team_members (region, name, role, photo_url, bio, sort_order, is_active, created_at, updated_at)
		VALUES (:region, :name, :role, :photo_url, :bio, :sort_order, :is_active, :created_at, :updated_at)`
	id, err := s.insertNamedID(ctx, q, m)
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

func (s *Store) UpdateTeamMember(ctx context.Context, m *model.TeamMember) error {
	m.UpdatedAt = time.Now().UTC()

	const q = `UPDATE team_members SET name = :name, role = :role, photo_url = :photo_url,
		bio = :bio, sort_order = :sort_order, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id AND region = :region`
	result, err := s.db.NamedExecContext(ctx, q, m)
	if err != nil {
		return err
	}
	return s.checkAffected(result)
}

func (s *Store) DeleteTeamMember(ctx context.Context, region string, id int64) error {
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind(`DELETE FROM team_members WHERE id = ? AND region = ?`), id, region)
	if err != nil {
		return err
	}
	return s.checkAffected(result)
}

// ---------------------------------------------------------------------------
// Page content
// ---------------------------------------------------------------------------

func (s *Store) ListPageContent(ctx context.Context, region, page string) ([]model.PageContent, error) {
	q := `SELECT * FROM page_content WHERE region = ?`
	args := []interface{}{region}
	if page != "" {
		q += ` AND page = ?`
		args = append(args, page)
	}
	q += ` ORDER BY page, section`

	var out []model.PageContent
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(q), args...)
	return out, err
}

// UpsertPageContent creates or replaces the block for (region, page, section).
func (s *Store) UpsertPageContent(ctx context.Context, pc *model.PageContent) error {
	now := time.Now().UTC()
	pc.UpdatedAt = now

	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE page_content SET title = ?, body = ?, updated_at = ?
		 WHERE region = ? AND page = ? AND section = ?`),
		pc.Title, pc.Body, pc.UpdatedAt, pc.Region, pc.Page, pc.Section)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	pc.CreatedAt = now
	const ins = `INSERT INTO page_content (region, page, section, title, body, created_at, updated_at)
		VALUES (:region, :page, :section, :title, :body, :created_at, :updated_at)`
	id, err := s.insertNamedID(ctx, ins, pc)
	if err != nil {
		return err
	}
	pc.ID = id
	return nil
}

func (s *Store) DeletePageContent(ctx context.Context, region string, id int64) error {
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind(`DELETE FROM page_content WHERE id = ? AND region = ?`), id, region)
	if err != nil {
		return err
	}
	return s.checkAffected(result)
}

// ---------------------------------------------------------------------------
// Section images
// ---------------------------------------------------------------------------

func (s *Store) ListSectionImages(ctx context.Context, region, page string) ([]model.SectionImage, error) {
	q := `SELECT * FROM section_images WHERE region = ?`
	args := []interface{}{region}
	if page != "" {
		q += ` AND page = ?`
		args = append(args, page)
	}
	q += ` ORDER BY page, section, id`

	var out []model.SectionImage
	err := s.db.SelectContext(ctx, &out, s.db.Rebind(q), args...)
	return out, err
}

func (s *Store) CreateSectionImage(ctx context.Context, img *model.SectionImage) error {
	now := time.Now().UTC()
	img.CreatedAt, img.UpdatedAt = now, now

	const q = `INSERT INTO section_images (region, page, section, image_url, alt_text, created_at, updated_at)
		VALUES (:region, :page, :section, :image_url, :alt_text, :created_at, :updated_at)`
	id, err := s.insertNamedID(ctx, q, img)
	if err != nil {
		return err
	}
	img.ID = id
	return nil
}

func (s *Store) UpdateSectionImage(ctx context.Context, img *model.SectionImage) error {
	img.UpdatedAt = time.Now().UTC()

	const q = `UPDATE section_images SET page = :page, section = :section,
		image_url = :image_url, alt_text = :alt_text, updated_at = :updated_at
		WHERE id = :id AND region = :region`
	result, err := s.db.NamedExecContext(ctx, q, img)
	if err != nil {
		return err
	}
	return s.checkAffected(result)
}

func (s *Store) DeleteSectionImage(ctx context.Context, region string, id int64) error {
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind(`DELETE FROM section_images WHERE id = ? AND region = ?`), id, region)
	if err != nil {
		return err
	}
	return s.checkAffected(result)
}
