package store

import (
	"context"
	"errors"
	"testing"

	"github.com/vitrinecms/vitrine/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAdminCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	admin := &model.Admin{
		Username:     "editor.in",
		Email:        "editor@example.in",
		FullName:     "India Editor",
		PasswordHash: "aa:bb",
		IsActive:     true,
		Regions:      []string{"IN", "AE"},
	}
	if err := s.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if admin.ID == 0 {
		t.Fatal("expected ID to be populated")
	}

	got, err := s.GetAdminByUsername(ctx, "editor.in")
	if err != nil {
		t.Fatalf("GetAdminByUsername: %v", err)
	}
	if got.Email != "editor@example.in" {
		t.Errorf("Email: got %q", got.Email)
	}
	if len(got.Regions) != 2 || got.Regions[0] != "IN" || got.Regions[1] != "AE" {
		t.Errorf("Regions: got %v, want [IN AE]", got.Regions)
	}
	if got.LastLoginAt != nil {
		t.Error("LastLoginAt should be nil before any login")
	}

	if err := s.UpdateAdminLastLogin(ctx, admin.ID); err != nil {
		t.Fatalf("UpdateAdminLastLogin: %v", err)
	}
	got, _ = s.GetAdmin(ctx, admin.ID)
	if got.LastLoginAt == nil {
		t.Error("LastLoginAt should be set after UpdateAdminLastLogin")
	}

	got.FullName = "Renamed"
	got.Regions = []string{"IN"}
	got.PasswordHash = "" // keep existing hash
	if err := s.UpdateAdmin(ctx, got); err != nil {
		t.Fatalf("UpdateAdmin: %v", err)
	}
	reloaded, _ := s.GetAdmin(ctx, admin.ID)
	if reloaded.FullName != "Renamed" || len(reloaded.Regions) != 1 {
		t.Errorf("update not persisted: %+v", reloaded)
	}
	if reloaded.PasswordHash != "aa:bb" {
		t.Error("empty PasswordHash in update must keep the stored hash")
	}

	if err := s.DeleteAdmin(ctx, admin.ID); err != nil {
		t.Fatalf("DeleteAdmin: %v", err)
	}
	if _, err := s.GetAdmin(ctx, admin.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetAdminByUsernameNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetAdminByUsername(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHasAnyAdmin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	has, err := s.HasAnyAdmin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if has {
		t.Error("fresh store should have no admins")
	}

	s.CreateAdmin(ctx, &model.Admin{Username: "a", Email: "a@x", PasswordHash: "h", IsActive: true})
	has, _ = s.HasAnyAdmin(ctx)
	if !has {
		t.Error("expected HasAnyAdmin true after create")
	}
}

func TestSliderImagesRegionScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := &model.SliderImage{Region: "IN", ImageURL: "https://cdn/x1.jpg", SortOrder: 2, IsActive: true}
	ae := &model.SliderImage{Region: "AE", ImageURL: "https://cdn/x2.jpg", SortOrder: 1, IsActive: true}
	hidden := &model.SliderImage{Region: "IN", ImageURL: "https://cdn/x3.jpg", IsActive: false}

	for _, img := range []*model.SliderImage{in, ae, hidden} {
		if err := s.CreateSliderImage(ctx, img); err != nil {
			t.Fatalf("CreateSliderImage: %v", err)
		}
	}

	public, err := s.ListSliderImages(ctx, "IN", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(public) != 1 || public[0].ID != in.ID {
		t.Errorf("public IN list: got %d items, want only the active IN slide", len(public))
	}

	all, _ := s.ListSliderImages(ctx, "IN", false)
	if len(all) != 2 {
		t.Errorf("admin IN list: got %d items, want 2", len(all))
	}

	// Cross-region delete must not touch the record.
	if err := s.DeleteSliderImage(ctx, "AE", in.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-region delete: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteSliderImage(ctx, "IN", in.ID); err != nil {
		t.Errorf("same-region delete: %v", err)
	}
}

func TestPageContentUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pc := &model.PageContent{Region: "IN", Page: "home", Section: "intro", Title: "Hi", Body: "first"}
	if err := s.UpsertPageContent(ctx, pc); err != nil {
		t.Fatalf("insert: %v", err)
	}

	pc2 := &model.PageContent{Region: "IN", Page: "home", Section: "intro", Title: "Hi", Body: "second"}
	if err := s.UpsertPageContent(ctx, pc2); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := s.ListPageContent(ctx, "IN", "home")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected a single block after upsert, got %d", len(list))
	}
	if list[0].Body != "second" {
		t.Errorf("Body: got %q, want %q", list[0].Body, "second")
	}
}

func TestActivityLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := s.AppendActivity(ctx, &model.ActivityEntry{
			AdminID: 1, Username: "root", Action: "update", Entity: "slider", Region: "IN",
		})
		if err != nil {
			t.Fatalf("AppendActivity: %v", err)
		}
	}

	entries, err := s.ListActivity(ctx, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListActivity: got %d, want 2", len(entries))
	}
	if entries[0].ID < entries[1].ID {
		t.Error("entries should be newest-first")
	}

	total, _ := s.CountActivity(ctx)
	if total != 3 {
		t.Errorf("CountActivity: got %d, want 3", total)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Options{Driver: "oracle"}); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
