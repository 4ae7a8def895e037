package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vitrinecms/vitrine/internal/model"
	"github.com/vitrinecms/vitrine/internal/server/middleware"
	"github.com/vitrinecms/vitrine/internal/store"
)

// ContentHandler serves the region-scoped site content collections. Public
// routes return active records for the region resolved from the request;
// admin routes operate on the region authorized by the access gate.
type ContentHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(st *store.Store, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{store: st, logger: logger}
}

func (h *ContentHandler) list(w http.ResponseWriter, r *http.Request, name string, items interface{}, count int, err error) {
	if err != nil {
		h.logger.Error("list failed", "collection", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load "+name)
		return
	}
	writeJSON(w, http.StatusOK, model.ListResponse{
		Resource: items,
		Meta:     &model.ResponseMeta{Count: count},
	})
}

func (h *ContentHandler) written(w http.ResponseWriter, r *http.Request, action, entity string, id int64, v interface{}, err error) {
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, entity+" not found")
			return
		}
		h.logger.Error("write failed", "action", action, "entity", entity, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to "+action+" "+entity)
		return
	}

	middleware.GetAuditor(r.Context())(model.ActivityEntry{
		Action:   action,
		Entity:   entity,
		EntityID: id,
	})

	status := http.StatusOK
	if action == "create" {
		status = http.StatusCreated
	}
	if v == nil {
		writeJSON(w, status, map[string]bool{"success": true})
		return
	}
	writeJSON(w, status, v)
}

// --- slider images ---

func (h *ContentHandler) PublicSliderImages(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListSliderImages(r.Context(), middleware.GetRegion(r.Context()), true)
	h.list(w, r, "slider images", items, len(items), err)
}

func (h *ContentHandler) ListSliderImages(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListSliderImages(r.Context(), middleware.GetRegion(r.Context()), false)
	h.list(w, r, "slider images", items, len(items), err)
}

func (h *ContentHandler) CreateSliderImage(w http.ResponseWriter, r *http.Request) {
	var img model.SliderImage
	if err := readJSON(r, &img); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if img.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "image_url is required")
		return
	}
	img.Region = middleware.GetRegion(r.Context())
	err := h.store.CreateSliderImage(r.Context(), &img)
	h.written(w, r, "create", "slider_image", img.ID, img, err)
}

func (h *ContentHandler) UpdateSliderImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var img model.SliderImage
	if err := readJSON(r, &img); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	img.ID = id
	img.Region = middleware.GetRegion(r.Context())
	err := h.store.UpdateSliderImage(r.Context(), &img)
	h.written(w, r, "update", "slider_image", id, img, err)
}

func (h *ContentHandler) DeleteSliderImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	err := h.store.DeleteSliderImage(r.Context(), middleware.GetRegion(r.Context()), id)
	h.written(w, r, "delete", "slider_image", id, nil, err)
}

// --- gallery images ---

func (h *ContentHandler) PublicGalleryImages(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListGalleryImages(r.Context(), middleware.GetRegion(r.Context()), true)
	h.list(w, r, "gallery images", items, len(items), err)
}

func (h *ContentHandler) ListGalleryImages(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListGalleryImages(r.Context(), middleware.GetRegion(r.Context()), false)
	h.list(w, r, "gallery images", items, len(items), err)
}

func (h *ContentHandler) CreateGalleryImage(w http.ResponseWriter, r *http.Request) {
	var img model.GalleryImage
	if err := readJSON(r, &img); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if img.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "image_url is required")
		return
	}
	img.Region = middleware.GetRegion(r.Context())
	err := h.store.CreateGalleryImage(r.Context(), &img)
	h.written(w, r, "create", "gallery_image", img.ID, img, err)
}

func (h *ContentHandler) UpdateGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var img model.GalleryImage
	if err := readJSON(r, &img); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	img.ID = id
	img.Region = middleware.GetRegion(r.Context())
	err := h.store.UpdateGalleryImage(r.Context(), &img)
	h.written(w, r, "update", "gallery_image", id, img, err)
}

func (h *ContentHandler) DeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	err := h.store.DeleteGalleryImage(r.Context(), middleware.GetRegion(r.Context()), id)
	h.written(w, r, "delete", "gallery_image", id, nil, err)
}

// --- logos ---

func (h *ContentHandler) PublicLogos(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListLogos(r.Context(), middleware.GetRegion(r.Context()), true)
	h.list(w, r, "logos", items, len(items), err)
}

func (h *ContentHandler) ListLogos(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListLogos(r.Context(), middleware.GetRegion(r.Context()), false)
	h.list(w, r, "logos", items, len(items), err)
}

func (h *ContentHandler) CreateLogo(w http.ResponseWriter, r *http.Request) {
	var logo model.Logo
	if err := readJSON(r, &logo); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if logo.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "image_url is required")
		return
	}
	logo.Region = middleware.GetRegion(r.Context())
	err := h.store.CreateLogo(r.Context(), &logo)
	h.written(w, r, "create", "logo", logo.ID, logo, err)
}

func (h *ContentHandler) UpdateLogo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var logo model.Logo
	if err := readJSON(r, &logo); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	logo.ID = id
	logo.Region = middleware.GetRegion(r.Context())
	err := h.store.UpdateLogo(r.Context(), &logo)
	h.written(w, r, "update", "logo", id, logo, err)
}

func (h *ContentHandler) DeleteLogo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	err := h.store.DeleteLogo(r.Context(), middleware.GetRegion(r.Context()), id)
	h.written(w, r, "delete", "logo", id, nil, err)
}

// --- services ---

func (h *ContentHandler) PublicServices(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListServices(r.Context(), middleware.GetRegion(r.Context()), true)
	h.list(w, r, "services", items, len(items), err)
}

func (h *ContentHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListServices(r.Context(), middleware.GetRegion(r.Context()), false)
	h.list(w, r, "services", items, len(items), err)
}

func (h *ContentHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var svc model.Service
	if err := readJSON(r, &svc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if svc.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	svc.Region = middleware.GetRegion(r.Context())
	err := h.store.CreateService(r.Context(), &svc)
	h.written(w, r, "create", "service", svc.ID, svc, err)
}

func (h *ContentHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var svc model.Service
	if err := readJSON(r, &svc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	svc.ID = id
	svc.Region = middleware.GetRegion(r.Context())
	err := h.store.UpdateService(r.Context(), &svc)
	h.written(w, r, "update", "service", id, svc, err)
}

func (h *ContentHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	err := h.store.DeleteService(r.Context(), middleware.GetRegion(r.Context()), id)
	h.written(w, r, "delete", "service", id, nil, err)
}

// --- team members ---

func (h *ContentHandler) PublicTeamMembers(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListTeamMembers(r.Context(), middleware.GetRegion(r.Context()), true)
	h.list(w, r, "team members", items, len(items), err)
}

func (h *ContentHandler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListTeamMembers(r.Context(), middleware.GetRegion(r.Context()), false)
	h.list(w, r, "team members", items, len(items), err)
}

func (h *ContentHandler) CreateTeamMember(w http.ResponseWriter, r *http.Request) {
	var m model.TeamMember
	if err := readJSON(r, &m); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if m.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	m.Region = middleware.GetRegion(r.Context())
	err := h.store.CreateTeamMember(r.Context(), &m)
	h.written(w, r, "create", "team_member", m.ID, m, err)
}

func (h *ContentHandler) UpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var m model.TeamMember
	if err := readJSON(r, &m); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	m.ID = id
	m.Region = middleware.GetRegion(r.Context())
	err := h.store.UpdateTeamMember(r.Context(), &m)
	h.written(w, r, "update", "team_member", id, m, err)
}

func (h *ContentHandler) DeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	err := h.store.DeleteTeamMember(r.Context(), middleware.GetRegion(r.Context()), id)
	h.written(w, r, "delete", "team_member", id, nil, err)
}

// --- page content ---

func (h *ContentHandler) PublicPageContent(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListPageContent(r.Context(), middleware.GetRegion(r.Context()), queryString(r, "page"))
	h.list(w, r, "page content", items, len(items), err)
}

func (h *ContentHandler) ListPageContent(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListPageContent(r.Context(), middleware.GetRegion(r.Context()), queryString(r, "page"))
	h.list(w, r, "page content", items, len(items), err)
}

// UpsertPageContent creates or replaces the block identified by page+section
// within the effective region.
func (h *ContentHandler) UpsertPageContent(w http.ResponseWriter, r *http.Request) {
	var pc model.PageContent
	if err := readJSON(r, &pc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if pc.Page == "" || pc.Section == "" {
		writeError(w, http.StatusBadRequest, "page and section are required")
		return
	}
	pc.Region = middleware.GetRegion(r.Context())
	err := h.store.UpsertPageContent(r.Context(), &pc)
	if err == nil {
		middleware.GetAuditor(r.Context())(model.ActivityEntry{
			Action: "upsert", Entity: "page_content", EntityID: pc.ID,
			Detail: pc.Page + "/" + pc.Section,
		})
		writeJSON(w, http.StatusOK, pc)
		return
	}
	h.logger.Error("page content upsert failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Failed to save page content")
}

func (h *ContentHandler) DeletePageContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	err := h.store.DeletePageContent(r.Context(), middleware.GetRegion(r.Context()), id)
	h.written(w, r, "delete", "page_content", id, nil, err)
}

// --- section images ---

func (h *ContentHandler) PublicSectionImages(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListSectionImages(r.Context(), middleware.GetRegion(r.Context()), queryString(r, "page"))
	h.list(w, r, "section images", items, len(items), err)
}

func (h *ContentHandler) ListSectionImages(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListSectionImages(r.Context(), middleware.GetRegion(r.Context()), queryString(r, "page"))
	h.list(w, r, "section images", items, len(items), err)
}

func (h *ContentHandler) CreateSectionImage(w http.ResponseWriter, r *http.Request) {
	var img model.SectionImage
	if err := readJSON(r, &img); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if img.Page == "" || img.Section == "" || img.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "page, section, and image_url are required")
		return
	}
	img.Region = middleware.GetRegion(r.Context())
	err := h.store.CreateSectionImage(r.Context(), &img)
	h.written(w, r, "create", "section_image", img.ID, img, err)
}

func (h *ContentHandler) UpdateSectionImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var img model.SectionImage
	if err := readJSON(r, &img); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	img.ID = id
	img.Region = middleware.GetRegion(r.Context())
	err := h.store.UpdateSectionImage(r.Context(), &img)
	h.written(w, r, "update", "section_image", id, img, err)
}

func (h *ContentHandler) DeleteSectionImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	err := h.store.DeleteSectionImage(r.Context(), middleware.GetRegion(r.Context()), id)
	h.written(w, r, "delete", "section_image", id, nil, err)
}
