package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"anoa.com/pagebuilder/internal/entity"
	"anoa.com/pagebuilder/internal/modules/page/dto"
	"anoa.com/pagebuilder/pkg/apperror"
	"anoa.com/pagebuilder/pkg/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakePageRepo struct {
	pages    map[uuid.UUID]*entity.Page
	updated  map[string]any
	appended []entity.ContentBlock
	replaced []entity.ContentBlock
}

func newFakePageRepo() *fakePageRepo {
	return &fakePageRepo{pages: map[uuid.UUID]*entity.Page{}}
}

func (r *fakePageRepo) Create(ctx context.Context, page *entity.Page) error {
	if page.ID == uuid.Nil {
		page.ID = uuid.New()
	}
	r.pages[page.ID] = page
	return nil
}

func (r *fakePageRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Page, error) {
	page, ok := r.pages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return page, nil
}

func (r *fakePageRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Page, error) {
	var out []entity.Page
	for _, id := range ids {
		if page, ok := r.pages[id]; ok {
			out = append(out, *page)
		}
	}
	return out, nil
}

func (r *fakePageRepo) FindAll(ctx context.Context) ([]entity.Page, error) {
	out := make([]entity.Page, 0, len(r.pages))
	for _, page := range r.pages {
		out = append(out, *page)
	}
	return out, nil
}

func (r *fakePageRepo) FindAllMin(ctx context.Context) ([]dto.PageMin, error) {
	out := make([]dto.PageMin, 0, len(r.pages))
	for _, page := range r.pages {
		out = append(out, dto.PageMin{ID: page.ID, URL: page.URL, Title: page.Title, Description: page.Description})
	}
	return out, nil
}

func (r *fakePageRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Page, error) {
	var out []entity.Page
	for _, page := range r.pages {
		if page.UserID == userID {
			out = append(out, *page)
		}
	}
	return out, nil
}

func (r *fakePageRepo) FindByTemplateID(ctx context.Context, templateID uuid.UUID) ([]entity.Page, error) {
	var out []entity.Page
	for _, page := range r.pages {
		if page.TemplateID == templateID {
			out = append(out, *page)
		}
	}
	return out, nil
}

func (r *fakePageRepo) FindByTemplateIDMin(ctx context.Context, templateID uuid.UUID) ([]dto.PageMin, error) {
	var out []dto.PageMin
	for _, page := range r.pages {
		if page.TemplateID == templateID {
			out = append(out, dto.PageMin{ID: page.ID, URL: page.URL, Title: page.Title, Description: page.Description})
		}
	}
	return out, nil
}

func (r *fakePageRepo) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	r.updated = updates
	return nil
}

func (r *fakePageRepo) AppendContents(ctx context.Context, id uuid.UUID, blocks []entity.ContentBlock) error {
	r.appended = blocks
	if page, ok := r.pages[id]; ok {
		page.Contents = append(page.Contents, blocks...)
	}
	return nil
}

func (r *fakePageRepo) ReplaceContents(ctx context.Context, id uuid.UUID, blocks []entity.ContentBlock) error {
	r.replaced = blocks
	if page, ok := r.pages[id]; ok {
		page.Contents = blocks
	}
	return nil
}

func (r *fakePageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.pages, id)
	return nil
}

func (r *fakePageRepo) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	for id, page := range r.pages {
		if page.UserID == userID {
			delete(r.pages, id)
		}
	}
	return nil
}

func fileHeader(t *testing.T, filename, contentType string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("image bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

func uploadCount(t *testing.T, store *storage.Store) int {
	t.Helper()
	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	return len(entries)
}

func appCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func newPageFixture(t *testing.T) (*fakePageRepo, *storage.Store, PageService) {
	t.Helper()
	repo := newFakePageRepo()
	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)
	return repo, store, NewPageService(repo, store)
}

const (
	validTheme        = `{"type":"dark","header_color":"#111","subheader_color":"#222","bg_color":"#000","links_color":"#0af","toggle_mode":true,"default_mode":"dark"}`
	validFooterConfig = `{"copyright_text":"2026","copyright_color":"#fff","links_color":"#0af","bg_color":"#000","navigation":[{"section_title":"Company","links":[{"link_title":"About","link_url":"a.com/about"}]}]}`
)

func validPageForm() map[string][]string {
	return map[string][]string{
		"title":                 {"Landing"},
		"description":           {"A landing page"},
		"icon":                  {"a.com/icon.png"},
		"templateId":            {uuid.NewString()},
		"url":                   {"a.com/landing"},
		"font_family":           {"Inter"},
		"corner_styles":         {"rounded"},
		"footer_toggle":         {"true"},
		"pagination_bg_color":   {"#000"},
		"pagination_text_color": {"#fff"},
		"theme":                 {validTheme},
		"footer_config":         {validFooterConfig},
	}
}

func TestCreatePage(t *testing.T) {
	repo, store, svc := newPageFixture(t)
	userID := uuid.New()

	page, err := svc.Create(context.Background(), userID, validPageForm(),
		fileHeader(t, "custom.png", "image/png"), fileHeader(t, "footer.png", "image/png"), "api.test")
	require.NoError(t, err)

	assert.Equal(t, userID, page.UserID)
	assert.Contains(t, page.CustomLogo, "api.test/uploads/")
	assert.Contains(t, page.FooterLogo, "api.test/uploads/")
	assert.NotEqual(t, page.CustomLogo, page.FooterLogo)

	theme := page.Theme.Data()
	assert.Equal(t, "dark", theme.Type)
	assert.True(t, theme.ToggleMode)

	footer := page.FooterConfig.Data()
	require.Len(t, footer.Navigation, 1)
	assert.Equal(t, "Company", footer.Navigation[0].SectionTitle)

	assert.NotNil(t, page.Contents)
	assert.Empty(t, page.Contents)
	assert.Equal(t, 2, uploadCount(t, store))
	assert.Len(t, repo.pages, 1)
}

func TestCreatePageLoneLogoDiscarded(t *testing.T) {
	repo, store, svc := newPageFixture(t)

	_, err := svc.Create(context.Background(), uuid.New(), validPageForm(),
		fileHeader(t, "custom.png", "image/png"), nil, "api.test")

	assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	// the lone staged logo must not survive the rejection
	assert.Equal(t, 0, uploadCount(t, store))
	assert.Empty(t, repo.pages)
}

func TestCreatePageBothLogosMissing(t *testing.T) {
	_, store, svc := newPageFixture(t)

	_, err := svc.Create(context.Background(), uuid.New(), validPageForm(), nil, nil, "api.test")
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	assert.Equal(t, 0, uploadCount(t, store))
}

func TestCreatePageMalformedThemeDiscardsLogos(t *testing.T) {
	_, store, svc := newPageFixture(t)

	form := validPageForm()
	form["theme"] = []string{`{"type":"dark"`}

	_, err := svc.Create(context.Background(), uuid.New(), form,
		fileHeader(t, "custom.png", "image/png"), fileHeader(t, "footer.png", "image/png"), "api.test")

	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
	assert.Equal(t, 0, uploadCount(t, store))
}

func TestCreatePageThemeMissingKey(t *testing.T) {
	_, _, svc := newPageFixture(t)

	form := validPageForm()
	form["theme"] = []string{`{"type":"dark","header_color":"#111"}`}

	_, err := svc.Create(context.Background(), uuid.New(), form,
		fileHeader(t, "custom.png", "image/png"), fileHeader(t, "footer.png", "image/png"), "api.test")
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
}

func TestAddContents(t *testing.T) {
	repo, _, svc := newPageFixture(t)
	userID := uuid.New()
	page := &entity.Page{ID: uuid.New(), UserID: userID}
	repo.pages[page.ID] = page

	form := map[string][]string{"contents": {`[{"type":"text","content":{"body":"hello"}}]`}}
	require.NoError(t, svc.AddContents(context.Background(), userID, page.ID, form))

	require.Len(t, repo.appended, 1)
	assert.Equal(t, "text", repo.appended[0].Type)
}

func TestAddContentsNotOwner(t *testing.T) {
	repo, _, svc := newPageFixture(t)
	page := &entity.Page{ID: uuid.New(), UserID: uuid.New()}
	repo.pages[page.ID] = page

	form := map[string][]string{"contents": {`[{"type":"text","content":"x"}]`}}
	err := svc.AddContents(context.Background(), uuid.New(), page.ID, form)

	assert.Equal(t, http.StatusUnauthorized, appCode(t, err))
	assert.Nil(t, repo.appended)
}

func TestAddContentsEmptyArray(t *testing.T) {
	repo, _, svc := newPageFixture(t)
	userID := uuid.New()
	page := &entity.Page{ID: uuid.New(), UserID: userID}
	repo.pages[page.ID] = page

	form := map[string][]string{"contents": {`[]`}}
	err := svc.AddContents(context.Background(), userID, page.ID, form)
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
}

func TestReplaceContents(t *testing.T) {
	repo, _, svc := newPageFixture(t)
	userID := uuid.New()
	page := &entity.Page{ID: uuid.New(), UserID: userID}
	page.Contents = append(page.Contents, entity.ContentBlock{Type: "old", Content: "x"})
	repo.pages[page.ID] = page

	form := map[string][]string{"contents": {`[{"type":"hero","content":{"heading":"hi"}}]`}}
	require.NoError(t, svc.ReplaceContents(context.Background(), userID, page.ID, form))

	require.Len(t, repo.replaced, 1)
	assert.Equal(t, "hero", repo.replaced[0].Type)
}

func TestUpdatePageUnknownField(t *testing.T) {
	repo, store, svc := newPageFixture(t)
	userID := uuid.New()
	page := &entity.Page{ID: uuid.New(), UserID: userID}
	repo.pages[page.ID] = page

	form := map[string][]string{"contents": {`[]`}}
	err := svc.Update(context.Background(), userID, page.ID, form, fileHeader(t, "new.png", "image/png"), nil, "api.test")

	assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	assert.Equal(t, 0, uploadCount(t, store))
	assert.Nil(t, repo.updated)
}

func TestUpdatePageReplacesFooterLogoIndependently(t *testing.T) {
	repo, store, svc := newPageFixture(t)
	userID := uuid.New()

	oldFooter, err := store.Stage(fileHeader(t, "footer.png", "image/png"))
	require.NoError(t, err)
	customName, err := store.Stage(fileHeader(t, "custom.png", "image/png"))
	require.NoError(t, err)

	page := &entity.Page{
		ID:         uuid.New(),
		UserID:     userID,
		CustomLogo: "api.test/uploads/" + customName,
		FooterLogo: "api.test/uploads/" + oldFooter,
	}
	repo.pages[page.ID] = page

	err = svc.Update(context.Background(), userID, page.ID, map[string][]string{}, nil, fileHeader(t, "new-footer.png", "image/png"), "api.test")
	require.NoError(t, err)

	require.NotNil(t, repo.updated)
	_, hasCustom := repo.updated["custom_logo"]
	assert.False(t, hasCustom)
	assert.Contains(t, repo.updated["footer_logo"], "api.test/uploads/")

	// custom logo untouched, old footer gone, new footer kept
	assert.Equal(t, 2, uploadCount(t, store))
	_, err = os.Stat(store.Resolve(oldFooter))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(store.Resolve(customName))
	assert.NoError(t, err)
}

func TestDeletePageRemovesBothLogos(t *testing.T) {
	repo, store, svc := newPageFixture(t)
	userID := uuid.New()

	customName, err := store.Stage(fileHeader(t, "custom.png", "image/png"))
	require.NoError(t, err)
	footerName, err := store.Stage(fileHeader(t, "footer.png", "image/png"))
	require.NoError(t, err)

	page := &entity.Page{
		ID:         uuid.New(),
		UserID:     userID,
		CustomLogo: "api.test/uploads/" + customName,
		FooterLogo: "api.test/uploads/" + footerName,
	}
	repo.pages[page.ID] = page

	require.NoError(t, svc.Delete(context.Background(), userID, page.ID))
	assert.Empty(t, repo.pages)
	assert.Equal(t, 0, uploadCount(t, store))
}

func TestDeletePageNotOwner(t *testing.T) {
	repo, _, svc := newPageFixture(t)
	page := &entity.Page{ID: uuid.New(), UserID: uuid.New()}
	repo.pages[page.ID] = page

	err := svc.Delete(context.Background(), uuid.New(), page.ID)
	assert.Equal(t, http.StatusUnauthorized, appCode(t, err))
	assert.Len(t, repo.pages, 1)
}

func TestGetContents(t *testing.T) {
	repo, _, svc := newPageFixture(t)
	page := &entity.Page{ID: uuid.New(), UserID: uuid.New(), Title: "Landing"}
	page.Contents = append(page.Contents, entity.ContentBlock{Type: "text", Content: "hello"})
	repo.pages[page.ID] = page

	contents, err := svc.GetContents(context.Background(), page.ID)
	require.NoError(t, err)
	assert.Equal(t, page.ID, contents.ID)
	assert.Equal(t, "Landing", contents.Title)
	require.Len(t, contents.Contents, 1)
}

func TestGetContentsNotFound(t *testing.T) {
	_, _, svc := newPageFixture(t)

	_, err := svc.GetContents(context.Background(), uuid.New())
	assert.Equal(t, http.StatusNotFound, appCode(t, err))
}
