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
	"anoa.com/pagebuilder/pkg/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func newProfileFixture(t *testing.T) (*fakeUserRepo, *storage.Store, ProfileService) {
	t.Helper()
	repo := newFakeUserRepo()
	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)
	return repo, store, NewProfileService(repo, store)
}

func seedUser(repo *fakeUserRepo) *entity.User {
	email := "ada@example.com"
	user := &entity.User{ID: uuid.New(), Email: &email}
	repo.users[user.ID] = user
	return user
}

func TestProfileUpdateFields(t *testing.T) {
	repo, _, svc := newProfileFixture(t)
	user := seedUser(repo)

	form := map[string][]string{"full_name": {"Ada Lovelace"}, "phone": {"+62812345"}}
	updated, err := svc.Update(context.Background(), user.ID, form, nil, "api.test")
	require.NoError(t, err)

	require.NotNil(t, updated.FullName)
	assert.Equal(t, "Ada Lovelace", *updated.FullName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "+62812345", *updated.Phone)
}

func TestProfileUpdateUnknownField(t *testing.T) {
	repo, store, svc := newProfileFixture(t)
	user := seedUser(repo)

	form := map[string][]string{"is_admin": {"true"}}
	_, err := svc.Update(context.Background(), user.ID, form, fileHeader(t, "pic.png", "image/png"), "api.test")

	assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	assert.Equal(t, 0, uploadCount(t, store))
}

func TestProfileUpdateReplacesPicture(t *testing.T) {
	repo, store, svc := newProfileFixture(t)
	user := seedUser(repo)

	oldName, err := store.Stage(fileHeader(t, "old.png", "image/png"))
	require.NoError(t, err)
	oldURL := "api.test/uploads/" + oldName
	user.Picture = &oldURL

	updated, err := svc.Update(context.Background(), user.ID, map[string][]string{}, fileHeader(t, "new.png", "image/png"), "api.test")
	require.NoError(t, err)

	require.NotNil(t, updated.Picture)
	assert.NotEqual(t, oldURL, *updated.Picture)
	assert.Contains(t, *updated.Picture, "api.test/uploads/")

	assert.Equal(t, 1, uploadCount(t, store))
	_, err = os.Stat(store.Resolve(oldName))
	assert.True(t, os.IsNotExist(err))
}

func TestProfileUpdateRejectsNonImagePicture(t *testing.T) {
	repo, store, svc := newProfileFixture(t)
	user := seedUser(repo)

	_, err := svc.Update(context.Background(), user.ID, map[string][]string{}, fileHeader(t, "cv.pdf", "application/pdf"), "api.test")
	assert.Equal(t, http.StatusUnsupportedMediaType, appCode(t, err))
	assert.Equal(t, 0, uploadCount(t, store))
}

func TestProfileDeleteRemovesPictureAndRecord(t *testing.T) {
	repo, store, svc := newProfileFixture(t)
	user := seedUser(repo)

	name, err := store.Stage(fileHeader(t, "pic.png", "image/png"))
	require.NoError(t, err)
	url := "api.test/uploads/" + name
	user.Picture = &url

	require.NoError(t, svc.Delete(context.Background(), user.ID))
	assert.Empty(t, repo.users)
	assert.Equal(t, 0, uploadCount(t, store))
}

func TestProfileGetNotFound(t *testing.T) {
	_, _, svc := newProfileFixture(t)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.Equal(t, http.StatusNotFound, appCode(t, err))
}
