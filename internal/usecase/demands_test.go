package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demand-tracker/internal/domain"
)

type fakeDemandStore struct {
	demands     map[int64]*domain.Demand
	nextID      int64
	saved       *domain.Demand
	attached    []domain.Attachment
	reorderedTo []int64
	reorderErr  error
	attachments map[int64]*domain.Attachment
}

func newFakeDemandStore() *fakeDemandStore {
	return &fakeDemandStore{
		demands:     make(map[int64]*domain.Demand),
		attachments: make(map[int64]*domain.Attachment),
		nextID:      1,
	}
}

func (f *fakeDemandStore) SaveDemand(ctx context.Context, d *domain.Demand, attach func(int64) []domain.Attachment) (int64, bool, error) {
	created := d.ID == 0
	id := d.ID
	if created {
		id = f.nextID
		f.nextID++
	} else if _, ok := f.demands[id]; !ok {
		return 0, false, domain.ErrNotFound
	}
	f.saved = d
	f.demands[id] = d
	if attach != nil {
		f.attached = attach(id)
	}
	return id, created, nil
}

func (f *fakeDemandStore) GetDemand(ctx context.Context, id int64) (*domain.Demand, error) {
	d, ok := f.demands[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (f *fakeDemandStore) ListDemands(ctx context.Context, view string) ([]domain.Demand, error) {
	return nil, nil
}

func (f *fakeDemandStore) ListPending(ctx context.Context) ([]domain.Demand, error) {
	return nil, nil
}

func (f *fakeDemandStore) ReorderPriorities(ctx context.Context, orderedIDs []int64) error {
	if f.reorderErr != nil {
		return f.reorderErr
	}
	f.reorderedTo = orderedIDs
	return nil
}

func (f *fakeDemandStore) GetAttachment(ctx context.Context, id int64) (*domain.Attachment, error) {
	a, ok := f.attachments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeDemandStore) ListAttachments(ctx context.Context, demandID int64) ([]domain.Attachment, error) {
	return nil, nil
}

type fakeBlobStore struct {
	uploads   []string
	uploadErr error
	presigned string
}

func (f *fakeBlobStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, key)
	return "https://bucket.s3.amazonaws.com/" + key, nil
}

func (f *fakeBlobStore) PresignDownload(ctx context.Context, locator string, expires time.Duration) (string, error) {
	return f.presigned, nil
}

func newDemandUseCase(store *fakeDemandStore, blobs *fakeBlobStore) *DemandUseCase {
	return &DemandUseCase{
		Log:         testLogger(),
		Store:       store,
		WorkLogs:    &fakeWorkLogStore{},
		Blobs:       blobs,
		AllowedExts: map[string]bool{"pdf": true, "png": true},
	}
}

func TestSave_RequiresTitleAndStatus(t *testing.T) {
	store := newFakeDemandStore()
	uc := newDemandUseCase(store, &fakeBlobStore{})

	for _, in := range []SaveDemandInput{
		{Title: "", Status: domain.StatusQueued},
		{Title: "Algo", Status: "  "},
	} {
		_, err := uc.Save(context.Background(), in, nil)
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		assert.Nil(t, store.saved, "no write may happen on invalid input")
	}
}

func TestSave_CreateAndUpdate(t *testing.T) {
	store := newFakeDemandStore()
	uc := newDemandUseCase(store, &fakeBlobStore{})

	res, err := uc.Save(context.Background(), SaveDemandInput{Title: "Nova", Status: domain.StatusQueued}, nil)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, int64(1), res.ID)

	res, err = uc.Save(context.Background(), SaveDemandInput{ID: res.ID, Title: "Editada", Status: domain.StatusInProgress}, nil)
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "Editada", store.saved.Title)
}

func TestSave_UpdateMissingDemand(t *testing.T) {
	uc := newDemandUseCase(newFakeDemandStore(), &fakeBlobStore{})

	_, err := uc.Save(context.Background(), SaveDemandInput{ID: 42, Title: "X", Status: domain.StatusQueued}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSave_UploadsAcceptedFiles(t *testing.T) {
	store := newFakeDemandStore()
	blobs := &fakeBlobStore{}
	uc := newDemandUseCase(store, blobs)

	files := []FileUpload{
		{Filename: "nota fiscal.pdf", Body: strings.NewReader("pdf")},
		{Filename: "malware.exe", Body: strings.NewReader("nope")},
	}
	res, err := uc.Save(context.Background(), SaveDemandInput{Title: "Com anexo", Status: domain.StatusQueued}, files)
	require.NoError(t, err)

	require.Len(t, store.attached, 1, "disallowed extension must be skipped")
	assert.Equal(t, "nota_fiscal.pdf", store.attached[0].Filename)
	assert.Equal(t, res.ID, store.attached[0].DemandID)
	require.Len(t, blobs.uploads, 1)
	assert.Equal(t, "demands/1/nota_fiscal.pdf", blobs.uploads[0])
}

func TestSave_UploadFailureDoesNotAbort(t *testing.T) {
	store := newFakeDemandStore()
	blobs := &fakeBlobStore{uploadErr: errors.New("credentials missing")}
	uc := newDemandUseCase(store, blobs)

	files := []FileUpload{{Filename: "doc.pdf", Body: strings.NewReader("pdf")}}
	res, err := uc.Save(context.Background(), SaveDemandInput{Title: "Salva mesmo assim", Status: domain.StatusQueued}, files)
	require.NoError(t, err, "a storage failure must not abort the demand save")
	assert.NotZero(t, res.ID)
	assert.Empty(t, store.attached)
}

func TestUpdatePriorities_Validation(t *testing.T) {
	store := newFakeDemandStore()
	uc := newDemandUseCase(store, &fakeBlobStore{})

	err := uc.UpdatePriorities(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	err = uc.UpdatePriorities(context.Background(), []int64{3, 1, 3})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Nil(t, store.reorderedTo, "no write may happen on duplicate ids")
}

func TestUpdatePriorities_PassesOrderThrough(t *testing.T) {
	store := newFakeDemandStore()
	uc := newDemandUseCase(store, &fakeBlobStore{})

	require.NoError(t, uc.UpdatePriorities(context.Background(), []int64{3, 1, 2}))
	assert.Equal(t, []int64{3, 1, 2}, store.reorderedTo)
}

func TestAttachmentDownloadURL(t *testing.T) {
	store := newFakeDemandStore()
	store.attachments[7] = &domain.Attachment{ID: 7, DemandID: 1, Filename: "doc.pdf", Filepath: "https://bucket.s3.amazonaws.com/demands/1/doc.pdf"}
	blobs := &fakeBlobStore{presigned: "https://signed.example/doc.pdf"}
	uc := newDemandUseCase(store, blobs)

	url, err := uc.AttachmentDownloadURL(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/doc.pdf", url)

	_, err = uc.AttachmentDownloadURL(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"relatório final.pdf":  "relat_rio_final.pdf",
		"../../etc/passwd":     "passwd",
		`C:\Users\a\nota.xlsx`: "nota.xlsx",
		"simples.png":          "simples.png",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}
