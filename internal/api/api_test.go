package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/omnipost/internal/credentials"
	mock_credentials "github.com/orgball2608/omnipost/internal/credentials/mocks"
	"github.com/orgball2608/omnipost/internal/domain"
	"github.com/orgball2608/omnipost/internal/orchestrator"
	mock_orchestrator "github.com/orgball2608/omnipost/internal/orchestrator/mocks"
	"github.com/orgball2608/omnipost/internal/publisher"
	"github.com/orgball2608/omnipost/internal/ratelimit"
	"github.com/orgball2608/omnipost/internal/repositories/draft"
	mock_draft "github.com/orgball2608/omnipost/internal/repositories/draft/mocks"
	mock_publication "github.com/orgball2608/omnipost/internal/repositories/publication/mocks"
	"github.com/orgball2608/omnipost/internal/repositories/template"
	mock_template "github.com/orgball2608/omnipost/internal/repositories/template/mocks"
	mock_scheduler "github.com/orgball2608/omnipost/internal/scheduler/mocks"
	apperrors "github.com/orgball2608/omnipost/pkg/errors"
	"github.com/orgball2608/omnipost/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	router       http.Handler
	session      *mock_orchestrator.MockSession
	store        *credentials.Store
	connector    *mock_credentials.MockConnector
	drafts       *mock_draft.MockRepository
	templates    *mock_template.MockRepository
	publications *mock_publication.MockRepository
	scheduler    *mock_scheduler.MockClient
}

func newFixture(t *testing.T, limiter ratelimit.Limiter) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		session:      mock_orchestrator.NewMockSession(ctrl),
		store:        credentials.NewStore(credentials.Opts{Logger: logger.NewNop()}),
		connector:    mock_credentials.NewMockConnector(ctrl),
		drafts:       mock_draft.NewMockRepository(ctrl),
		templates:    mock_template.NewMockRepository(ctrl),
		publications: mock_publication.NewMockRepository(ctrl),
		scheduler:    mock_scheduler.NewMockClient(ctrl),
	}
	if limiter == nil {
		limiter = ratelimit.NewInMemoryLimiter(100, time.Second, 100)
	}
	f.router = NewRouter(NewHandler(Opts{
		Logger:       logger.NewNop(),
		Session:      f.session,
		Credentials:  f.store,
		Connector:    f.connector,
		Drafts:       f.drafts,
		Templates:    f.templates,
		Publications: f.publications,
		Scheduler:    f.scheduler,
		Limiter:      limiter,
	}))
	return f
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  errorBody       `json:"error"`
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "192.0.2.1:4321"
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func testBatch() *domain.Batch {
	draft := domain.Draft{Text: "Launch day!"}
	return domain.NewBatch(draft, []domain.AdaptedPost{
		domain.NewAdaptedPost(draft, domain.PlatformTwitter, "We launched!", []string{"launch"}),
	})
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)
	rec, env := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", env.Status)
}

func TestGenerate(t *testing.T) {
	f := newFixture(t, nil)
	batch := testBatch()

	f.session.EXPECT().
		Generate(gomock.Any(), domain.Draft{Text: "Launch day!", MediaKind: domain.MediaNone},
			domain.NewPlatformSet(domain.PlatformTwitter)).
		Return(batch, nil)

	rec, env := f.do(t, http.MethodPost, "/api/variants", map[string]any{
		"draft":     map[string]any{"text": "Launch day!", "mediaKind": "none"},
		"platforms": []string{"twitter"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Batch
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, batch.ID, got.ID)
	require.Len(t, got.Posts, 1)
	assert.Equal(t, domain.StatusIdle, got.Posts[0].State.Status)
}

func TestGenerateErrorsMapToStatus(t *testing.T) {
	f := newFixture(t, nil)

	f.session.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperrors.WrapWithCode(errors.New("model timeout"), apperrors.CodeGeneration, "generation failed"))
	rec, env := f.do(t, http.MethodPost, "/api/variants", map[string]any{"draft": map[string]any{"text": "x"}, "platforms": []string{"twitter"}})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, apperrors.CodeGeneration, env.Error.Code)

	f.session.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperrors.Validation("select at least one platform"))
	rec, env = f.do(t, http.MethodPost, "/api/variants", map[string]any{"draft": map[string]any{"text": "x"}, "platforms": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperrors.CodeValidation, env.Error.Code)
}

func TestGenerateRejectsUnknownPlatform(t *testing.T) {
	f := newFixture(t, nil)
	rec, env := f.do(t, http.MethodPost, "/api/variants", map[string]any{
		"draft":     map[string]any{"text": "x"},
		"platforms": []string{"myspace"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeBadRequest, env.Error.Code)
}

func TestGenerateIsRateLimitedPerClient(t *testing.T) {
	f := newFixture(t, ratelimit.NewInMemoryLimiter(1, time.Hour, 1))
	f.session.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).Return(testBatch(), nil)

	body := map[string]any{"draft": map[string]any{"text": "x"}, "platforms": []string{"twitter"}}
	rec, _ := f.do(t, http.MethodPost, "/api/variants", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := f.do(t, http.MethodPost, "/api/variants", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, codeRateLimited, env.Error.Code)
}

func TestGetBatchWithoutSession(t *testing.T) {
	f := newFixture(t, nil)
	f.session.EXPECT().Batch().Return(nil, false)

	rec, env := f.do(t, http.MethodGet, "/api/batch", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperrors.CodeNotFound, env.Error.Code)
}

func TestPublishMapsErrors(t *testing.T) {
	f := newFixture(t, nil)

	f.session.EXPECT().Publish(gomock.Any(), domain.PlatformTwitter).Return(domain.Posted(), nil)
	rec, env := f.do(t, http.MethodPost, "/api/batch/publish/twitter", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp publishResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.State.IsPosted())

	f.session.EXPECT().Publish(gomock.Any(), domain.PlatformLinkedIn).
		Return(domain.Failed("LinkedIn is not connected."), &publisher.NotConnectedError{Platform: domain.PlatformLinkedIn})
	rec, env = f.do(t, http.MethodPost, "/api/batch/publish/linkedin", nil)
	assert.Equal(t, http.StatusFailedDependency, rec.Code)
	assert.Equal(t, apperrors.CodeNotConnected, env.Error.Code)

	f.session.EXPECT().Publish(gomock.Any(), domain.PlatformTikTok).
		Return(domain.Failed("TikTok API rejected the post"), &publisher.PublishError{Platform: domain.PlatformTikTok, Reason: "TikTok API rejected the post"})
	rec, env = f.do(t, http.MethodPost, "/api/batch/publish/tiktok", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "TikTok API rejected the post", env.Error.Message)

	f.session.EXPECT().Publish(gomock.Any(), domain.PlatformTwitter).
		Return(domain.Posted(), apperrors.WrapWithCode(orchestrator.ErrAlreadyPosted, apperrors.CodeConflict, "Twitter already posted"))
	rec, env = f.do(t, http.MethodPost, "/api/batch/publish/twitter", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apperrors.CodeConflict, env.Error.Code)

	rec, _ = f.do(t, http.MethodPost, "/api/batch/publish/myspace", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublishAllPassesConfirmation(t *testing.T) {
	f := newFixture(t, nil)

	f.session.EXPECT().PublishAll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, c orchestrator.Confirmer) (orchestrator.Report, error) {
			if !c.Confirm(ctx, "Publish?") {
				return orchestrator.Report{Declined: true}, nil
			}
			return orchestrator.Report{Posted: []domain.Platform{domain.PlatformTwitter}}, nil
		}).Times(2)

	_, env := f.do(t, http.MethodPost, "/api/batch/publish-all", publishAllRequest{Confirm: false})
	var report orchestrator.Report
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.True(t, report.Declined)

	_, env = f.do(t, http.MethodPost, "/api/batch/publish-all", publishAllRequest{Confirm: true})
	report = orchestrator.Report{}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, []domain.Platform{domain.PlatformTwitter}, report.Posted)
}

func TestScheduleUsesDraftTime(t *testing.T) {
	f := newFixture(t, nil)

	at := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	batch := testBatch()
	batch.Draft.ScheduledAt = &at

	f.session.EXPECT().Batch().Return(batch, true)
	f.scheduler.EXPECT().ScheduleBatch(batch.ID, at).Return(nil)

	rec, env := f.do(t, http.MethodPost, "/api/batch/schedule", scheduleRequest{})
	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp scheduleResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, batch.ID.String(), resp.BatchID)
}

func TestScheduleNeedsTime(t *testing.T) {
	f := newFixture(t, nil)
	f.session.EXPECT().Batch().Return(testBatch(), true)

	rec, env := f.do(t, http.MethodPost, "/api/batch/schedule", scheduleRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperrors.CodeValidation, env.Error.Code)
}

func TestCancelSchedule(t *testing.T) {
	f := newFixture(t, nil)
	batch := testBatch()

	f.session.EXPECT().Batch().Return(batch, true).Times(2)
	f.scheduler.EXPECT().CancelBatch(batch.ID).Return(true)
	f.scheduler.EXPECT().CancelBatch(batch.ID).Return(false)

	rec, _ := f.do(t, http.MethodDelete, "/api/batch/schedule", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodDelete, "/api/batch/schedule", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBatchHistory(t *testing.T) {
	f := newFixture(t, nil)
	batch := testBatch()

	f.session.EXPECT().Batch().Return(batch, true)
	f.publications.EXPECT().ListByBatch(gomock.Any(), batch.ID).Return([]*domain.PublishRecord{
		{BatchID: batch.ID, Platform: domain.PlatformTwitter, Status: domain.StatusPosted},
	}, nil)

	_, env := f.do(t, http.MethodGet, "/api/batch/history", nil)
	var records []domain.PublishRecord
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusPosted, records[0].Status)
	assert.Contains(t, string(env.Data), `"status":"posted"`)
}

func TestCredentialsLifecycle(t *testing.T) {
	f := newFixture(t, nil)

	rec, env := f.do(t, http.MethodPut, "/api/credentials/twitter", credentialRequest{
		Fields: map[string]string{domain.FieldBearerToken: "real-token"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var st credentials.Status
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.True(t, st.Connected)
	assert.Equal(t, "real", st.Kind)
	assert.NotContains(t, string(env.Data), "real-token")

	rec, _ = f.do(t, http.MethodPut, "/api/credentials/linkedin", credentialRequest{Fields: map[string]string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, env = f.do(t, http.MethodGet, "/api/credentials", nil)
	var statuses []credentials.Status
	require.NoError(t, json.Unmarshal(env.Data, &statuses))
	assert.Len(t, statuses, len(domain.Platforms()))

	rec, _ = f.do(t, http.MethodDelete, "/api/credentials/twitter", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodDelete, "/api/credentials/twitter", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConnectCredential(t *testing.T) {
	f := newFixture(t, nil)

	cred := domain.NewCredential(domain.PlatformFacebook, map[string]string{
		domain.FieldAccessToken: "mock_fb",
		domain.FieldPageID:      "100000000000001",
	}, true)
	f.connector.EXPECT().Connect(gomock.Any(), domain.PlatformFacebook).Return(cred, nil)

	rec, env := f.do(t, http.MethodPost, "/api/credentials/facebook/connect", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var st credentials.Status
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, "simulated", st.Kind)
	assert.True(t, f.store.Connected(domain.PlatformFacebook))

	f.connector.EXPECT().Connect(gomock.Any(), domain.PlatformTikTok).
		Return(domain.Credential{}, apperrors.Validation("authorization was cancelled"))
	rec, _ = f.do(t, http.MethodPost, "/api/credentials/tiktok/connect", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, f.store.Connected(domain.PlatformTikTok))
}

func TestDrafts(t *testing.T) {
	f := newFixture(t, nil)
	id := uuid.NewString()
	saved := &domain.SavedDraft{ID: id, Name: "Launch", Draft: domain.Draft{Text: "hi", MediaKind: domain.MediaNone}}

	f.drafts.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d domain.SavedDraft) (*domain.SavedDraft, error) {
			assert.Equal(t, "Launch", d.Name)
			assert.True(t, d.Platforms.Has(domain.PlatformInstagram))
			return saved, nil
		})
	rec, _ := f.do(t, http.MethodPost, "/api/drafts", map[string]any{
		"name":      "Launch",
		"draft":     map[string]any{"text": "hi"},
		"platforms": []string{"instagram"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	f.drafts.EXPECT().List(gomock.Any()).Return(nil, nil)
	_, env := f.do(t, http.MethodGet, "/api/drafts", nil)
	assert.JSONEq(t, `[]`, string(env.Data))

	f.drafts.EXPECT().Get(gomock.Any(), "missing").Return(nil, draft.ErrNotFound)
	rec, _ = f.do(t, http.MethodGet, "/api/drafts/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f.drafts.EXPECT().Delete(gomock.Any(), id).Return(nil)
	rec, _ = f.do(t, http.MethodDelete, "/api/drafts/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTemplates(t *testing.T) {
	f := newFixture(t, nil)

	f.templates.EXPECT().List(gomock.Any()).Return([]*domain.Template{{ID: "default-1", Name: "Product Launch 🚀"}}, nil)
	_, env := f.do(t, http.MethodGet, "/api/templates", nil)
	var list []domain.Template
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "default-1", list[0].ID)

	f.templates.EXPECT().Create(gomock.Any(), "Weekly", "body").Return(nil, template.ErrAlreadyExists)
	rec, env := f.do(t, http.MethodPost, "/api/templates", templateRequest{Name: "Weekly", Content: "body"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apperrors.CodeConflict, env.Error.Code)

	f.templates.EXPECT().Delete(gomock.Any(), "nope").Return(template.ErrNotFound)
	rec, _ = f.do(t, http.MethodDelete, "/api/templates/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInternalErrorsAreHidden(t *testing.T) {
	f := newFixture(t, nil)
	f.templates.EXPECT().List(gomock.Any()).Return(nil, errors.New("connection refused"))

	rec, env := f.do(t, http.MethodGet, "/api/templates", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", env.Error.Message)
}
