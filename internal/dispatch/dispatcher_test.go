package dispatch

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"
	"time"

	"estate-workers/internal/common/logger"
	"estate-workers/internal/models"
	"estate-workers/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test doubles
// ==========================

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) Recipients(ctx context.Context, target string) ([]models.Recipient, error) {
	args := m.Called(ctx, target)
	recipients, _ := args.Get(0).([]models.Recipient)
	return recipients, args.Error(1)
}

type mockRecords struct {
	mock.Mock
}

func (m *mockRecords) UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

type fakePush struct {
	fail  map[string]error
	panic map[string]bool
	sent  []string
	msgs  []*models.PushMessage
}

func (f *fakePush) Send(_ context.Context, token string, msg *models.PushMessage) error {
	if f.panic[token] {
		panic("gateway exploded")
	}
	f.sent = append(f.sent, token)
	f.msgs = append(f.msgs, msg)
	return f.fail[token]
}

type fakeChannel struct {
	err     error
	failFor map[string]error
	panics  bool
	to      []string
}

func (f *fakeChannel) deliver(to string) error {
	if f.panics {
		panic("smtp exploded")
	}
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	return f.failFor[to]
}

func (f *fakeChannel) SendEmail(_ context.Context, to string, _ models.ChannelMessage) error {
	return f.deliver(to)
}

func (f *fakeChannel) SendSMS(_ context.Context, to string, _ models.ChannelMessage) error {
	return f.deliver(to)
}

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestDispatcher(t *testing.T, dir RecipientDirectory, records RecordUpdater, push PushSender, email EmailSender, sms SMSSender) *Dispatcher {
	t.Helper()
	return New(Options{
		Directory: dir,
		Records:   records,
		Push:      push,
		Email:     email,
		SMS:       sms,
		Logger:    logger.NewTestLogger(t),
		Clock:     func() time.Time { return fixedNow },
	})
}

func newNotification(target string) *models.Notification {
	req := models.NotificationRequest{
		Title:  "New listing",
		Body:   "A penthouse just went live",
		Type:   "property",
		Target: target,
	}
	req.ApplyDefaults()
	return models.NewNotification("n-1", req, fixedNow)
}

func recipient(id, token string, topics ...string) models.Recipient {
	return models.Recipient{ID: id, Token: token, Topics: topics}
}

func intPtr(v int) *int { return &v }

// ==========================
// Audience selection
// ==========================

func TestDispatch_AllUsersIgnoresTopics(t *testing.T) {
	dir := new(mockDirectory)
	records := new(mockRecords)
	push := &fakePush{}

	dir.On("Recipients", mock.Anything, models.TargetAllUsers).Return([]models.Recipient{
		recipient("u1", "device:token-one"),
		recipient("u2", "device:token-two", models.TargetMarketNews),
		recipient("u3", ""),
	}, nil)
	records.On("UpdateStatus", mock.Anything, "n-1", mock.MatchedBy(func(u models.StatusUpdate) bool {
		return u.Status == models.StatusSent && *u.SentCount == 2 && *u.FailureCount == 0
	})).Return(nil).Once()

	res := newTestDispatcher(t, dir, records, push, nil, nil).Dispatch(context.Background(), newNotification(models.TargetAllUsers))

	assert.Equal(t, models.StatusSent, res.Status)
	assert.Equal(t, []string{"device:token-one", "device:token-two"}, push.sent)
	records.AssertExpectations(t)
}

func TestDispatch_SpecificTargetRequiresExactTopic(t *testing.T) {
	dir := new(mockDirectory)
	records := new(mockRecords)
	push := &fakePush{}

	dir.On("Recipients", mock.Anything, models.TargetPropertyUpdates).Return([]models.Recipient{
		recipient("u1", "device:token-one", models.TargetPropertyUpdates),
		recipient("u2", "device:token-two", "property_update"),
		recipient("u3", "device:token-three"),
		recipient("u4", "device:token-four", models.TargetMarketNews, models.TargetPropertyUpdates),
	}, nil)
	records.On("UpdateStatus", mock.Anything, "n-1", mock.Anything).Return(nil).Once()

	res := newTestDispatcher(t, dir, records, push, nil, nil).Dispatch(context.Background(), newNotification(models.TargetPropertyUpdates))

	assert.Equal(t, []string{"device:token-one", "device:token-four"}, push.sent)
	assert.Equal(t, 2, res.Eligible)
	assert.Equal(t, 2, res.SuccessCount)
}

func TestDispatch_UnknownTargetFailsWithoutQuery(t *testing.T) {
	dir := new(mockDirectory)
	records := new(mockRecords)
	push := &fakePush{}

	records.On("UpdateStatus", mock.Anything, "n-1", models.StatusUpdate{
		Status:    models.StatusFailed,
		Error:     strPtr(NoEligibleRecipientsError),
		SentCount: intPtr(0),
	}).Return(nil).Once()

	res := newTestDispatcher(t, dir, records, push, nil, nil).Dispatch(context.Background(), newNotification("vip_clients"))

	assert.Equal(t, models.StatusFailed, res.Status)
	assert.Equal(t, NoEligibleRecipientsError, res.Error)
	assert.Equal(t, 0, res.SuccessCount)
	assert.Empty(t, push.sent)
	dir.AssertNotCalled(t, "Recipients", mock.Anything, mock.Anything)
	records.AssertExpectations(t)
}

func TestDispatch_NoEligibleTokensMarksFailed(t *testing.T) {
	dir := new(mockDirectory)
	records := new(mockRecords)
	emails := &fakeChannel{}

	dir.On("Recipients", mock.Anything, models.TargetAllUsers).Return([]models.Recipient{
		{ID: "u1", Token: "short", Email: "a@example.com"},
		{ID: "u2", Token: "no-colon-token-here", Email: "b@example.com"},
	}, nil)
	records.On("UpdateStatus", mock.Anything, "n-1", mock.MatchedBy(func(u models.StatusUpdate) bool {
		return u.Status == models.StatusFailed && *u.Error == NoEligibleRecipientsError && *u.SentCount == 0
	})).Return(nil).Once()

	n := newNotification(models.TargetAllUsers)
	n.SendEmail = true
	res := newTestDispatcher(t, dir, records, &fakePush{}, emails, nil).Dispatch(context.Background(), n)

	assert.Equal(t, models.StatusFailed, res.Status)
	assert.Equal(t, 2, res.Rejected)
	assert.Empty(t, emails.to, "no side effects after an empty eligible set")
	records.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

// ==========================
// Token gate
// ==========================

func TestEligibleToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"empty", "", false},
		{"exactly ten with colon", "abcd:12345", false},
		{"eleven with colon", "abcde:12345", true},
		{"eleven without colon or prefix", "abcdefghijk", false},
		{"test prefix", "test_device", true},
		{"test prefix too short", "test_abcde", false},
		{"real fcm shape", "dQw4w9WgXcQ:APA91bHun4MxP5egoKMwt2KZFBaFUH", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EligibleToken(tt.token))
		})
	}
}

func TestInScope(t *testing.T) {
	r := recipient("u1", "device:token-one", models.TargetPriceAlerts)

	assert.True(t, InScope(r, models.TargetAllUsers))
	assert.True(t, InScope(r, models.TargetPriceAlerts))
	assert.False(t, InScope(r, models.TargetNewProperties))
	assert.False(t, InScope(r, "price"))
	assert.False(t, InScope(recipient("u2", "", models.TargetPriceAlerts), models.TargetPriceAlerts))
}

// ==========================
// Failure isolation
// ==========================

func TestDispatch_SecondSendFailsOthersSucceed(t *testing.T) {
	dir := new(mockDirectory)
	records := new(mockRecords)
	push := &fakePush{fail: map[string]error{"device:token-two": stderrors.New("registration-token-not-registered")}}

	dir.On("Recipients", mock.Anything, models.TargetAllUsers).Return([]models.Recipient{
		recipient("u1", "device:token-one"),
		recipient("u2", "device:token-two"),
		recipient("u3", "device:token-three"),
	}, nil)

	sentAt := fixedNow
	records.On("UpdateStatus", mock.Anything, "n-1", models.StatusUpdate{
		Status:         models.StatusSent,
		SentCount:      intPtr(2),
		FailureCount:   intPtr(1),
		EmailSentCount: intPtr(0),
		SMSSentCount:   intPtr(0),
		SentAt:         &sentAt,
	}).Return(nil).Once()

	res := newTestDispatcher(t, dir, records, push, nil, nil).Dispatch(context.Background(), newNotification(models.TargetAllUsers))

	assert.Equal(t, models.StatusSent, res.Status)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 1, res.FailureCount)
	require.Len(t, res.Outcomes, 3)
	require.Len(t, res.Failed(), 1)
	assert.Equal(t, "u2", res.Failed()[0].RecipientID)
	assert.EqualError(t, res.Failed()[0].Err, "registration-token-not-registered")
	assert.Len(t, push.sent, 3, "every recipient attempted")
	records.AssertExpectations(t)
}

func TestDispatch_AllSendsFailStillSent(t *testing.T) {
	dir := new(mockDirectory)
	records := new(mockRecords)
	push := &fakePush{fail: map[string]error{
		"device:token-one": stderrors.New("unavailable"),
		"device:token-two": stderrors.New("unavailable"),
	}}

	dir.On("Recipients", mock.Anything, models.TargetAllUsers).Return([]models.Recipient{
		recipient("u1", "device:token-one"),
		recipient("u2", "device:token-two"),
	}, nil)
	records.On("UpdateStatus", mock.Anything, "n-1", mock.MatchedBy(func(u models.StatusUpdate) bool {
		return u.Status == models.StatusSent && *u.SentCount == 0 && *u.FailureCount == 2
	})).Return(nil).Once()

	res := newTestDispatcher(t, dir, records, push, nil, nil).Dispatch(context.Background(), newNotification(models.TargetAllUsers))

	assert.Equal(t, models.StatusSent, res.Status)
	records.AssertExpectations(t)
}

func TestDispatch_PanickingSendIsIsolated(t *testing.T) {
	dir := new(mockDirectory)
	records := new(mockRecords)
	push := &fakePush{panic: map[string]bool{"device:token-one": true}}

	dir.On("Recipients", mock.Anything, models.TargetAllUsers).Return([]models.Recipient{
		recipient("u1", "device:token-one"),
		recipient("u2", "device:token-two"),
	}, nil)
	records.On("UpdateStatus", mock.Anything, "n-1", mock.Anything).Return(nil).Once()

	res := newTestDispatcher(t, dir, records, push, nil, nil).Dispatch(context.Background(), newNotification(models.TargetAllUsers))

	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 1, res.FailureCount)
	assert.Equal(t, models.StatusSent, res.Status)
}

// ==========================
// Email and SMS phases
// ==========================

func TestDispatch_EmailAndSMSCounts(t *testing.T) {
	dir := new(mockDirectory)
	records := new(mockRecords)
	emails := &fakeChannel{failFor: map[string]error{"bad@example.com": stderrors.New("bounced")}}
	sms := &fakeChannel{}

	dir.On("Recipients", mock.Anything, models.TargetAllUsers).Return([]models.Recipient{
		{ID: "u1", Token: "device:token-one", Email: "a@example.com", Phone: "+15550001"},
		{ID: "u2", Token: "device:token-two", Email: "bad@example.com"},
		{ID: "u3", Token: "device:token-three"},
		{ID: "u4", Token: "short", Email: "skipped@example.com", Phone: "+15550004"},
	}, nil)
	records.On("UpdateStatus", mock.Anything, "n-1", mock.MatchedBy(func(u models.StatusUpdate) bool {
		return *u.EmailSentCount == 1 && *u.SMSSentCount == 1 && *u.SentCount == 3
	})).Return(nil).Once()

	n := newNotification(models.TargetAllUsers)
	n.SendEmail = true
	n.SendSMS = true
	res := newTestDispatcher(t, dir, records, &fakePush{}, emails, sms).Dispatch(context.Background(), n)

	assert.Equal(t, 1, res.EmailSentCount)
	assert.Equal(t, 1, res.SMSSentCount)
	assert.Equal(t, []string{"a@example.com", "bad@example.com"}, emails.to)
	assert.Equal(t, []string{"+15550001"}, sms.to, "only eligible recipients are contacted")
	records.AssertExpectations(t)
}

func TestDispatch_ChannelFailuresZeroTheChannel(t *testing.T) {
	dir := new(mockDirectory)
	records := new(mockRecords)

	dir.On("Recipients", mock.Anything, models.TargetAllUsers).Return([]models.Recipient{
		{ID: "u1", Token: "device:token-one", Email: "a@example.com", Phone: "+15550001"},
		{ID: "u2", Token: "device:token-two", Email: "b@example.com", Phone: "+15550002"},
	}, nil)
	records.On("UpdateStatus", mock.Anything, "n-1", mock.MatchedBy(func(u models.StatusUpdate) bool {
		return u.Status == models.StatusSent && *u.EmailSentCount == 0 && *u.SMSSentCount == 0 && *u.SentCount == 2
	})).Return(nil).Once()

	n := newNotification(models.TargetAllUsers)
	n.SendEmail = true
	n.SendSMS = true
	res := newTestDispatcher(t, dir, records, &fakePush{}, &fakeChannel{panics: true}, Disabled{}).Dispatch(context.Background(), n)

	assert.Equal(t, models.StatusSent, res.Status)
	assert.Zero(t, res.EmailSentCount)
	assert.Zero(t, res.SMSSentCount)
	records.AssertExpectations(t)
}

func TestDispatch_ChannelFlagsOff(t *testing.T) {
	dir := new(mockDirectory)
	records := new(mockRecords)
	emails := &fakeChannel{}

	dir.On("Recipients", mock.Anything, models.TargetAllUsers).Return([]models.Recipient{
		{ID: "u1", Token: "device:token-one", Email: "a@example.com"},
	}, nil)
	records.On("UpdateStatus", mock.Anything, "n-1", mock.Anything).Return(nil).Once()

	newTestDispatcher(t, dir, records, &fakePush{}, emails, nil).Dispatch(context.Background(), newNotification(models.TargetAllUsers))

	assert.Empty(t, emails.to)
}

// ==========================
// Unhandled errors
// ==========================

func TestDispatch_DirectoryErrorMarksFailed(t *testing.T) {
	dir := new(mockDirectory)
	records := new(mockRecords)
	push := &fakePush{}

	dir.On("Recipients", mock.Anything, models.TargetMarketNews).Return(nil, stderrors.New("connection refused"))
	records.On("UpdateStatus", mock.Anything, "n-1", mock.MatchedBy(func(u models.StatusUpdate) bool {
		return u.Status == models.StatusFailed &&
			*u.Error == "resolve recipients: connection refused" &&
			u.SentCount == nil && u.FailureCount == nil && u.SentAt == nil
	})).Return(nil).Once()

	res := newTestDispatcher(t, dir, records, push, nil, nil).Dispatch(context.Background(), newNotification(models.TargetMarketNews))

	assert.Equal(t, models.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "connection refused")
	assert.Empty(t, push.sent)
	records.AssertExpectations(t)
}

func TestDispatch_FinalUpdateErrorFallsBackToFailed(t *testing.T) {
	dir := new(mockDirectory)
	records := new(mockRecords)

	dir.On("Recipients", mock.Anything, models.TargetAllUsers).Return([]models.Recipient{
		recipient("u1", "device:token-one"),
	}, nil)
	records.On("UpdateStatus", mock.Anything, "n-1", mock.MatchedBy(func(u models.StatusUpdate) bool {
		return u.Status == models.StatusSent
	})).Return(stderrors.New("write conflict")).Once()
	records.On("UpdateStatus", mock.Anything, "n-1", mock.MatchedBy(func(u models.StatusUpdate) bool {
		return u.Status == models.StatusFailed && *u.Error == "update notification: write conflict"
	})).Return(nil).Once()

	res := newTestDispatcher(t, dir, records, &fakePush{}, nil, nil).Dispatch(context.Background(), newNotification(models.TargetAllUsers))

	assert.Equal(t, models.StatusFailed, res.Status)
	assert.Equal(t, 1, res.SuccessCount, "counts reflect what happened before the failure")
	records.AssertExpectations(t)
}

func TestDispatch_RedispatchSendsAgain(t *testing.T) {
	dir := new(mockDirectory)
	records := new(mockRecords)
	push := &fakePush{}

	dir.On("Recipients", mock.Anything, models.TargetAllUsers).Return([]models.Recipient{
		recipient("u1", "device:token-one"),
	}, nil)
	records.On("UpdateStatus", mock.Anything, "n-1", mock.Anything).Return(nil).Twice()

	d := newTestDispatcher(t, dir, records, push, nil, nil)
	n := newNotification(models.TargetAllUsers)
	d.Dispatch(context.Background(), n)
	d.Dispatch(context.Background(), n)

	assert.Len(t, push.sent, 2)
	records.AssertNumberOfCalls(t, "UpdateStatus", 2)
}

// deadlinePush refuses to send once its context is done, like the rate-limited FCM sender.
type deadlinePush struct {
	sent int
}

func (p *deadlinePush) Send(ctx context.Context, _ string, _ *models.PushMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.sent++
	return nil
}

func TestDispatch_ExpiredContextStillCompletes(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dir := new(mockDirectory)
	dir.On("Recipients", mock.Anything, models.TargetAllUsers).Return([]models.Recipient{
		recipient("u1", "device:token-one"),
		recipient("u2", "device:token-two"),
	}, nil)

	sqlMock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET status = $1, sent_count = $2, failure_count = $3")).
		WithArgs("sent", 2, 0, 0, 0, sqlmock.AnyArg(), "n-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	push := &deadlinePush{}
	d := newTestDispatcher(t, dir, store.NewNotificationStore(db), push, nil, nil)
	res := d.Dispatch(ctx, newNotification(models.TargetAllUsers))

	assert.Equal(t, models.StatusSent, res.Status)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 0, res.FailureCount)
	assert.Equal(t, 2, push.sent)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func strPtr(s string) *string { return &s }
