package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"curamind-be/internal/dto"
	"curamind-be/internal/model"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/pkg/logger"
	"curamind-be/internal/repository"
	clinicEvents "curamind-be/pkg/clinic/events"
	"curamind-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memNotificationRepo struct {
	mu            sync.Mutex
	types         map[string]model.NotificationType
	roles         map[string][]uuid.UUID
	notifications []model.Notification
	prefs         map[uuid.UUID]model.NotificationPreference
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{
		types: map[string]model.NotificationType{},
		roles: map[string][]uuid.UUID{},
		prefs: map[uuid.UUID]model.NotificationPreference{},
	}
}

func (r *memNotificationRepo) CreateNotification(ctx context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *memNotificationRepo) GetNotificationsByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, n := range r.notifications {
		if n.AccountID == accountID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memNotificationRepo) GetUnreadCount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, x := range r.notifications {
		if x.AccountID == accountID && !x.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *memNotificationRepo) MarkAsRead(ctx context.Context, accountID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.notifications {
		if x.ID == id && x.AccountID == accountID {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

func (r *memNotificationRepo) MarkAllAsRead(ctx context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.notifications {
		if x.AccountID == accountID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *memNotificationRepo) GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r *memNotificationRepo) UpsertNotificationType(ctx context.Context, t *model.NotificationType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.Code] = *t
	return nil
}

func (r *memNotificationRepo) GetAccountIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roles[role], nil
}

func (r *memNotificationRepo) GetPreference(ctx context.Context, accountID uuid.UUID) (*model.NotificationPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prefs[accountID]
	if !ok {
		return &model.NotificationPreference{AccountID: accountID, MutedTypes: []string{}}, nil
	}
	return &p, nil
}

func (r *memNotificationRepo) SavePreference(ctx context.Context, p *model.NotificationPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[p.AccountID] = *p
	return nil
}

type recordingDelivery struct {
	mu   sync.Mutex
	sent map[uuid.UUID][]model.Notification
}

func (d *recordingDelivery) Send(accountID uuid.UUID, n model.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sent == nil {
		d.sent = map[uuid.UUID][]model.Notification{}
	}
	d.sent[accountID] = append(d.sent[accountID], n)
}

func newNotificationFixture() (*NotificationService, *memNotificationRepo, *recordingDelivery) {
	repo := newMemNotificationRepo()
	repo.types[clinicEvents.ConsultationRequested] = model.NotificationType{
		Code:        clinicEvents.ConsultationRequested,
		DisplayName: "New Consultation Request",
		Template:    "{patient_name} requested a consultation",
		TargetType:  TargetSelf,
		IsActive:    true,
	}
	repo.types[clinicEvents.DoctorRegistered] = model.NotificationType{
		Code:        clinicEvents.DoctorRegistered,
		DisplayName: "Doctor Awaiting Verification",
		Template:    "{full_name} ({email}) registered as a doctor",
		TargetType:  TargetRole,
		TargetRole:  "admin",
		IsActive:    true,
	}
	repo.types[clinicEvents.DoctorVerified] = model.NotificationType{
		Code:       clinicEvents.DoctorVerified,
		TargetType: TargetSelf,
		IsActive:   false,
	}

	delivery := &recordingDelivery{}
	svc := NewNotificationService(repo, nil, delivery, logger.NewNopLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, delivery
}

func busEvent(code string, data map[string]interface{}) events.Event {
	return events.BaseEvent{Type: code, Data: data, OccurredAt: fixedNow}
}

func TestHandleEvent_SelfTarget(t *testing.T) {
	svc, repo, delivery := newNotificationFixture()
	doctor, patient, consultation := uuid.New(), uuid.New(), uuid.New()

	err := svc.HandleEvent(context.Background(), busEvent("events."+clinicEvents.ConsultationRequested, map[string]interface{}{
		"user_id":      doctor.String(),
		"actor_id":     patient.String(),
		"patient_name": "Asha",
		"entity_type":  "consultation",
		"entity_id":    consultation.String(),
	}))
	require.NoError(t, err)

	require.Len(t, repo.notifications, 1)
	n := repo.notifications[0]
	assert.Equal(t, doctor, n.AccountID)
	assert.Equal(t, "Asha requested a consultation", n.Message)
	require.NotNil(t, n.ActorID)
	assert.Equal(t, patient, *n.ActorID)
	assert.Contains(t, string(n.Metadata), "/consultations/"+consultation.String())
	assert.Len(t, delivery.sent[doctor], 1)
}

func TestHandleEvent_RoleTargetHonoursMutes(t *testing.T) {
	svc, repo, delivery := newNotificationFixture()
	admin1, admin2 := uuid.New(), uuid.New()
	repo.roles["admin"] = []uuid.UUID{admin1, admin2}

	_, err := svc.SavePreference(context.Background(), admin2, &dto.NotificationPreferenceRequest{MutedTypes: []string{"doctor_registered"}})
	require.NoError(t, err)

	err = svc.HandleEvent(context.Background(), busEvent(clinicEvents.DoctorRegistered, map[string]interface{}{
		"email":     "dr@example.com",
		"full_name": "Dr Sharma",
	}))
	require.NoError(t, err)

	require.Len(t, repo.notifications, 1)
	assert.Equal(t, admin1, repo.notifications[0].AccountID)
	assert.Equal(t, "Dr Sharma (dr@example.com) registered as a doctor", repo.notifications[0].Message)
	assert.Empty(t, delivery.sent[admin2])
}

func TestHandleEvent_SkipsUnknownAndInactiveTypes(t *testing.T) {
	svc, repo, _ := newNotificationFixture()
	ctx := context.Background()

	assert.NoError(t, svc.HandleEvent(ctx, busEvent("SOMETHING_ELSE", nil)))
	assert.NoError(t, svc.HandleEvent(ctx, busEvent(clinicEvents.DoctorVerified, map[string]interface{}{"user_id": uuid.NewString()})))
	assert.NoError(t, svc.HandleEvent(ctx, busEvent(clinicEvents.ConsultationRequested, map[string]interface{}{"user_id": "not-a-uuid"})))
	assert.Empty(t, repo.notifications)
}

func TestInboxOperations(t *testing.T) {
	svc, _, _ := newNotificationFixture()
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	for i := 0; i < 2; i++ {
		require.NoError(t, svc.HandleEvent(ctx, busEvent(clinicEvents.ConsultationRequested, map[string]interface{}{
			"user_id":      owner.String(),
			"patient_name": "Asha",
		})))
	}

	items, total, err := svc.GetNotifications(ctx, owner, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	err = svc.MarkAsRead(ctx, stranger, items[0].ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	require.NoError(t, svc.MarkAsRead(ctx, owner, items[0].ID))
	unread, err := svc.GetUnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	require.NoError(t, svc.MarkAllAsRead(ctx, owner))
	unread, err = svc.GetUnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestSavePreference(t *testing.T) {
	svc, _, _ := newNotificationFixture()
	ctx := context.Background()
	account := uuid.New()

	pref, err := svc.GetPreference(ctx, account)
	require.NoError(t, err)
	assert.Empty(t, pref.MutedTypes)

	saved, err := svc.SavePreference(ctx, account, &dto.NotificationPreferenceRequest{
		MutedTypes: []string{"consultation_message", "CONSULTATION_MESSAGE", " TRIAGE_COMPLETED "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"CONSULTATION_MESSAGE", "TRIAGE_COMPLETED"}, saved.MutedTypes)

	_, err = svc.SavePreference(ctx, account, &dto.NotificationPreferenceRequest{MutedTypes: []string{"NOPE"}})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
}
