package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"curamind-be/internal/entity"
	"curamind-be/internal/pkg/mailer"
	"curamind-be/internal/repository/contract"
	"curamind-be/internal/repository/specification"
	"curamind-be/internal/repository/unitofwork"
	"curamind-be/pkg/triage"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the database. Transactions are
// serialized by tx and undone by restoring a snapshot on rollback.
type memStore struct {
	tx sync.Mutex
	mu sync.Mutex

	accounts      map[uuid.UUID]entity.Account
	otps          map[uuid.UUID]entity.PasswordResetOtp
	patients      map[uuid.UUID]entity.Patient
	doctors       map[uuid.UUID]entity.Doctor
	sessions      map[uuid.UUID]entity.TriageSession
	consultations map[uuid.UUID]entity.Consultation
	messages      []entity.ConsultationMessage

	commitErr error
	commits   int
}

func newMemStore() *memStore {
	return &memStore{
		accounts:      map[uuid.UUID]entity.Account{},
		otps:          map[uuid.UUID]entity.PasswordResetOtp{},
		patients:      map[uuid.UUID]entity.Patient{},
		doctors:       map[uuid.UUID]entity.Doctor{},
		sessions:      map[uuid.UUID]entity.TriageSession{},
		consultations: map[uuid.UUID]entity.Consultation{},
	}
}

type memSnapshot struct {
	accounts      map[uuid.UUID]entity.Account
	otps          map[uuid.UUID]entity.PasswordResetOtp
	patients      map[uuid.UUID]entity.Patient
	doctors       map[uuid.UUID]entity.Doctor
	sessions      map[uuid.UUID]entity.TriageSession
	consultations map[uuid.UUID]entity.Consultation
	messages      []entity.ConsultationMessage
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		accounts:      copyMap(s.accounts),
		otps:          copyMap(s.otps),
		patients:      copyMap(s.patients),
		doctors:       copyMap(s.doctors),
		sessions:      copyMap(s.sessions),
		consultations: copyMap(s.consultations),
		messages:      append([]entity.ConsultationMessage{}, s.messages...),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = snap.accounts
	s.otps = snap.otps
	s.patients = snap.patients
	s.doctors = snap.doctors
	s.sessions = snap.sessions
	s.consultations = snap.consultations
	s.messages = snap.messages
}

func (s *memStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUoW{store: s}
}

type memUoW struct {
	store *memStore
	inTx  bool
	snap  memSnapshot
}

func (u *memUoW) Begin(ctx context.Context) error {
	u.store.tx.Lock()
	u.snap = u.store.snapshot()
	u.inTx = true
	return nil
}

func (u *memUoW) Commit() error {
	if !u.inTx {
		return nil
	}
	u.store.mu.Lock()
	err := u.store.commitErr
	u.store.mu.Unlock()
	if err != nil {
		return err
	}
	u.store.mu.Lock()
	u.store.commits++
	u.store.mu.Unlock()
	u.inTx = false
	u.store.tx.Unlock()
	return nil
}

func (u *memUoW) Rollback() error {
	if !u.inTx {
		return nil
	}
	u.store.restore(u.snap)
	u.inTx = false
	u.store.tx.Unlock()
	return nil
}

func (u *memUoW) AccountRepository() contract.AccountRepository {
	return memAccounts{u.store}
}

func (u *memUoW) PatientRepository() contract.PatientRepository {
	return memPatients{u.store}
}

func (u *memUoW) DoctorRepository() contract.DoctorRepository {
	return memDoctors{u.store}
}

func (u *memUoW) TriageSessionRepository() contract.TriageSessionRepository {
	return memSessions{u.store}
}

func (u *memUoW) ConsultationRepository() contract.ConsultationRepository {
	return memConsultations{u.store}
}

// --- accounts ---

type memAccounts struct{ s *memStore }

func matchAccount(a entity.Account, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if a.Id != sp.ID {
				return false
			}
		case specification.ByEmail:
			if !strings.EqualFold(a.Email, sp.Email) {
				return false
			}
		case specification.ByRole:
			if string(a.Role) != sp.Role {
				return false
			}
		}
	}
	return true
}

func (r memAccounts) Create(ctx context.Context, a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.accounts[a.Id] = *a
	return nil
}

func (r memAccounts) Update(ctx context.Context, a *entity.Account) error {
	return r.Create(ctx, a)
}

func (r memAccounts) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.accounts, id)
	for k, d := range r.s.doctors {
		if d.AccountId == id {
			delete(r.s.doctors, k)
		}
	}
	for k, p := range r.s.patients {
		if p.AccountId == id {
			delete(r.s.patients, k)
		}
	}
	return nil
}

func (r memAccounts) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Account
	for _, a := range r.s.accounts {
		if matchAccount(a, specs) {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r memAccounts) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Account, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r memAccounts) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r memAccounts) UpdatePassword(ctx context.Context, id uuid.UUID, hash string, isTemp bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a := r.s.accounts[id]
	a.PasswordHash = hash
	a.IsTempPassword = isTemp
	r.s.accounts[id] = a
	return nil
}

func (r memAccounts) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a := r.s.accounts[id]
	a.IsVerified = verified
	r.s.accounts[id] = a
	return nil
}

func (r memAccounts) CreateOtp(ctx context.Context, otp *entity.PasswordResetOtp) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.otps[otp.Id] = *otp
	return nil
}

func (r memAccounts) FindOtp(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetOtp, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
next:
	for _, o := range r.s.otps {
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByOtpCode:
				if o.Email != sp.Email || o.Code != sp.Code {
					continue next
				}
			case specification.ByEmail:
				if o.Email != sp.Email {
					continue next
				}
			case specification.UnusedOtp:
				if o.Used {
					continue next
				}
			case specification.OtpNotExpired:
				if o.Expired(sp.Now) {
					continue next
				}
			}
		}
		o := o
		return &o, nil
	}
	return nil, nil
}

func (r memAccounts) InvalidateOtps(ctx context.Context, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, o := range r.s.otps {
		if o.Email == email && !o.Used {
			o.Used = true
			r.s.otps[k] = o
		}
	}
	return nil
}

func (r memAccounts) MarkOtpUsed(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o := r.s.otps[id]
	o.Used = true
	r.s.otps[id] = o
	return nil
}

// --- patients ---

type memPatients struct{ s *memStore }

func (r memPatients) Create(ctx context.Context, p *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.Id == uuid.Nil {
		p.Id = uuid.New()
	}
	r.s.patients[p.Id] = *p
	return nil
}

func (r memPatients) Update(ctx context.Context, p *entity.Patient) error {
	return r.Create(ctx, p)
}

func (r memPatients) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
next:
	for _, p := range r.s.patients {
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByID:
				if p.Id != sp.ID {
					continue next
				}
			case specification.ByAccountID:
				if p.AccountId != sp.AccountID {
					continue next
				}
			}
		}
		p := p
		return &p, nil
	}
	return nil, nil
}

func (r memPatients) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.patients)), nil
}

// --- doctors ---

type memDoctors struct{ s *memStore }

func (r memDoctors) Create(ctx context.Context, d *entity.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d.Id == uuid.Nil {
		d.Id = uuid.New()
	}
	stored := *d
	stored.Email, stored.IsVerified = "", false
	r.s.doctors[d.Id] = stored
	return nil
}

func (r memDoctors) Update(ctx context.Context, d *entity.Doctor) error {
	return r.Create(ctx, d)
}

func (r memDoctors) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.doctors, id)
	return nil
}

func (r memDoctors) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Doctor
next:
	for _, d := range r.s.doctors {
		acc := r.s.accounts[d.AccountId]
		d.Email, d.IsVerified = acc.Email, acc.IsVerified
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByID:
				if d.Id != sp.ID {
					continue next
				}
			case specification.ByAccountID:
				if d.AccountId != sp.AccountID {
					continue next
				}
			case specification.DoctorVerified:
				if d.IsVerified != sp.Verified {
					continue next
				}
			case specification.DoctorAvailable:
				if !d.IsAvailable {
					continue next
				}
			case specification.SpecialtyLike:
				if !strings.Contains(strings.ToLower(d.Specialty), strings.ToLower(strings.TrimSpace(sp.Specialty))) {
					continue next
				}
			case specification.ByLicenseNumber:
				if d.LicenseNumber != sp.LicenseNumber {
					continue next
				}
			}
		}
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r memDoctors) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Doctor, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r memDoctors) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- triage sessions ---

type memSessions struct{ s *memStore }

func (r memSessions) Create(ctx context.Context, t *entity.TriageSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[t.Id] = *t
	return nil
}

func (r memSessions) Update(ctx context.Context, t *entity.TriageSession) error {
	return r.Create(ctx, t)
}

func (r memSessions) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TriageSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TriageSession
next:
	for _, t := range r.s.sessions {
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByID:
				if t.Id != sp.ID {
					continue next
				}
			case specification.SessionByID:
				if t.Id != sp.ID {
					continue next
				}
			case specification.BySubject:
				if t.SubjectId != sp.SubjectID {
					continue next
				}
			case specification.TerminalSessions:
				if !t.IsTerminal() {
					continue next
				}
			case specification.ByFlag:
				if t.Flag == nil || *t.Flag != sp.Flag {
					continue next
				}
			}
		}
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memSessions) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TriageSession, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r memSessions) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r memSessions) FindLatestOpen(ctx context.Context, subjectId uuid.UUID) (*entity.TriageSession, error) {
	all, _ := r.FindAll(ctx, specification.BySubject{SubjectID: subjectId})
	for _, t := range all {
		if t.IsOpen() {
			return t, nil
		}
	}
	return nil, nil
}

func (r memSessions) AbandonOpen(ctx context.Context, subjectId uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k, t := range r.s.sessions {
		if t.SubjectId == subjectId && t.Abandon() {
			r.s.sessions[k] = t
			n++
		}
	}
	return n, nil
}

func (r memSessions) FindAllWithPatient(ctx context.Context, specs ...specification.Specification) ([]*entity.TriageSession, error) {
	all, _ := r.FindAll(ctx, specs...)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range all {
		for _, p := range r.s.patients {
			if p.AccountId == t.SubjectId {
				t.PatientName = p.FullName
			}
		}
	}
	return all, nil
}

func (r memSessions) CountByFlag(ctx context.Context) (map[triage.Flag]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[triage.Flag]int64{}
	for _, t := range r.s.sessions {
		if t.Flag != nil {
			out[*t.Flag]++
		}
	}
	return out, nil
}

// --- consultations ---

type memConsultations struct{ s *memStore }

func (r memConsultations) Create(ctx context.Context, c *entity.Consultation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.consultations[c.Id] = *c
	return nil
}

func (r memConsultations) Update(ctx context.Context, c *entity.Consultation) error {
	return r.Create(ctx, c)
}

func (r memConsultations) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Consultation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Consultation
next:
	for _, c := range r.s.consultations {
		for _, spec := range specs {
			switch sp := spec.(type) {
			case specification.ByID:
				if c.Id != sp.ID {
					continue next
				}
			case specification.ByPatientAccount:
				if c.PatientAccountId != sp.AccountID {
					continue next
				}
			case specification.ByDoctor:
				if c.DoctorId != sp.DoctorID {
					continue next
				}
			case specification.ByConsultationStatus:
				if string(c.Status) != sp.Status {
					continue next
				}
			}
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memConsultations) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Consultation, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r memConsultations) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r memConsultations) CreateMessage(ctx context.Context, m *entity.ConsultationMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.messages = append(r.s.messages, *m)
	return nil
}

func (r memConsultations) FindMessages(ctx context.Context, consultationId uuid.UUID) ([]*entity.ConsultationMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ConsultationMessage
	for _, m := range r.s.messages {
		if m.ConsultationId == consultationId {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

// --- collaborators ---

type recordedEvent struct {
	code string
	args []interface{}
}

type recordingEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (e *recordingEvents) add(code string, args ...interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, recordedEvent{code: code, args: args})
}

func (e *recordingEvents) codes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.code)
	}
	return out
}

func (e *recordingEvents) PublishTriageCompleted(ctx context.Context, patientAccountId, sessionId uuid.UUID, flag, specialty string) {
	e.add("TRIAGE_COMPLETED", patientAccountId, sessionId, flag, specialty)
}

func (e *recordingEvents) PublishConsultationRequested(ctx context.Context, consultationId, patientAccountId, doctorAccountId uuid.UUID, patientName string) {
	e.add("CONSULTATION_REQUESTED", consultationId, patientAccountId, doctorAccountId, patientName)
}

func (e *recordingEvents) PublishConsultationResponded(ctx context.Context, consultationId, doctorAccountId, patientAccountId uuid.UUID, doctorName, status string) {
	e.add("CONSULTATION_RESPONDED", consultationId, doctorAccountId, patientAccountId, doctorName, status)
}

func (e *recordingEvents) PublishConsultationMessage(ctx context.Context, consultationId, senderAccountId, recipientAccountId uuid.UUID, senderName, preview string) {
	e.add("CONSULTATION_MESSAGE", consultationId, senderAccountId, recipientAccountId, senderName, preview)
}

func (e *recordingEvents) PublishConsultationEnded(ctx context.Context, consultationId, doctorAccountId, patientAccountId uuid.UUID, doctorName string) {
	e.add("CONSULTATION_ENDED", consultationId, doctorAccountId, patientAccountId, doctorName)
}

func (e *recordingEvents) PublishDoctorRegistered(ctx context.Context, doctorAccountId uuid.UUID, email, fullName string) {
	e.add("DOCTOR_REGISTERED", doctorAccountId, email, fullName)
}

func (e *recordingEvents) PublishDoctorVerified(ctx context.Context, doctorAccountId uuid.UUID, email string) {
	e.add("DOCTOR_VERIFIED", doctorAccountId, email)
}

type recordingMailQueue struct {
	mu    sync.Mutex
	mails []mailer.Mail
}

func (q *recordingMailQueue) SendMail(ctx context.Context, mail mailer.Mail) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.mails = append(q.mails, mail)
	return nil
}

func (q *recordingMailQueue) last() mailer.Mail {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.mails) == 0 {
		return mailer.Mail{}
	}
	return q.mails[len(q.mails)-1]
}
