package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/skill-exchange/backend/internal/events"
	"github.com/anonto42/skill-exchange/backend/internal/models"
	"github.com/anonto42/skill-exchange/backend/internal/repositories"
	"github.com/anonto42/skill-exchange/backend/internal/services"
)

var errBoom = errors.New("connection reset by peer")

// ── profiles ────────────────────────────────────────────────────────────────

type memProfiles struct {
	order   []string
	rows    map[string]models.Profile
	getErr  error
	listErr error
	upErr   error
}

func newMemProfiles(profiles ...models.Profile) *memProfiles {
	m := &memProfiles{rows: map[string]models.Profile{}}
	for _, p := range profiles {
		_ = m.UpsertProfile(context.Background(), &p)
	}
	return m
}

func (m *memProfiles) GetProfileByID(_ context.Context, id string) (*models.Profile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (m *memProfiles) ListProfiles(_ context.Context, f repositories.ProfileFilter) ([]models.Profile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var ids map[string]bool
	if f.IDs != nil {
		ids = map[string]bool{}
		for _, id := range f.IDs {
			ids[id] = true
		}
	}
	out := []models.Profile{}
	for _, id := range m.order {
		p := m.rows[id]
		switch {
		case f.ExcludeID != "" && p.ID == f.ExcludeID:
		case ids != nil && !ids[p.ID]:
		case f.TeachSkill != nil && p.TeachSkill != *f.TeachSkill:
		case f.LearnSkill != nil && p.LearnSkill != *f.LearnSkill:
		default:
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProfiles) UpsertProfile(_ context.Context, p *models.Profile) error {
	if m.upErr != nil {
		return m.upErr
	}
	if _, ok := m.rows[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.rows[p.ID] = *p
	return nil
}

// ── matches ─────────────────────────────────────────────────────────────────

type memMatches struct {
	mu     sync.Mutex
	rows   []models.Match
	nextID uint

	// staleFinds makes the next N FindByPair calls miss existing rows,
	// simulating a concurrent writer slipping in between check and insert.
	staleFinds int

	findErr   error
	insertErr error
	getErr    error
	idsErr    error
	updateErr error
	deleteErr error
	listErr   error

	inserts int
	deletes int
}

func newMemMatches() *memMatches { return &memMatches{nextID: 1} }

func (m *memMatches) FindByPair(_ context.Context, a, b string) ([]models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.staleFinds > 0 {
		m.staleFinds--
		return []models.Match{}, nil
	}
	out := []models.Match{}
	for _, r := range m.rows {
		if (r.User1 == a && r.User2 == b) || (r.User1 == b && r.User2 == a) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memMatches) Insert(_ context.Context, user1, user2 string, status models.MatchStatus) (*models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	key := models.PairKey(user1, user2)
	for _, r := range m.rows {
		if r.PairKey == key {
			return nil, repositories.ErrDuplicate
		}
	}
	row := models.Match{
		ID:        m.nextID,
		User1:     user1,
		User2:     user2,
		PairKey:   key,
		Status:    status,
		CreatedAt: time.Unix(int64(m.nextID), 0),
	}
	m.nextID++
	m.inserts++
	m.rows = append(m.rows, row)
	return &row, nil
}

func (m *memMatches) GetByID(_ context.Context, id uint) (*models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, r := range m.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memMatches) GetByIDs(_ context.Context, ids []uint) ([]models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.idsErr != nil {
		return nil, m.idsErr
	}
	want := map[uint]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []models.Match{}
	for _, r := range m.rows {
		if want[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memMatches) UpdateStatus(_ context.Context, id uint, status models.MatchStatus) (*models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Status = status
			row := m.rows[i]
			return &row, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memMatches) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			m.deletes++
			return nil
		}
	}
	return nil
}

func (m *memMatches) ListForUser(_ context.Context, userID string) ([]models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []models.Match{}
	for _, r := range m.rows {
		if r.User1 == userID || r.User2 == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memMatches) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// ── notifications ───────────────────────────────────────────────────────────

type memNotifications struct {
	mu     sync.Mutex
	rows   []models.Notification
	nextID uint

	staleFinds int

	findErr     error
	createErr   error
	getErr      error
	listErr     error
	markReadErr error
}

func newMemNotifications() *memNotifications { return &memNotifications{nextID: 1} }

func (m *memNotifications) FindExisting(_ context.Context, userID string, typ models.NotificationType, matchID uint) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.staleFinds > 0 {
		m.staleFinds--
		return []models.Notification{}, nil
	}
	out := []models.Notification{}
	for _, r := range m.rows {
		if r.UserID == userID && r.Type == typ && r.MatchID != nil && *r.MatchID == matchID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memNotifications) Create(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if n.Type == models.NotificationTypeMatchRequest && n.MatchID != nil {
		for _, r := range m.rows {
			if r.Type == n.Type && r.UserID == n.UserID && r.MatchID != nil && *r.MatchID == *n.MatchID {
				return repositories.ErrDuplicate
			}
		}
	}
	n.ID = m.nextID
	n.CreatedAt = time.Unix(int64(m.nextID), 0)
	m.nextID++
	m.rows = append(m.rows, *n)
	return nil
}

func (m *memNotifications) GetByID(_ context.Context, id uint) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, r := range m.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memNotifications) ListForUser(_ context.Context, userID string) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []models.Notification{}
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memNotifications) GetUnreadCount(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.UserID == userID && !r.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) MarkAsRead(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markReadErr != nil {
		return m.markReadErr
	}
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].IsRead = true
		}
	}
	return nil
}

func (m *memNotifications) MarkAllAsRead(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].UserID == userID {
			m.rows[i].IsRead = true
		}
	}
	return nil
}

func (m *memNotifications) forUser(userID string) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Notification{}
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// ── messages ────────────────────────────────────────────────────────────────

type memMessages struct {
	rows      []models.Message
	createErr error
}

func (m *memMessages) CreateMessage(_ context.Context, msg *models.Message) error {
	if m.createErr != nil {
		return m.createErr
	}
	msg.CreatedAt = time.Unix(int64(len(m.rows)+1), 0)
	m.rows = append(m.rows, *msg)
	return nil
}

func (m *memMessages) GetMessagesByMatchID(_ context.Context, matchID uint) ([]models.Message, error) {
	out := []models.Message{}
	for _, r := range m.rows {
		if r.MatchID == matchID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ── events ──────────────────────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// ── wiring ──────────────────────────────────────────────────────────────────

type fixture struct {
	profiles      *memProfiles
	matches       *memMatches
	notifications *memNotifications
	messages      *memMessages
	publisher     *recordingPublisher

	notifier *services.NotificationService
	matcher  *services.MatchService
	resolver *services.ResolutionService
	profileS *services.ProfileService
	chat     *services.MessageService
}

func newFixture(profiles ...models.Profile) *fixture {
	f := &fixture{
		profiles:      newMemProfiles(profiles...),
		matches:       newMemMatches(),
		notifications: newMemNotifications(),
		messages:      &memMessages{},
		publisher:     &recordingPublisher{},
	}
	f.notifier = services.NewNotificationService(f.notifications, f.matches, f.profiles)
	f.matcher = services.NewMatchService(f.profiles, f.matches, f.notifier, f.publisher)
	f.resolver = services.NewResolutionService(f.notifications, f.matches, f.publisher)
	f.profileS = services.NewProfileService(f.profiles, f.matcher)
	f.chat = services.NewMessageService(f.messages, f.matches)
	return f
}

func profile(id, name, teach, learn string) models.Profile {
	return models.Profile{ID: id, Name: name, TeachSkill: teach, LearnSkill: learn}
}
