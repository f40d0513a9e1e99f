package dialogue

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/citygreen/mastersbot/internal/domain"
)

// memStore is an in-memory Store that counts mutations.
type memStore struct {
	mu        sync.Mutex
	users     map[int64]domain.User
	providers []domain.Provider
	nextID    int64
	writes    int
	// failWith makes every call return the error.
	failWith error
}

func newMemStore() *memStore {
	return &memStore{users: make(map[int64]domain.User)}
}

func (s *memStore) UpsertUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.writes++
	s.users[u.ID] = u
	return nil
}

func (s *memStore) GetUserRole(_ context.Context, id int64) (domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return "", s.failWith
	}
	if u, ok := s.users[id]; ok {
		return u.Role, nil
	}
	return domain.RoleClient, nil
}

func (s *memStore) InsertProvider(_ context.Context, p domain.Provider) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return 0, s.failWith
	}
	s.writes++
	s.nextID++
	p.ID = s.nextID
	s.providers = append(s.providers, p)
	return p.ID, nil
}

func (s *memStore) ListProviders(context.Context) ([]domain.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := append([]domain.Provider(nil), s.providers...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *memStore) DeleteProvider(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return false, s.failWith
	}
	for i, p := range s.providers {
		if p.ID == id {
			s.writes++
			s.providers = append(s.providers[:i], s.providers[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) BatchInsertProviders(_ context.Context, ps []domain.Provider) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return 0, s.failWith
	}
	s.writes++
	for _, p := range ps {
		s.nextID++
		p.ID = s.nextID
		s.providers = append(s.providers, p)
	}
	return len(ps), nil
}

func (s *memStore) ListClientIDs(context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	var ids []int64
	for id, u := range s.users {
		if u.Role == domain.RoleClient {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memStore) ListDistinctCategories(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	seen := map[string]bool{}
	var out []string
	for _, p := range s.providers {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *memStore) FindProviders(_ context.Context, category, city string) ([]domain.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []domain.Provider
	for _, p := range s.providers {
		if p.Category == category && strings.Contains(p.City, city) {
			out = append(out, p)
		}
	}
	return out, nil
}

// call is one recorded transport operation.
type call struct {
	Op     string
	ChatID int64
	MsgID  int
	Text   string
	Photo  string
	Keys   []string
}

// recorder is a Transport that records calls and fails for chosen chats.
type recorder struct {
	mu      sync.Mutex
	calls   []call
	acks    []Ack
	nextMsg int
	failFor map[int64]error
	failOps map[string]error
	files   map[string][]byte
}

func newRecorder() *recorder {
	return &recorder{failFor: map[int64]error{}, failOps: map[string]error{}, files: map[string][]byte{}}
}

var errBlocked = errors.New("telegram: Forbidden: bot was blocked by the user (403)")

func keysOf(msg Message) []string {
	if msg.Markup == nil {
		return nil
	}
	var keys []string
	for _, row := range msg.Markup.InlineKeyboard {
		for _, b := range row {
			keys = append(keys, b.Unique)
		}
	}
	return keys
}

func (r *recorder) record(c call) (MessageRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOps[c.Op]; err != nil {
		return MessageRef{}, err
	}
	if err := r.failFor[c.ChatID]; err != nil {
		return MessageRef{}, err
	}
	r.nextMsg++
	r.calls = append(r.calls, c)
	return MessageRef{ChatID: c.ChatID, MessageID: r.nextMsg}, nil
}

func (r *recorder) Send(_ context.Context, chatID int64, msg Message) (MessageRef, error) {
	return r.record(call{Op: "send", ChatID: chatID, Text: msg.Text, Keys: keysOf(msg)})
}

func (r *recorder) SendPhoto(_ context.Context, chatID int64, photo string, msg Message) (MessageRef, error) {
	return r.record(call{Op: "photo", ChatID: chatID, Photo: photo, Text: msg.Text, Keys: keysOf(msg)})
}

func (r *recorder) Edit(_ context.Context, ref MessageRef, msg Message) error {
	_, err := r.record(call{Op: "edit", ChatID: ref.ChatID, MsgID: ref.MessageID, Text: msg.Text, Keys: keysOf(msg)})
	return err
}

func (r *recorder) EditCaption(_ context.Context, ref MessageRef, msg Message) error {
	_, err := r.record(call{Op: "caption", ChatID: ref.ChatID, MsgID: ref.MessageID, Text: msg.Text, Keys: keysOf(msg)})
	return err
}

func (r *recorder) Delete(_ context.Context, ref MessageRef) error {
	_, err := r.record(call{Op: "delete", ChatID: ref.ChatID, MsgID: ref.MessageID})
	return err
}

func (r *recorder) Ack(_ context.Context, _ string, a Ack) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acks = append(r.acks, a)
	return nil
}

func (r *recorder) Download(_ context.Context, fileID string, limit int64) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.files[fileID]
	if !ok {
		return nil, errors.New("telegram: file not found (400)")
	}
	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

func (r *recorder) ops(op string) []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []call
	for _, c := range r.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (r *recorder) last() call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return call{}
	}
	return r.calls[len(r.calls)-1]
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.acks = nil
}
