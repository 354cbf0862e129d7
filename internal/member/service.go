package member

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lumina/internal/entity"
	"lumina/internal/query"
	"lumina/internal/store"
)

// Service manages library members.
type Service struct {
	store  Store
	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

// NewService returns a Service backed by st. A nil logger disables logging.
func NewService(st Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, now: time.Now, newID: uuid.NewString, logger: logger}
}

// List returns members matching search, each with a live borrowed count.
func (s *Service) List(_ context.Context, search string) []query.MemberView {
	snap := s.store.Snapshot()
	return query.MemberViews(snap, query.SearchMembers(snap, search))
}

// Get returns a member with its borrowed count.
func (s *Service) Get(_ context.Context, id string) (query.MemberView, error) {
	snap := s.store.Snapshot()
	m, ok := snap.Member(id)
	if !ok {
		return query.MemberView{}, &entity.ReferentialError{Entity: "member", ID: id}
	}
	return query.MemberView{Member: m, BorrowedCount: query.BorrowedCount(snap, id)}, nil
}

// Transactions returns the loan history of a member, newest first.
func (s *Service) Transactions(_ context.Context, id string) ([]query.LoanDetail, error) {
	snap := s.store.Snapshot()
	if _, ok := snap.Member(id); !ok {
		return nil, &entity.ReferentialError{Entity: "member", ID: id}
	}
	return query.AllWithDetails(snap, query.TransactionsForMember(snap, id), s.now()), nil
}

func (s *Service) Register(ctx context.Context, in Input) (entity.Member, error) {
	now := s.now()
	m := entity.Member{
		ID:        s.newID(),
		JoinDate:  now.Format(entity.JoinDateLayout),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(&m, in)

	_, err := s.store.Apply(ctx, func(w *store.Writer) error {
		if emailTaken(w, m.Email, "") {
			return ErrEmailTaken
		}
		return w.AddMember(m)
	})
	if err != nil {
		return entity.Member{}, err
	}
	s.logger.Info("member registered", zap.String("member_id", m.ID))
	return m, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (entity.Member, error) {
	var updated entity.Member
	_, err := s.store.Apply(ctx, func(w *store.Writer) error {
		cur, ok := w.Member(id)
		if !ok {
			return &entity.ReferentialError{Entity: "member", ID: id}
		}
		applyInput(&cur, in)
		if emailTaken(w, cur.Email, id) {
			return ErrEmailTaken
		}
		cur.UpdatedAt = s.now()
		updated = cur
		return w.UpdateMember(cur)
	})
	if err != nil {
		return entity.Member{}, err
	}
	s.logger.Info("member updated", zap.String("member_id", id))
	return updated, nil
}

// Delete removes a member. Members holding a book are kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.store.Apply(ctx, func(w *store.Writer) error { return w.RemoveMember(id) }); err != nil {
		return err
	}
	s.logger.Info("member deleted", zap.String("member_id", id))
	return nil
}

func emailTaken(w *store.Writer, email, exceptID string) bool {
	for _, m := range w.Members() {
		if m.ID != exceptID && strings.EqualFold(m.Email, email) {
			return true
		}
	}
	return false
}

func applyInput(m *entity.Member, in Input) {
	m.Name = strings.TrimSpace(in.Name)
	m.Email = strings.TrimSpace(in.Email)
	m.Phone = strings.TrimSpace(in.Phone)
	if jd := strings.TrimSpace(in.JoinDate); jd != "" {
		m.JoinDate = jd
	}
	m.Avatar = strings.TrimSpace(in.Avatar)
	if m.Avatar == "" {
		seed := m.Email
		if seed == "" {
			seed = m.ID
		}
		m.Avatar = PlaceholderAvatar(seed)
	}
}
