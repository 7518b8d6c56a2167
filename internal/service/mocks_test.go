package service

import (
	"context"
	"fmt"
	"time"

	"github.com/solidon/donation-backend/internal/model"
	"gorm.io/gorm"
)

// In-memory fakes backing the workflow tests. Reads hand out copies so a
// mutation only sticks after an explicit Update, like a real store.

type memUserRepo struct {
	users map[string]*model.User
}

func newMemUserRepo(users ...*model.User) *memUserRepo {
	r := &memUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		r.users[u.UID] = u
	}
	return r
}

func (r *memUserRepo) Create(ctx context.Context, u *model.User) error {
	r.users[u.UID] = u
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, u *model.User) error {
	if _, ok := r.users[u.UID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[u.UID] = u
	return nil
}

func (r *memUserRepo) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	u, ok := r.users[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) ListAvailableTransporters(ctx context.Context) ([]model.User, error) {
	var list []model.User
	for _, u := range r.users {
		if u.Role == model.RoleTransporter && u.Available {
			list = append(list, *u)
		}
	}
	return list, nil
}

func (r *memUserRepo) SetDB(db *gorm.DB) {}

type memPropositionRepo struct {
	seq   uint64
	items map[uint64]model.Proposition
}

func newMemPropositionRepo() *memPropositionRepo {
	return &memPropositionRepo{items: map[uint64]model.Proposition{}}
}

func (r *memPropositionRepo) Create(ctx context.Context, p *model.Proposition) error {
	r.seq++
	p.ID = r.seq
	r.items[p.ID] = *p
	return nil
}

func (r *memPropositionRepo) FindByID(ctx context.Context, id uint64) (*model.Proposition, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := p
	return &cp, nil
}

func (r *memPropositionRepo) Update(ctx context.Context, p *model.Proposition) error {
	if _, ok := r.items[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.items[p.ID] = *p
	return nil
}

func (r *memPropositionRepo) ListByDonor(ctx context.Context, donorUID string) ([]model.Proposition, error) {
	var list []model.Proposition
	for _, p := range r.items {
		if p.DonorUID == donorUID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (r *memPropositionRepo) ListByStatus(ctx context.Context, status model.PropositionStatus) ([]model.Proposition, error) {
	var list []model.Proposition
	for _, p := range r.items {
		if p.Status == status {
			list = append(list, p)
		}
	}
	return list, nil
}

func (r *memPropositionRepo) ListByTransporter(ctx context.Context, transporterUID string) ([]model.Proposition, error) {
	var list []model.Proposition
	for _, p := range r.items {
		if p.TransporterUID != nil && *p.TransporterUID == transporterUID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (r *memPropositionRepo) SetDB(db *gorm.DB) {}

type memDemandeRepo struct {
	seq   uint64
	items map[uint64]model.Demande
}

func newMemDemandeRepo() *memDemandeRepo {
	return &memDemandeRepo{items: map[uint64]model.Demande{}}
}

func (r *memDemandeRepo) Create(ctx context.Context, d *model.Demande) error {
	r.seq++
	d.ID = r.seq
	r.items[d.ID] = *d
	return nil
}

func (r *memDemandeRepo) FindByID(ctx context.Context, id uint64) (*model.Demande, error) {
	d, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := d
	return &cp, nil
}

func (r *memDemandeRepo) Update(ctx context.Context, d *model.Demande) error {
	if _, ok := r.items[d.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.items[d.ID] = *d
	return nil
}

func (r *memDemandeRepo) ListByRequester(ctx context.Context, requesterUID string) ([]model.Demande, error) {
	var list []model.Demande
	for _, d := range r.items {
		if d.RequesterUID == requesterUID {
			list = append(list, d)
		}
	}
	return list, nil
}

func (r *memDemandeRepo) ListByStatus(ctx context.Context, status model.DemandeStatus) ([]model.Demande, error) {
	var list []model.Demande
	for _, d := range r.items {
		if d.Status == status {
			list = append(list, d)
		}
	}
	return list, nil
}

func (r *memDemandeRepo) ListByTransporter(ctx context.Context, transporterUID string) ([]model.Demande, error) {
	var list []model.Demande
	for _, d := range r.items {
		if d.TransporterUID != nil && *d.TransporterUID == transporterUID {
			list = append(list, d)
		}
	}
	return list, nil
}

func (r *memDemandeRepo) FindLiveByDon(ctx context.Context, donID uint64) (*model.Demande, error) {
	for _, d := range r.items {
		if d.DonID != nil && *d.DonID == donID &&
			d.Status != model.DemandeStatusRefused && d.Status != model.DemandeStatusCancelled {
			cp := d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memDemandeRepo) FindConfirmedByDon(ctx context.Context, donID uint64) (*model.Demande, error) {
	for _, d := range r.items {
		if d.DonID != nil && *d.DonID == donID && d.ReceptionConfirmed {
			cp := d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memDemandeRepo) SetDB(db *gorm.DB) {}

type memDonRepo struct {
	seq   uint64
	items map[uint64]model.Don
}

func newMemDonRepo() *memDonRepo {
	return &memDonRepo{items: map[uint64]model.Don{}}
}

func (r *memDonRepo) CreateFromProposition(ctx context.Context, don *model.Don) error {
	r.seq++
	don.ID = r.seq
	don.Reference = fmt.Sprintf("DON-%d-%06d", time.Now().Year(), don.ID)
	r.items[don.ID] = *don
	return nil
}

func (r *memDonRepo) FindByID(ctx context.Context, id uint64) (*model.Don, error) {
	don, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := don
	return &cp, nil
}

func (r *memDonRepo) FindByProposition(ctx context.Context, propositionID uint64) (*model.Don, error) {
	for _, don := range r.items {
		if don.PropositionID == propositionID {
			cp := don
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memDonRepo) Update(ctx context.Context, don *model.Don) error {
	if _, ok := r.items[don.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.items[don.ID] = *don
	return nil
}

func (r *memDonRepo) List(ctx context.Context) ([]model.Don, error) {
	var list []model.Don
	for _, don := range r.items {
		list = append(list, don)
	}
	return list, nil
}

func (r *memDonRepo) ListByCategory(ctx context.Context, categoryID uint64) ([]model.Don, error) {
	var list []model.Don
	for _, don := range r.items {
		if don.CategoryID != nil && *don.CategoryID == categoryID {
			list = append(list, don)
		}
	}
	return list, nil
}

func (r *memDonRepo) SetDB(db *gorm.DB) {}

type memMessageRepo struct {
	seq   uint64
	items []model.Message
}

func (r *memMessageRepo) Create(ctx context.Context, msg *model.Message) error {
	r.seq++
	msg.ID = r.seq
	msg.CreatedAt = time.Now()
	r.items = append(r.items, *msg)
	return nil
}

func (r *memMessageRepo) ListThread(ctx context.Context, uid, otherUID string) ([]model.Message, error) {
	var list []model.Message
	for _, m := range r.items {
		if (m.SenderUID == uid && m.ReceiverUID == otherUID) ||
			(m.SenderUID == otherUID && m.ReceiverUID == uid) {
			list = append(list, m)
		}
	}
	return list, nil
}

func (r *memMessageRepo) SetDB(db *gorm.DB) {}

type memNotificationRepo struct {
	created []model.Notification
}

func (r *memNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	r.created = append(r.created, *n)
	return nil
}

func (r *memNotificationRepo) ListByReceiver(ctx context.Context, receiverUID string, unreadOnly bool, limit int) ([]model.Notification, error) {
	var list []model.Notification
	for _, n := range r.created {
		if n.ReceiverUID == receiverUID {
			list = append(list, n)
		}
	}
	return list, nil
}

func (r *memNotificationRepo) MarkAllRead(ctx context.Context, receiverUID string) error {
	now := time.Now()
	for i := range r.created {
		if r.created[i].ReceiverUID == receiverUID {
			r.created[i].ReadAt = &now
		}
	}
	return nil
}

func (r *memNotificationRepo) CountUnread(ctx context.Context, receiverUID string) (int64, error) {
	var cnt int64
	for _, n := range r.created {
		if n.ReceiverUID == receiverUID && n.ReadAt == nil {
			cnt++
		}
	}
	return cnt, nil
}

func (r *memNotificationRepo) SetDB(db *gorm.DB) {}

// shared test actors

func testDonor() *model.User {
	return &model.User{ID: 1, UID: "donor-1", Name: "Amina", Role: model.RoleParticipant}
}

func testRequester() *model.User {
	return &model.User{ID: 2, UID: "requester-1", Name: "Yanis", Role: model.RoleParticipant}
}

func testMember() *model.User {
	return &model.User{ID: 3, UID: "member-1", Name: "Claire", Role: model.RoleMember}
}

func testTransporter(uid string) *model.User {
	return &model.User{UID: uid, Name: "T " + uid, Role: model.RoleTransporter, Vehicle: "van", Available: true}
}
