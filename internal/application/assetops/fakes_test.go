package assetops_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/activos-api/internal/application/assetops"
	"github.com/jhoicas/activos-api/internal/domain"
	"github.com/jhoicas/activos-api/internal/domain/entity"
	"github.com/jhoicas/activos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los puertos. El fakeTxRunner clona el estado antes de
// ejecutar la función y lo restaura si falla, imitando el rollback de la BD.
// Las copias son profundas: slices y mapas internos no comparten backing array
// con el store, para que un rollback deje el estado exactamente como estaba.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu       sync.Mutex
	assets   map[string]*entity.Asset
	activity []*entity.ActivityEntry
	requests map[string]*entity.Request
	loans    map[string]*entity.LoanRequest
	returns  map[string]*entity.AssetReturn
	stock    map[string]*entity.StockMovement
}

func newMemStore() *memStore {
	return &memStore{
		assets:   map[string]*entity.Asset{},
		requests: map[string]*entity.Request{},
		loans:    map[string]*entity.LoanRequest{},
		returns:  map[string]*entity.AssetReturn{},
		stock:    map[string]*entity.StockMovement{},
	}
}

// ── Clones profundos ─────────────────────────────────────────────────────────

func cloneAsset(a *entity.Asset) *entity.Asset {
	cp := *a
	return &cp
}

func cloneRequest(r *entity.Request) *entity.Request {
	cp := *r
	cp.Items = make([]entity.RequestItem, len(r.Items))
	for i, it := range r.Items {
		cp.Items[i] = it
		if it.ApprovedQuantity != nil {
			q := *it.ApprovedQuantity
			cp.Items[i].ApprovedQuantity = &q
		}
	}
	if r.PartiallyRegistered != nil {
		cp.PartiallyRegistered = make(map[string]int, len(r.PartiallyRegistered))
		for k, v := range r.PartiallyRegistered {
			cp.PartiallyRegistered[k] = v
		}
	}
	return &cp
}

func cloneLoan(l *entity.LoanRequest) *entity.LoanRequest {
	cp := *l
	cp.Items = append([]entity.LoanItem(nil), l.Items...)
	cp.ReturnedAssetIDs = append([]string(nil), l.ReturnedAssetIDs...)
	if l.AssignedAssetIDs != nil {
		cp.AssignedAssetIDs = make(map[string][]string, len(l.AssignedAssetIDs))
		for k, v := range l.AssignedAssetIDs {
			cp.AssignedAssetIDs[k] = append([]string(nil), v...)
		}
	}
	return &cp
}

func cloneReturn(ret *entity.AssetReturn) *entity.AssetReturn {
	cp := *ret
	cp.Items = append([]entity.ReturnItem(nil), ret.Items...)
	return &cp
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	cp := *m
	return &cp
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for k, v := range s.assets {
		cp.assets[k] = cloneAsset(v)
	}
	for k, v := range s.requests {
		cp.requests[k] = cloneRequest(v)
	}
	for k, v := range s.loans {
		cp.loans[k] = cloneLoan(v)
	}
	for k, v := range s.returns {
		cp.returns[k] = cloneReturn(v)
	}
	for k, v := range s.stock {
		cp.stock[k] = cloneMovement(v)
	}
	cp.activity = append(cp.activity, s.activity...)
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.assets = from.assets
	s.requests = from.requests
	s.loans = from.loans
	s.returns = from.returns
	s.stock = from.stock
	s.activity = from.activity
}

// ── Repos ────────────────────────────────────────────────────────────────────

type fakeAssetRepo struct{ s *memStore }

func (r *fakeAssetRepo) GetByID(_ context.Context, id string) (*entity.Asset, error) {
	a, ok := r.s.assets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneAsset(a), nil
}

func (r *fakeAssetRepo) GetForUpdate(ctx context.Context, id string) (*entity.Asset, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeAssetRepo) GetManyForUpdate(ctx context.Context, ids []string) ([]*entity.Asset, error) {
	out := make([]*entity.Asset, 0, len(ids))
	for _, id := range ids {
		a, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAssetRepo) Update(_ context.Context, asset *entity.Asset) error {
	if _, ok := r.s.assets[asset.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := cloneAsset(asset)
	cp.Version++
	r.s.assets[asset.ID] = cp
	return nil
}

func (r *fakeAssetRepo) AppendActivity(_ context.Context, entry *entity.ActivityEntry) error {
	r.s.activity = append(r.s.activity, entry)
	return nil
}

func (r *fakeAssetRepo) ListActivity(_ context.Context, assetID string, limit, offset int) ([]*entity.ActivityEntry, error) {
	var out []*entity.ActivityEntry
	for _, e := range r.s.activity {
		if e.AssetID == assetID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeRequestRepo struct{ s *memStore }

func (r *fakeRequestRepo) Create(_ context.Context, req *entity.Request) error {
	for _, existing := range r.s.requests {
		if existing.DocNumber == req.DocNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*entity.Request, error) {
	req, ok := r.s.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneRequest(req), nil
}

func (r *fakeRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRequestRepo) Update(_ context.Context, req *entity.Request) error {
	current, ok := r.s.requests[req.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != req.Version {
		return domain.ErrConflict
	}
	cp := cloneRequest(req)
	cp.Version++
	r.s.requests[req.ID] = cp
	req.Version = cp.Version
	return nil
}

func (r *fakeRequestRepo) List(_ context.Context, limit, offset int) ([]*entity.Request, error) {
	var out []*entity.Request
	for _, req := range r.s.requests {
		out = append(out, cloneRequest(req))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocNumber < out[j].DocNumber })
	return out, nil
}

func (r *fakeRequestRepo) ListDocNumbers(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for _, req := range r.s.requests {
		out = append(out, req.DocNumber)
	}
	return out, nil
}

type fakeLoanRepo struct{ s *memStore }

func (r *fakeLoanRepo) Create(_ context.Context, l *entity.LoanRequest) error {
	r.s.loans[l.ID] = cloneLoan(l)
	return nil
}

func (r *fakeLoanRepo) GetByID(_ context.Context, id string) (*entity.LoanRequest, error) {
	l, ok := r.s.loans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneLoan(l), nil
}

func (r *fakeLoanRepo) GetForUpdate(ctx context.Context, id string) (*entity.LoanRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeLoanRepo) Update(_ context.Context, l *entity.LoanRequest) error {
	current, ok := r.s.loans[l.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != l.Version {
		return domain.ErrConflict
	}
	cp := cloneLoan(l)
	cp.Version++
	r.s.loans[l.ID] = cp
	l.Version = cp.Version
	return nil
}

func (r *fakeLoanRepo) List(_ context.Context, limit, offset int) ([]*entity.LoanRequest, error) {
	var out []*entity.LoanRequest
	for _, l := range r.s.loans {
		out = append(out, cloneLoan(l))
	}
	return out, nil
}

func (r *fakeLoanRepo) ListDocNumbers(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for _, l := range r.s.loans {
		out = append(out, l.DocNumber)
	}
	return out, nil
}

type fakeReturnRepo struct{ s *memStore }

func (r *fakeReturnRepo) Create(_ context.Context, ret *entity.AssetReturn) error {
	r.s.returns[ret.ID] = cloneReturn(ret)
	return nil
}

func (r *fakeReturnRepo) GetByID(_ context.Context, id string) (*entity.AssetReturn, error) {
	ret, ok := r.s.returns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneReturn(ret), nil
}

func (r *fakeReturnRepo) GetForUpdate(ctx context.Context, id string) (*entity.AssetReturn, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeReturnRepo) Update(_ context.Context, ret *entity.AssetReturn) error {
	if _, ok := r.s.returns[ret.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := cloneReturn(ret)
	cp.Version++
	r.s.returns[ret.ID] = cp
	return nil
}

func (r *fakeReturnRepo) ListByLoan(_ context.Context, loanRequestID string) ([]*entity.AssetReturn, error) {
	var out []*entity.AssetReturn
	for _, ret := range r.s.returns {
		if ret.LoanRequestID == loanRequestID {
			out = append(out, cloneReturn(ret))
		}
	}
	return out, nil
}

func (r *fakeReturnRepo) ListDocNumbers(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for _, ret := range r.s.returns {
		out = append(out, ret.DocNumber)
	}
	return out, nil
}

type fakeStockRepo struct{ s *memStore }

func (r *fakeStockRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.stock[m.ID] = cloneMovement(m)
	return nil
}

func (r *fakeStockRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	m, ok := r.s.stock[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneMovement(m), nil
}

func (r *fakeStockRepo) ListByItemForUpdate(_ context.Context, name, brand string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.stock {
		if m.Name == name && m.Brand == brand {
			out = append(out, cloneMovement(m))
		}
	}
	return out, nil
}

func (r *fakeStockRepo) ListByItem(ctx context.Context, name, brand string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.ListByItemForUpdate(ctx, name, brand)
}

func (r *fakeStockRepo) UpdateBalance(_ context.Context, m *entity.StockMovement) error {
	current, ok := r.s.stock[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	current.BalanceAfter = m.BalanceAfter
	return nil
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) run(fn func() error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snap := t.s.snapshot()
	if err := fn(); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

func (t *fakeTxRunner) RunAssets(_ context.Context, fn func(repository.AssetRepository) error) error {
	return t.run(func() error { return fn(&fakeAssetRepo{t.s}) })
}

func (t *fakeTxRunner) RunRequest(_ context.Context, fn func(repository.RequestRepository, repository.AssetRepository) error) error {
	return t.run(func() error { return fn(&fakeRequestRepo{t.s}, &fakeAssetRepo{t.s}) })
}

func (t *fakeTxRunner) RunLoan(_ context.Context, fn func(repository.LoanRequestRepository, repository.AssetReturnRepository, repository.AssetRepository) error) error {
	return t.run(func() error { return fn(&fakeLoanRepo{t.s}, &fakeReturnRepo{t.s}, &fakeAssetRepo{t.s}) })
}

func (t *fakeTxRunner) RunStock(_ context.Context, fn func(repository.StockMovementRepository) error) error {
	return t.run(func() error { return fn(&fakeStockRepo{t.s}) })
}

// ── Notifier ─────────────────────────────────────────────────────────────────

type captureNotifier struct {
	notices []assetops.TransitionNotice
}

func (n *captureNotifier) NotifyTransition(_ context.Context, notice assetops.TransitionNotice) error {
	n.notices = append(n.notices, notice)
	return nil
}
