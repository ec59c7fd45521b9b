package usecase

import (
	"context"
	"sync"
	"time"

	"commerce-payments/internal/data/entity"
	"commerce-payments/internal/data/repository"
	"commerce-payments/internal/events"
	"commerce-payments/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeClock lets tests move time explicitly.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// fakeTransactionRepo is an in-memory TransactionRepository. It returns
// copies so callers cannot mutate the store through response building.
type fakeTransactionRepo struct {
	mu    sync.Mutex
	clock *fakeClock
	rows  map[uuid.UUID]*entity.Transaction
}

func newFakeTransactionRepo(clock *fakeClock) *fakeTransactionRepo {
	return &fakeTransactionRepo{
		clock: clock,
		rows:  make(map[uuid.UUID]*entity.Transaction),
	}
}

func (f *fakeTransactionRepo) put(trx *entity.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *trx
	f.rows[trx.ID] = &cp
}

func (f *fakeTransactionRepo) get(id uuid.UUID) *entity.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	trx, ok := f.rows[id]
	if !ok {
		return nil
	}
	cp := *trx
	return &cp
}

func (f *fakeTransactionRepo) Create(ctx context.Context, trx *entity.Transaction) error {
	f.put(trx)
	return nil
}

func (f *fakeTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return f.get(id), nil
}

func (f *fakeTransactionRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Transaction
	for _, trx := range f.rows {
		if trx.UserID == userID {
			cp := *trx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, trx := range f.rows {
		if trx.UserID == userID {
			total++
		}
	}
	return total, nil
}

func (f *fakeTransactionRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Transaction
	for _, trx := range f.rows {
		cp := *trx
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeTransactionRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

func (f *fakeTransactionRepo) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trx, ok := f.rows[id]
	if !ok || trx.Status != entity.TransactionStatusPending {
		return false, nil
	}
	trx.Status = entity.TransactionStatusPaid
	trx.UpdatedAt = f.clock.Now()
	return true, nil
}

func (f *fakeTransactionRepo) expireLocked(trx *entity.Transaction) bool {
	if trx.Status == entity.TransactionStatusPending && trx.ExpiresAt != nil && trx.ExpiresAt.Before(f.clock.Now()) {
		trx.Status = entity.TransactionStatusExpired
		trx.UpdatedAt = f.clock.Now()
		return true
	}
	return false
}

func (f *fakeTransactionRepo) ExpireOverdue(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if trx, ok := f.rows[id]; ok {
		f.expireLocked(trx)
	}
	return nil
}

func (f *fakeTransactionRepo) ExpireAllOverdue(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, trx := range f.rows {
		if f.expireLocked(trx) {
			n++
		}
	}
	return n, nil
}

func (f *fakeTransactionRepo) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status entity.DeliveryStatus, fulfillment *entity.Fulfillment) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trx, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	trx.DeliveryStatus = status
	trx.UpdatedAt = f.clock.Now()
	if fulfillment != nil {
		trx.WebsiteURL = fulfillment.WebsiteURL
		trx.DriveURL = fulfillment.DriveURL
		trx.TextDescription = fulfillment.TextDescription
		trx.DomainName = fulfillment.DomainName
		trx.DomainExpiredAt = fulfillment.DomainExpiredAt
		trx.Notes = fulfillment.Notes
	}
	return true, nil
}

// fakePaymentRepo is an in-memory PaymentRepository.
type fakePaymentRepo struct {
	mu    sync.Mutex
	clock *fakeClock
	rows  map[uuid.UUID]*entity.Payment
}

func newFakePaymentRepo(clock *fakeClock) *fakePaymentRepo {
	return &fakePaymentRepo{
		clock: clock,
		rows:  make(map[uuid.UUID]*entity.Payment),
	}
}

func (f *fakePaymentRepo) put(payment *entity.Payment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *payment
	f.rows[payment.ID] = &cp
}

func (f *fakePaymentRepo) get(id uuid.UUID) *entity.Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.rows[id]
	if !ok {
		return nil
	}
	cp := *payment
	return &cp
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	f.put(payment)
	return nil
}

func (f *fakePaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return f.get(id), nil
}

func (f *fakePaymentRepo) FindLatestByTransactionID(ctx context.Context, transactionID uuid.UUID) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *entity.Payment
	for _, payment := range f.rows {
		if payment.TransactionID != transactionID {
			continue
		}
		if latest == nil || payment.CreatedAt.After(latest.CreatedAt) {
			latest = payment
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakePaymentRepo) FindByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Payment
	for _, payment := range f.rows {
		if payment.TransactionID == transactionID {
			cp := *payment
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) CancelPending(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.rows[id]
	if !ok || payment.Status != entity.PaymentStatusPending {
		return false, nil
	}
	payment.Status = entity.PaymentStatusCancelled
	payment.UpdatedAt = f.clock.Now()
	return true, nil
}

func (f *fakePaymentRepo) MarkPaid(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.rows[id]
	if !ok || payment.Status != entity.PaymentStatusPending {
		return false, nil
	}
	payment.Status = entity.PaymentStatusPaid
	payment.UpdatedAt = f.clock.Now()
	return true, nil
}

func (f *fakePaymentRepo) expireLocked(payment *entity.Payment) bool {
	if payment.Status == entity.PaymentStatusPending && payment.ExpiresAt != nil && payment.ExpiresAt.Before(f.clock.Now()) {
		payment.Status = entity.PaymentStatusExpired
		payment.UpdatedAt = f.clock.Now()
		return true
	}
	return false
}

func (f *fakePaymentRepo) ExpireOverdue(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if payment, ok := f.rows[id]; ok {
		f.expireLocked(payment)
	}
	return nil
}

func (f *fakePaymentRepo) ExpireOverdueByTransaction(ctx context.Context, transactionID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, payment := range f.rows {
		if payment.TransactionID == transactionID {
			f.expireLocked(payment)
		}
	}
	return nil
}

func (f *fakePaymentRepo) ExpireAllOverdue(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, payment := range f.rows {
		if f.expireLocked(payment) {
			n++
		}
	}
	return n, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) published() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event(nil), f.events...)
}

// testEnv bundles the fakes and services under test.
type testEnv struct {
	clock       *fakeClock
	trxRepo     *fakeTransactionRepo
	payRepo     *fakePaymentRepo
	publisher   *fakePublisher
	payment     *paymentService
	transaction *transactionService
}

func newTestEnv() *testEnv {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	trxRepo := newFakeTransactionRepo(clock)
	payRepo := newFakePaymentRepo(clock)
	publisher := &fakePublisher{}

	repo := &repository.Repository{
		Transaction: trxRepo,
		Payment:     payRepo,
	}

	config := &utils.Config{
		Payment: utils.PaymentConfig{
			Window:         time.Hour,
			CancelCooldown: 10 * time.Second,
		},
	}

	log := zap.NewNop()

	payment := NewPaymentService(repo, publisher, config, log).(*paymentService)
	payment.now = clock.Now

	transaction := NewTransactionService(repo, publisher, log).(*transactionService)
	transaction.now = clock.Now

	return &testEnv{
		clock:       clock,
		trxRepo:     trxRepo,
		payRepo:     payRepo,
		publisher:   publisher,
		payment:     payment,
		transaction: transaction,
	}
}

func (env *testEnv) seedTransaction(userID uuid.UUID, status entity.TransactionStatus) *entity.Transaction {
	now := env.clock.Now()
	trx := &entity.Transaction{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:        "TRX-TEST-0001",
		UserID:         userID,
		Type:           "product",
		Currency:       "IDR",
		Amount:         150000,
		Status:         status,
		DeliveryStatus: entity.DeliveryStatusPending,
	}
	env.trxRepo.put(trx)
	return trx
}

func (env *testEnv) seedPayment(trx *entity.Transaction, status entity.PaymentStatus, expiresAt *time.Time) *entity.Payment {
	now := env.clock.Now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		TransactionID: trx.ID,
		Amount:        trx.Amount,
		Method:        "bank_transfer",
		Status:        status,
		ExpiresAt:     expiresAt,
	}
	env.payRepo.put(payment)
	return payment
}
