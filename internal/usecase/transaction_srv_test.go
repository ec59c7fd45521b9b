package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"commerce-payments/internal/data/entity"
	"commerce-payments/internal/dto/request"
	"commerce-payments/internal/events"

	"github.com/google/uuid"
)

func TestCheckout(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	minutes := 30

	resp, err := env.transaction.Checkout(context.Background(), userID.String(), &request.CheckoutRequest{
		Type:             "product",
		Currency:         "IDR",
		Amount:           250000,
		ExpiresInMinutes: &minutes,
	})
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}

	if resp.Status != entity.TransactionStatusPending {
		t.Errorf("status = %s, want %s", resp.Status, entity.TransactionStatusPending)
	}
	if resp.DeliveryStatus != entity.DeliveryStatusPending {
		t.Errorf("delivery status = %s, want %s", resp.DeliveryStatus, entity.DeliveryStatusPending)
	}
	if !strings.HasPrefix(resp.OrderID, "TRX-") {
		t.Errorf("order id = %s, want TRX- prefix", resp.OrderID)
	}
	if resp.ExpiresAt == nil {
		t.Fatal("expiresAt is nil, want checkout deadline")
	}
	want := env.clock.Now().Add(30 * time.Minute)
	if !resp.ExpiresAt.Equal(want) {
		t.Errorf("expiresAt = %v, want %v", resp.ExpiresAt, want)
	}
}

func TestCheckout_InvalidRequest(t *testing.T) {
	env := newTestEnv()

	_, err := env.transaction.Checkout(context.Background(), uuid.New().String(), &request.CheckoutRequest{
		Type:     "gadget",
		Currency: "IDR",
		Amount:   100,
	})
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("error = %v, want validation failure", err)
	}
}

func TestUpdateDeliveryStatus_FullFlow(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	trx := env.seedTransaction(userID, entity.TransactionStatusPaid)

	resp, err := env.transaction.UpdateDeliveryStatus(context.Background(), trx.ID.String(), &request.UpdateDeliveryStatusRequest{
		Status: string(entity.DeliveryStatusInProgress),
	})
	if err != nil {
		t.Fatalf("transition to in_progress returned error: %v", err)
	}
	if resp.DeliveryStatus != entity.DeliveryStatusInProgress {
		t.Errorf("delivery status = %s, want %s", resp.DeliveryStatus, entity.DeliveryStatusInProgress)
	}

	website := "https://shop.example.com"
	notes := "handed over to customer"
	resp, err = env.transaction.UpdateDeliveryStatus(context.Background(), trx.ID.String(), &request.UpdateDeliveryStatusRequest{
		Status:     string(entity.DeliveryStatusDelivered),
		WebsiteURL: &website,
		Notes:      &notes,
	})
	if err != nil {
		t.Fatalf("transition to delivered returned error: %v", err)
	}
	if resp.DeliveryStatus != entity.DeliveryStatusDelivered {
		t.Errorf("delivery status = %s, want %s", resp.DeliveryStatus, entity.DeliveryStatusDelivered)
	}
	if resp.Fulfillment == nil {
		t.Fatal("fulfillment is nil on delivered transaction")
	}
	if resp.Fulfillment.WebsiteURL == nil || *resp.Fulfillment.WebsiteURL != website {
		t.Errorf("fulfillment website = %v, want %q", resp.Fulfillment.WebsiteURL, website)
	}
	if resp.Fulfillment.Notes == nil || *resp.Fulfillment.Notes != notes {
		t.Errorf("fulfillment notes = %v, want %q", resp.Fulfillment.Notes, notes)
	}

	stored := env.trxRepo.get(trx.ID)
	if stored.WebsiteURL == nil || *stored.WebsiteURL != website {
		t.Errorf("stored website = %v, want %q", stored.WebsiteURL, website)
	}

	published := env.publisher.published()
	if len(published) != 2 {
		t.Fatalf("published %d events, want 2", len(published))
	}
	for _, event := range published {
		if event.Type != events.TypeDeliveryUpdated {
			t.Errorf("event type = %s, want %s", event.Type, events.TypeDeliveryUpdated)
		}
	}
}

func TestUpdateDeliveryStatus_SkipInProgress(t *testing.T) {
	env := newTestEnv()
	trx := env.seedTransaction(uuid.New(), entity.TransactionStatusPaid)

	// pending -> delivered directly is allowed.
	resp, err := env.transaction.UpdateDeliveryStatus(context.Background(), trx.ID.String(), &request.UpdateDeliveryStatusRequest{
		Status: string(entity.DeliveryStatusDelivered),
	})
	if err != nil {
		t.Fatalf("direct transition to delivered returned error: %v", err)
	}
	if resp.DeliveryStatus != entity.DeliveryStatusDelivered {
		t.Errorf("delivery status = %s, want %s", resp.DeliveryStatus, entity.DeliveryStatusDelivered)
	}
}

func TestUpdateDeliveryStatus_ForwardOnly(t *testing.T) {
	tests := []struct {
		name    string
		current entity.DeliveryStatus
		target  entity.DeliveryStatus
	}{
		{"delivered to in_progress", entity.DeliveryStatusDelivered, entity.DeliveryStatusInProgress},
		{"delivered to delivered", entity.DeliveryStatusDelivered, entity.DeliveryStatusDelivered},
		{"in_progress to in_progress", entity.DeliveryStatusInProgress, entity.DeliveryStatusInProgress},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			trx := env.seedTransaction(uuid.New(), entity.TransactionStatusPaid)
			trx.DeliveryStatus = tc.current
			env.trxRepo.put(trx)

			_, err := env.transaction.UpdateDeliveryStatus(context.Background(), trx.ID.String(), &request.UpdateDeliveryStatusRequest{
				Status: string(tc.target),
			})

			var stateErr *StateError
			if !errors.As(err, &stateErr) {
				t.Fatalf("error = %v, want StateError", err)
			}
			if got := env.trxRepo.get(trx.ID).DeliveryStatus; got != tc.current {
				t.Errorf("delivery status = %s, want unchanged %s", got, tc.current)
			}
		})
	}
}

func TestUpdateDeliveryStatus_RequiresPaidTransaction(t *testing.T) {
	for _, status := range []entity.TransactionStatus{
		entity.TransactionStatusPending,
		entity.TransactionStatusCancelled,
		entity.TransactionStatusExpired,
	} {
		t.Run(string(status), func(t *testing.T) {
			env := newTestEnv()
			trx := env.seedTransaction(uuid.New(), status)

			_, err := env.transaction.UpdateDeliveryStatus(context.Background(), trx.ID.String(), &request.UpdateDeliveryStatusRequest{
				Status: string(entity.DeliveryStatusInProgress),
			})

			var stateErr *StateError
			if !errors.As(err, &stateErr) {
				t.Fatalf("error = %v, want StateError", err)
			}
			if stateErr.Status != string(status) {
				t.Errorf("state error status = %s, want %s", stateErr.Status, status)
			}
		})
	}
}

func TestUpdateDeliveryStatus_LegacyAliases(t *testing.T) {
	env := newTestEnv()

	// Rows written by the old delivery axis still carry "created" and
	// "success"; they behave as pending and delivered.
	legacy := env.seedTransaction(uuid.New(), entity.TransactionStatusPaid)
	legacy.DeliveryStatus = entity.DeliveryStatus("created")
	env.trxRepo.put(legacy)

	resp, err := env.transaction.UpdateDeliveryStatus(context.Background(), legacy.ID.String(), &request.UpdateDeliveryStatusRequest{
		Status: string(entity.DeliveryStatusInProgress),
	})
	if err != nil {
		t.Fatalf("transition from legacy created returned error: %v", err)
	}
	if resp.DeliveryStatus != entity.DeliveryStatusInProgress {
		t.Errorf("delivery status = %s, want %s", resp.DeliveryStatus, entity.DeliveryStatusInProgress)
	}

	done := env.seedTransaction(uuid.New(), entity.TransactionStatusPaid)
	done.DeliveryStatus = entity.DeliveryStatus("success")
	env.trxRepo.put(done)

	_, err = env.transaction.UpdateDeliveryStatus(context.Background(), done.ID.String(), &request.UpdateDeliveryStatusRequest{
		Status: string(entity.DeliveryStatusDelivered),
	})
	var stateErr *StateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("error = %v, want StateError for legacy success row", err)
	}
	if stateErr.Status != string(entity.DeliveryStatusDelivered) {
		t.Errorf("state error status = %s, want %s", stateErr.Status, entity.DeliveryStatusDelivered)
	}
}

func TestGetTransaction(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	trx := env.seedTransaction(userID, entity.TransactionStatusPending)
	env.seedPayment(trx, entity.PaymentStatusPending, nil)

	resp, err := env.transaction.GetTransaction(context.Background(), userID.String(), false, trx.ID.String())
	if err != nil {
		t.Fatalf("GetTransaction returned error: %v", err)
	}
	if resp.ID != trx.ID.String() {
		t.Errorf("id = %s, want %s", resp.ID, trx.ID.String())
	}
	if len(resp.Payments) != 1 {
		t.Errorf("payments = %d, want 1", len(resp.Payments))
	}
}

func TestGetTransaction_ForeignUser(t *testing.T) {
	env := newTestEnv()
	trx := env.seedTransaction(uuid.New(), entity.TransactionStatusPending)

	_, err := env.transaction.GetTransaction(context.Background(), uuid.New().String(), false, trx.ID.String())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	// Admins read across owners.
	if _, err := env.transaction.GetTransaction(context.Background(), uuid.New().String(), true, trx.ID.String()); err != nil {
		t.Fatalf("admin read returned error: %v", err)
	}
}

func TestGetTransaction_SweepsBeforeRead(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()
	trx := env.seedTransaction(userID, entity.TransactionStatusPending)

	expiresAt := env.clock.Now().Add(time.Minute)
	trx.ExpiresAt = &expiresAt
	env.trxRepo.put(trx)
	env.seedPayment(trx, entity.PaymentStatusPending, &expiresAt)

	env.clock.Advance(2 * time.Minute)

	resp, err := env.transaction.GetTransaction(context.Background(), userID.String(), false, trx.ID.String())
	if err != nil {
		t.Fatalf("GetTransaction returned error: %v", err)
	}
	if resp.Status != entity.TransactionStatusExpired {
		t.Errorf("status = %s, want %s", resp.Status, entity.TransactionStatusExpired)
	}
	if len(resp.Payments) != 1 || resp.Payments[0].Status != entity.PaymentStatusExpired {
		t.Errorf("payments = %+v, want single expired payment", resp.Payments)
	}
}

func TestGetUserTransactions_SweepsList(t *testing.T) {
	env := newTestEnv()
	userID := uuid.New()

	fresh := env.seedTransaction(userID, entity.TransactionStatusPending)

	overdue := env.seedTransaction(userID, entity.TransactionStatusPending)
	expiresAt := env.clock.Now().Add(time.Minute)
	overdue.ExpiresAt = &expiresAt
	env.trxRepo.put(overdue)

	env.clock.Advance(2 * time.Minute)

	resp, err := env.transaction.GetUserTransactions(context.Background(), userID.String(), &request.PaginatedRequest{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("GetUserTransactions returned error: %v", err)
	}
	if resp.Pagination.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Pagination.Total)
	}

	statuses := map[string]entity.TransactionStatus{}
	for _, item := range resp.Data {
		statuses[item.ID] = item.Status
	}
	if statuses[fresh.ID.String()] != entity.TransactionStatusPending {
		t.Errorf("fresh transaction = %s, want %s", statuses[fresh.ID.String()], entity.TransactionStatusPending)
	}
	if statuses[overdue.ID.String()] != entity.TransactionStatusExpired {
		t.Errorf("overdue transaction = %s, want %s", statuses[overdue.ID.String()], entity.TransactionStatusExpired)
	}
}
