package services

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/errors"
	"github.com/moonrake/cashier-go/models"
	"github.com/moonrake/cashier-go/types/requests"
)

func TestFetchAccountDetailsScopedToCaller(t *testing.T) {
	svc := NewAccountService(nil, zap.NewNop())

	caller := &models.Account{ID: "account-a"}
	ctx := context.WithValue(context.Background(), "user", caller)

	// a non-admin token cannot act on another user's id, so everything
	// built on this lookup (withdrawal creation, history reads) is scoped too
	_, err := svc.FetchAccountDetails(ctx, &requests.FetchAccountDetailsRequest{UserID: "account-b"})
	if err == nil {
		t.Fatal("expected cross-account lookup to be rejected")
	}
	appErr := errors.AsAppError(err)
	if appErr.Type != errors.ErrPermission {
		t.Fatalf("got error type %s, want %s", appErr.Type, errors.ErrPermission)
	}
}
