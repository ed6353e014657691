package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type staticCart struct {
	cart models.Cart
}

func (s *staticCart) Snapshot() models.Cart {
	return s.cart
}

type fakeSessions struct {
	calls int
	input api.CreateSessionInput
	url   string
	err   error
}

func (f *fakeSessions) CreateCheckoutSession(ctx context.Context, input api.CreateSessionInput) (string, error) {
	f.calls++
	f.input = input
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func signTestToken(t *testing.T, userID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return token
}

func cartWith(items ...models.CartItem) *staticCart {
	cart := models.Cart{Items: items}
	cart.Recalculate()
	return &staticCart{cart: cart}
}

func TestSubmitWithoutShippingMakesNoNetworkCall(t *testing.T) {
	sessions := &fakeSessions{url: "https://pay.example/cs_1"}
	b := NewBuilder(cartWith(models.CartItem{ID: 1, Name: "Tee", Color: "white", Size: "M", Quantity: 2, UnitPrice: models.MustMoney("20.00")}), sessions, "USD")

	_, err := b.Submit(context.Background(), signTestToken(t, 1))
	if !errors.Is(err, ErrShippingMethodRequired) {
		t.Fatalf("want ErrShippingMethodRequired got %v", err)
	}
	if sessions.calls != 0 {
		t.Fatalf("no session request expected, got %d", sessions.calls)
	}
}

func TestSelectShippingRejectsUnknownMethod(t *testing.T) {
	b := NewBuilder(cartWith(), &fakeSessions{}, "USD")
	if err := b.SelectShipping("overnight"); !errors.Is(err, ErrShippingMethodUnknown) {
		t.Fatalf("want ErrShippingMethodUnknown got %v", err)
	}
}

func TestFreeShippingGatedOnSubtotal(t *testing.T) {
	under := NewBuilder(cartWith(models.CartItem{ID: 1, Quantity: 2, UnitPrice: models.MustMoney("20.00")}), &fakeSessions{}, "USD")
	if err := under.SelectShipping(constants.ShippingMethodFree); !errors.Is(err, ErrFreeShippingNotEligible) {
		t.Fatalf("want ErrFreeShippingNotEligible got %v", err)
	}

	over := NewBuilder(cartWith(models.CartItem{ID: 1, Quantity: 4, UnitPrice: models.MustMoney("20.00")}), &fakeSessions{}, "USD")
	if err := over.SelectShipping(constants.ShippingMethodFree); err != nil {
		t.Fatalf("free shipping at 80.00 should be selectable: %v", err)
	}
}

func TestTotalStandardShipping(t *testing.T) {
	b := NewBuilder(cartWith(models.CartItem{ID: 1, Quantity: 2, UnitPrice: models.MustMoney("20.00")}), &fakeSessions{}, "USD")
	if err := b.SelectShipping(constants.ShippingMethodStandard); err != nil {
		t.Fatalf("select standard failed: %v", err)
	}
	if got := b.Total().String(); got != "49.99" {
		t.Fatalf("total want 49.99 got %s", got)
	}
}

func TestTotalFreeShippingOverThreshold(t *testing.T) {
	b := NewBuilder(cartWith(models.CartItem{ID: 1, Quantity: 4, UnitPrice: models.MustMoney("20.00")}), &fakeSessions{}, "USD")
	if err := b.SelectShipping(constants.ShippingMethodFree); err != nil {
		t.Fatalf("select free failed: %v", err)
	}
	if got := b.Total().String(); got != "80.00" {
		t.Fatalf("total want 80.00 got %s", got)
	}
}

func TestTotalAppliesDiscount(t *testing.T) {
	b := NewBuilder(cartWith(models.CartItem{ID: 1, Quantity: 2, UnitPrice: models.MustMoney("20.00")}), &fakeSessions{}, "USD")
	if err := b.SelectShipping(constants.ShippingMethodStandard); err != nil {
		t.Fatalf("select standard failed: %v", err)
	}
	b.SetDiscount(models.MustMoney("10.00"))
	if got := b.Total().String(); got != "39.99" {
		t.Fatalf("total want 39.99 got %s", got)
	}
}

func TestPreflightItemOptions(t *testing.T) {
	complete := NewBuilder(cartWith(
		models.CartItem{ID: 1, Name: "Tee", Color: "white", Size: "M", Quantity: 1, UnitPrice: models.MustMoney("20.00")},
		models.CartItem{ID: 2, Name: "Belt", Color: "black", Quantity: 1, UnitPrice: models.MustMoney("9.99"), Accessory: true},
	), &fakeSessions{}, "USD")
	if err := complete.PreflightItemOptions(); err != nil {
		t.Fatalf("complete options should pass: %v", err)
	}

	incomplete := NewBuilder(cartWith(
		models.CartItem{ID: 1, Name: "Tee", Color: "white", Quantity: 1, UnitPrice: models.MustMoney("20.00")},
		models.CartItem{ID: 2, Name: "Belt", Quantity: 1, UnitPrice: models.MustMoney("9.99"), Accessory: true},
	), &fakeSessions{}, "USD")
	err := incomplete.PreflightItemOptions()
	var optionsErr *IncompleteOptionsError
	if !errors.As(err, &optionsErr) {
		t.Fatalf("want IncompleteOptionsError got %v", err)
	}
	if len(optionsErr.Items) != 2 {
		t.Fatalf("want 2 incomplete items got %d", len(optionsErr.Items))
	}
	if !optionsErr.Items[0].MissingSize || optionsErr.Items[0].MissingColor {
		t.Fatalf("tee should be missing size only: %+v", optionsErr.Items[0])
	}
	if !optionsErr.Items[1].MissingColor || optionsErr.Items[1].MissingSize {
		t.Fatalf("accessory should be missing color only: %+v", optionsErr.Items[1])
	}
}

func TestSubmitRechecksFreeShippingEligibility(t *testing.T) {
	sessions := &fakeSessions{url: "https://pay.example/cs_1"}
	cart := cartWith(models.CartItem{ID: 1, Name: "Coat", Color: "camel", Size: "M", Quantity: 4, UnitPrice: models.MustMoney("20.00")})
	b := NewBuilder(cart, sessions, "USD")
	if err := b.SelectShipping(constants.ShippingMethodFree); err != nil {
		t.Fatalf("free shipping at 80.00 should be selectable: %v", err)
	}

	// 选择之后购物车缩水到门槛以下
	cart.cart.Items[0].Quantity = 1
	cart.cart.Recalculate()

	if _, err := b.Submit(context.Background(), signTestToken(t, 1)); !errors.Is(err, ErrFreeShippingNotEligible) {
		t.Fatalf("want ErrFreeShippingNotEligible got %v", err)
	}
	if sessions.calls != 0 {
		t.Fatalf("no session request expected, got %d", sessions.calls)
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	sessions := &fakeSessions{}
	b := NewBuilder(cartWith(), sessions, "USD")
	if err := b.SelectShipping(constants.ShippingMethodStandard); err != nil {
		t.Fatalf("select standard failed: %v", err)
	}
	if _, err := b.Submit(context.Background(), signTestToken(t, 1)); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty got %v", err)
	}
	if sessions.calls != 0 {
		t.Fatalf("no session request expected for empty cart")
	}
}

func TestSubmitBuildsSessionMetadata(t *testing.T) {
	sessions := &fakeSessions{url: "https://pay.example/cs_1"}
	b := NewBuilder(cartWith(
		models.CartItem{ID: 1, ProductID: 10, Name: "Tee", Color: "white", Size: "M", Quantity: 2, UnitPrice: models.MustMoney("20.00")},
	), sessions, "usd")
	if err := b.SelectShipping(constants.ShippingMethodStandard); err != nil {
		t.Fatalf("select standard failed: %v", err)
	}

	url, err := b.Submit(context.Background(), signTestToken(t, 42))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if url != "https://pay.example/cs_1" {
		t.Fatalf("redirect url mismatch: %s", url)
	}

	input := sessions.input
	if input.Currency != "USD" {
		t.Fatalf("currency want USD got %s", input.Currency)
	}
	if input.Amount.String() != "49.99" {
		t.Fatalf("amount want 49.99 got %s", input.Amount.String())
	}
	if input.Metadata[models.MetadataKeyUserID] != "42" {
		t.Fatalf("user_id want 42 got %s", input.Metadata[models.MetadataKeyUserID])
	}
	if input.Metadata[models.MetadataKeyShippingMethod] != constants.ShippingMethodStandard {
		t.Fatalf("shipping method mismatch: %s", input.Metadata[models.MetadataKeyShippingMethod])
	}

	lines, err := models.DecodeOrderLines(input.Metadata[models.MetadataKeyOrderItems])
	if err != nil {
		t.Fatalf("decode metadata lines failed: %v", err)
	}
	if len(lines) != 1 || lines[0].ProductID != 10 || lines[0].Subtotal.String() != "40.00" {
		t.Fatalf("metadata lines mismatch: %+v", lines)
	}
}

func TestUserIDFromTokenRejectsGarbage(t *testing.T) {
	if _, err := UserIDFromToken("not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("want ErrTokenInvalid got %v", err)
	}
	if got, err := UserIDFromToken(signTestToken(t, 7)); err != nil || got != 7 {
		t.Fatalf("want user 7 got %d err %v", got, err)
	}
}
