package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jhservicos/orcamentos/orcamentos-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "300", "12.50", "0.01", "123456789.99"} {
		t.Run(s, func(t *testing.T) {
			want := decimal.RequireFromString(s)
			num, err := decimalToPgNumeric(want)
			if err != nil {
				t.Fatalf("decimalToPgNumeric(%s) failed: %v", s, err)
			}
			if got := pgNumericToDecimal(num); !got.Equal(want) {
				t.Errorf("Expected %s, got %s", want, got)
			}
		})
	}
}

func TestPgNumericToDecimal_InvalidIsZero(t *testing.T) {
	if got := pgNumericToDecimal(pgtype.Numeric{}); !got.IsZero() {
		t.Errorf("Expected zero for NULL, got %s", got)
	}
	if got := pgNumericToDecimal(pgtype.Numeric{NaN: true, Valid: true}); !got.IsZero() {
		t.Errorf("Expected zero for NaN, got %s", got)
	}
}

func TestPgUUID(t *testing.T) {
	id := uuid.New()
	if got := pgUUIDToUUID(pgUUID(id)); got != id {
		t.Errorf("Expected %s, got %s", id, got)
	}
	if got := pgUUIDToUUID(pgtype.UUID{}); got != uuid.Nil {
		t.Errorf("Expected uuid.Nil for NULL, got %s", got)
	}
}

func TestPgDate_DropsTimeOfDay(t *testing.T) {
	local := time.FixedZone("BRT", -3*60*60)
	d := pgDate(time.Date(2026, 10, 19, 23, 30, 0, 0, local))

	if !d.Valid {
		t.Fatal("Expected valid date")
	}
	if got := d.Time.Format(domain.BudgetDateLayout); got != "2026-10-19" {
		t.Errorf("Expected 2026-10-19, got %s", got)
	}
	if pgDate(time.Time{}).Valid {
		t.Error("Expected zero time to map to NULL")
	}
}

func TestTextHelpers(t *testing.T) {
	if stringPtrToPgText(nil).Valid {
		t.Error("Expected nil to map to NULL")
	}
	key := "budgets/x/1/orcamento_1.pdf"
	if got := pgTextToStringPtr(stringPtrToPgText(&key)); got == nil || *got != key {
		t.Errorf("Expected %s, got %v", key, got)
	}
}

func TestIsPgUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"unique violation", unique, true},
		{"wrapped unique violation", fmt.Errorf("insert user: %w", unique), true},
		{"check violation", &pgconn.PgError{Code: "23514"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPgUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isPgUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineItemsEncoding(t *testing.T) {
	raw, err := marshalLineItems(nil)
	if err != nil {
		t.Fatalf("marshalLineItems failed: %v", err)
	}
	if string(raw) != "[]" {
		t.Errorf("Expected [], got %s", raw)
	}

	items := []domain.LineItem{{Name: "Cable", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.RequireFromString("5.5"), Total: decimal.RequireFromString("55")}}
	raw, err = marshalLineItems(items)
	if err != nil {
		t.Fatalf("marshalLineItems failed: %v", err)
	}
	decoded, err := unmarshalLineItems(raw)
	if err != nil {
		t.Fatalf("unmarshalLineItems failed: %v", err)
	}
	if len(decoded) != 1 || !decoded[0].Total.Equal(items[0].Total) || decoded[0].Name != "Cable" {
		t.Errorf("Unexpected decoded items %+v", decoded)
	}

	empty, err := unmarshalLineItems(nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v (%v)", empty, err)
	}
}
