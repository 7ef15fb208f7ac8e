package order

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresCreate_CommitsOrderAndItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("o-1", "p-1", "Shampoo", 49.9, 2, 99.8).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewPostgresRepository(db)
	_, err = repo.Create(Order{
		ID:     "o-1",
		UserID: 2,
		Status: StatusReceived,
		Items: []Item{
			{ProductID: "p-1", ProductNameSnapshot: "Shampoo", UnitPriceSnapshot: 49.9, Qty: 2, LineTotal: 99.8},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresCreate_RollsBackOnItemFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnError(errors.New("value too long"))
	mock.ExpectRollback()

	repo := NewPostgresRepository(db)
	_, err = repo.Create(Order{
		ID:    "o-1",
		Items: []Item{{ProductID: "p-1", Qty: 1}},
	})
	if err == nil {
		t.Fatal("item insert failure must fail the order")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresRepository(db)
	if _, err := repo.UpdateStatus("missing", StatusShipped, "2026-08-29T00:00:00Z"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
