package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/storefront?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := RunMigrations(db, zap.NewNop()); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	return db
}

func TestUpsertProduct_GetProduct(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	// Cleanup old test products
	db.ExecContext(ctx, `DELETE FROM products WHERE id LIKE 'test-%'`)

	p := domain.Product{
		ID:          "test-1",
		Title:       "Mens Casual Premium Slim Fit T-Shirts",
		Price:       domain.NewMoney(2230, domain.CurrencyUSD),
		Description: "Slim-fitting style",
		Image:       "https://fakestoreapi.com/img/71-3HjGNDUL._AC_SY879._SX._UX._SY._UY_.jpg",
		Category:    "men's clothing",
	}

	if err := adapter.UpsertProduct(ctx, p); err != nil {
		t.Fatalf("UpsertProduct failed: %v", err)
	}

	got, err := adapter.GetProduct(ctx, "test-1")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if got != p {
		t.Errorf("expected %+v, got %+v", p, got)
	}

	// Update price through upsert
	p.Price = domain.NewMoney(1999, domain.CurrencyUSD)
	if err := adapter.UpsertProduct(ctx, p); err != nil {
		t.Fatalf("UpsertProduct failed: %v", err)
	}
	got, _ = adapter.GetProduct(ctx, "test-1")
	if got.Price.Amount != 1999 {
		t.Errorf("expected price 1999, got %d", got.Price.Amount)
	}

	// Cleanup
	db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, p.ID)
}

func TestGetProduct_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	_, err := adapter.GetProduct(ctx, "nonexistent-product")
	if err != domain.ErrProductNotFound {
		t.Errorf("expected ErrProductNotFound, got: %v", err)
	}
}

func TestListProducts_Order(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewMySQLAdapter(db)

	db.ExecContext(ctx, `DELETE FROM products`)

	for _, id := range []string{"10", "2", "1"} {
		err := adapter.UpsertProduct(ctx, domain.Product{
			ID:    id,
			Title: "Product " + id,
			Price: domain.NewMoney(100, domain.CurrencyUSD),
		})
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	products, err := adapter.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	for i, want := range []string{"1", "2", "10"} {
		if products[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, products[i].ID)
		}
	}

	db.ExecContext(ctx, `DELETE FROM products`)
}
