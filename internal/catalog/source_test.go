package catalog_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/catalog"
)

func TestStaticSource_ReturnsCopy(t *testing.T) {
	src := catalog.NewStaticSource()

	a, err := src.Load(context.Background())
	require.NoError(t, err)
	a[0].Name = "changed"

	b, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "HP Pavilion Gaming Laptop", b[0].Name)
	assert.Len(t, b, 20)
}

// The products query is plain SQL, so an in-memory SQLite database stands in
// for Postgres here.
func TestPostgresSource_LoadOrdersByID(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE products (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			price INTEGER NOT NULL,
			description TEXT NOT NULL,
			image TEXT NOT NULL,
			stock INTEGER NOT NULL
		);
		INSERT INTO products VALUES (2, 'Mouse', 'Hardware', 1990, 'wireless', '/m.jpg', 4);
		INSERT INTO products VALUES (1, 'Keyboard', 'Hardware', 4990, 'mechanical', '/k.jpg', 7);
	`)
	require.NoError(t, err)

	src := catalog.NewPostgresSource(db)
	require.NoError(t, src.Ping(context.Background()))

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.Product{
		{ID: 1, Name: "Keyboard", Category: "Hardware", Price: 4990, Description: "mechanical", Image: "/k.jpg", Stock: 7},
		{ID: 2, Name: "Mouse", Category: "Hardware", Price: 1990, Description: "wireless", Image: "/m.jpg", Stock: 4},
	}, got)
}
