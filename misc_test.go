package querypager

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db.Debug(), mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db.Debug(), mock, nil
}

// renderSQL builds expr with the postgres dialect: "$n" placeholders, raw column expressions.
func renderSQL(t *testing.T, expr clause.Expression) (string, []any) {
	t.Helper()

	_, db, _, err := newGORMPostgresMock()
	require.NoError(t, err)

	stmt := &gorm.Statement{DB: db, Clauses: map[string]clause.Clause{}}
	expr.Build(stmt)

	return stmt.SQL.String(), stmt.Vars
}

type tProduct struct {
	ID       int64 `gorm:"primaryKey"`
	Name     string
	Category string
	Price    int64
}

func (tProduct) TableName() string {
	return "products"
}

// newSQLiteProducts opens an in-memory database seeded with products.
func newSQLiteProducts(t *testing.T, products ...tProduct) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&tProduct{}))
	if len(products) > 0 {
		require.NoError(t, db.Create(&products).Error)
	}

	return db
}

func testRegistry() *Registry {
	return MustRegistry(
		Field{
			Name:    "id",
			Column:  NewColumn("id", "products.id"),
			Filters: []FilterDescriptor{{Alias: "id", Operator: Eq}},
			Sort:    Sortable(),
		},
		Field{
			Name:   "name",
			Column: NewColumn("name", "products.name"),
			Filters: []FilterDescriptor{
				{Alias: "name", Operator: Eq},
				{Alias: "q", Operator: Like},
			},
			Sort: Sortable(),
		},
		Field{
			Name:    "category",
			Column:  NewColumn("category", "products.category"),
			Filters: []FilterDescriptor{{Alias: "category", Operator: Eq}},
			Sort:    Sortable(),
		},
		Field{
			Name:   "price",
			Column: NewColumn("price", "products.price"),
			Filters: []FilterDescriptor{
				{Alias: "price_gte", Operator: Gte},
				{Alias: "price_lte", Operator: Lte},
			},
			Sort: &SortDescriptor{Alias: "cost"},
		},
	)
}

func cursorConfig() PaginationConfig {
	return DefaultConfig().WithMode(ModeCursor).WithCursorIDField("id")
}
