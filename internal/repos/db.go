package repos

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	applog "appliancestore/internal/log"
)

// DefaultUserID owns rows created by the admin area and the import job.
const DefaultUserID int64 = 1

func OpenDB(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", withPragmas(path))
	if err != nil {
		return nil, err
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	return db, nil
}

// withPragmas turns on foreign keys for every connection the pool opens.
func withPragmas(path string) string {
	if strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS categories(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT,
  menu_display INTEGER DEFAULT 0,
  user_id INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name);

CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC,
  category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
  user_id INTEGER NOT NULL DEFAULT 1,
  availability INTEGER DEFAULT 1,
  photo_url TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name_category ON products(name, category_id);

CREATE TABLE IF NOT EXISTS filter_definitions(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
  filter_name TEXT NOT NULL,
  filter_type TEXT NOT NULL CHECK (filter_type IN ('checkbox','radio','range','select')),
  display_order INTEGER DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(category_id, filter_name)
);

CREATE TABLE IF NOT EXISTS filter_options(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  filter_definition_id INTEGER NOT NULL REFERENCES filter_definitions(id) ON DELETE CASCADE,
  option_value TEXT NOT NULL,
  display_order INTEGER DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_filter_options_def ON filter_options(filter_definition_id);

CREATE TABLE IF NOT EXISTS product_filters(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  filter_definition_id INTEGER NOT NULL REFERENCES filter_definitions(id) ON DELETE CASCADE,
  filter_value TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(product_id, filter_definition_id)
);

CREATE TABLE IF NOT EXISTS sliders(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  image_url TEXT NOT NULL,
  title TEXT,
  description TEXT,
  link_url TEXT,
  order_index INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  user_id INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Info(nil, "db.seed", map[string]any{"tables": "categories,products,filters,sliders"})

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO categories(id,name,description,menu_display) VALUES
	  (1,'Холодильники','Холодильники и морозильные камеры',1),
	  (2,'Стиральные машины',NULL,1),
	  (3,'Телевизоры','Телевизоры и мониторы',1),
	  (4,'Мелкая техника',NULL,0)`)

	tx.MustExec(`INSERT INTO products(id,name,description,price,category_id,availability,photo_url) VALUES
	  (1,'Холодильник POZIS RK-102','Двухкамерный, 285 л',32990,1,1,NULL),
	  (2,'Стиральная машина INDESIT IWSB 5085','5 кг, 800 об/мин',21490,2,1,NULL),
	  (3,'Телевизор BBK 32LEM-1046TS/2C',NULL,13990,3,1,NULL),
	  (4,'Телевизор Samsung UE43CU7100',NULL,35990,3,1,NULL),
	  (5,'Телевизор LG 55UR78006LK',NULL,49990,3,1,NULL),
	  (6,'Чайник Polaris PWK 1803C',NULL,NULL,4,0,NULL)`)

	tx.MustExec(`INSERT INTO filter_definitions(id,category_id,filter_name,filter_type,display_order) VALUES
	  (1,3,'Производитель','checkbox',1),
	  (2,3,'По диагонали','checkbox',2)`)

	for i, m := range []string{"Samsung", "LG", "BBK", "Philips", "XIAOMI", "Hyundai"} {
		tx.MustExec(`INSERT INTO filter_options(filter_definition_id,option_value,display_order) VALUES(1,?,?)`, m, i)
	}
	for i, d := range []string{"24", "32", "43", "50", "55", "65", "75"} {
		tx.MustExec(`INSERT INTO filter_options(filter_definition_id,option_value,display_order) VALUES(2,?,?)`, d, i)
	}
	tx.MustExec(`INSERT INTO product_filters(product_id,filter_definition_id,filter_value) VALUES
	  (3,2,'32'),(4,1,'Samsung'),(4,2,'43'),(5,1,'LG'),(5,2,'55')`)

	tx.MustExec(`INSERT INTO sliders(image_url,title,order_index,is_active) VALUES
	  ('/static/slider1.png','Холодильник POZIS RK-102',1,1),
	  ('/static/slider2.png','Стиральная машина ИНДЕЗИТ',2,1),
	  ('/static/slider3.png','Телевизор BBK 32LEM-1046TS/2C',3,1)`)

	return tx.Commit()
}

// notFound maps sql.ErrNoRows to (nil, nil), everything else passes through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func affected(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
