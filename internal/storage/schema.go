package storage

// postgresSchema - DDL хранилища Postgres, операторы идемпотентны
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS media (
		id UUID PRIMARY KEY,
		public_id TEXT NOT NULL,
		alt TEXT NOT NULL DEFAULT '',
		filename TEXT NOT NULL DEFAULT '',
		mime_type TEXT NOT NULL DEFAULT '',
		width INTEGER,
		height INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id UUID PRIMARY KEY,
		seq BIGSERIAL NOT NULL,
		slug TEXT NOT NULL,
		title TEXT NOT NULL,
		property_type TEXT NOT NULL CHECK (property_type IN ('house', 'apartment', 'condo', 'townhouse', 'villa', 'land', 'commercial')),
		listing_type TEXT NOT NULL CHECK (listing_type IN ('sale', 'rent')),
		price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		bedrooms INTEGER CHECK (bedrooms >= 0),
		bathrooms DOUBLE PRECISION CHECK (bathrooms >= 0),
		garages INTEGER CHECK (garages >= 0),
		area DOUBLE PRECISION CHECK (area >= 0),
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT '',
		zip_code TEXT NOT NULL DEFAULT '',
		description JSONB,
		features JSONB NOT NULL DEFAULT '[]',
		featured_image_id UUID REFERENCES media(id) ON DELETE SET NULL,
		status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'published')),
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		published_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_properties_published_slug ON properties(slug) WHERE status = 'published'`,
	`CREATE INDEX IF NOT EXISTS idx_properties_listing ON properties(status, created_at DESC, seq)`,
	`CREATE TABLE IF NOT EXISTS property_gallery (
		property_id UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		media_id UUID NOT NULL REFERENCES media(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		PRIMARY KEY (property_id, position)
	)`,
}

// sqliteSchema - та же схема для SQLite. seq задаёт порядок вставки.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS media (
		id TEXT PRIMARY KEY,
		public_id TEXT NOT NULL,
		alt TEXT NOT NULL DEFAULT '',
		filename TEXT NOT NULL DEFAULT '',
		mime_type TEXT NOT NULL DEFAULT '',
		width INTEGER,
		height INTEGER,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		slug TEXT NOT NULL,
		title TEXT NOT NULL,
		property_type TEXT NOT NULL,
		listing_type TEXT NOT NULL,
		price REAL NOT NULL CHECK (price >= 0),
		bedrooms INTEGER,
		bathrooms REAL,
		garages INTEGER,
		area REAL,
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT '',
		zip_code TEXT NOT NULL DEFAULT '',
		description TEXT,
		features TEXT NOT NULL DEFAULT '[]',
		featured_image_id TEXT REFERENCES media(id) ON DELETE SET NULL,
		status TEXT NOT NULL DEFAULT 'draft',
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		published_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_properties_published_slug ON properties(slug) WHERE status = 'published'`,
	`CREATE INDEX IF NOT EXISTS idx_properties_listing ON properties(status, created_at)`,
	`CREATE TABLE IF NOT EXISTS property_gallery (
		property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		media_id TEXT NOT NULL REFERENCES media(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		PRIMARY KEY (property_id, position)
	)`,
}
