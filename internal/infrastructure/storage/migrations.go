package storage

const migrationsSQLite = `
CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL DEFAULT (unixepoch() * 1000)
);

CREATE TABLE IF NOT EXISTS blogs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category_id INTEGER NOT NULL REFERENCES categories(id),
	title TEXT NOT NULL,
	slug TEXT NOT NULL,
	content TEXT NOT NULL,
	excerpt TEXT NOT NULL DEFAULT '',
	meta_title TEXT NOT NULL DEFAULT '',
	meta_description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'published',
	published_at INTEGER NOT NULL,
	created_at INTEGER NOT NULL DEFAULT (unixepoch() * 1000)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_blogs_slug ON blogs(slug);

CREATE TABLE IF NOT EXISTS schedules (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	category_id INTEGER NOT NULL REFERENCES categories(id),
	cadence TEXT NOT NULL,
	scheduled_at INTEGER,
	status TEXT NOT NULL DEFAULT 'pending',
	created_blog_id INTEGER REFERENCES blogs(id),
	error_message TEXT,
	created_at INTEGER NOT NULL DEFAULT (unixepoch() * 1000)
);
CREATE INDEX IF NOT EXISTS idx_schedules_pending ON schedules(status, cadence, created_at);

INSERT INTO categories (name, slug) VALUES
	('Genel', 'genel'),
	('Tasarım', 'tasarim'),
	('Mimari', 'mimari')
ON CONFLICT(slug) DO NOTHING;
`

const migrationsPostgres = `
CREATE TABLE IF NOT EXISTS categories (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	created_at BIGINT NOT NULL DEFAULT (floor(extract(epoch FROM now()) * 1000))::bigint
);

CREATE TABLE IF NOT EXISTS blogs (
	id BIGSERIAL PRIMARY KEY,
	category_id BIGINT NOT NULL REFERENCES categories(id),
	title TEXT NOT NULL,
	slug TEXT NOT NULL,
	content TEXT NOT NULL,
	excerpt TEXT NOT NULL DEFAULT '',
	meta_title TEXT NOT NULL DEFAULT '',
	meta_description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'published',
	published_at BIGINT NOT NULL,
	created_at BIGINT NOT NULL DEFAULT (floor(extract(epoch FROM now()) * 1000))::bigint
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_blogs_slug ON blogs(slug);

CREATE TABLE IF NOT EXISTS schedules (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	category_id BIGINT NOT NULL REFERENCES categories(id),
	cadence TEXT NOT NULL,
	scheduled_at BIGINT,
	status TEXT NOT NULL DEFAULT 'pending',
	created_blog_id BIGINT REFERENCES blogs(id),
	error_message TEXT,
	created_at BIGINT NOT NULL DEFAULT (floor(extract(epoch FROM now()) * 1000))::bigint
);
CREATE INDEX IF NOT EXISTS idx_schedules_pending ON schedules(status, cadence, created_at);

INSERT INTO categories (name, slug) VALUES
	('Genel', 'genel'),
	('Tasarım', 'tasarim'),
	('Mimari', 'mimari')
ON CONFLICT (slug) DO NOTHING;
`
