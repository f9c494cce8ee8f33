package journal

const Schema = `
CREATE TABLE IF NOT EXISTS calculations (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	inputs TEXT NOT NULL,
	result TEXT NOT NULL,
	headline TEXT NOT NULL,
	found BOOLEAN NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_calculations_created_at ON calculations(created_at);
CREATE INDEX IF NOT EXISTS idx_calculations_kind ON calculations(kind);
`
