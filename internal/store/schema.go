package store

// schema is the word index DDL. All statements are idempotent so Open
// can run it unconditionally.
//
// words has no surrogate key: (buffer_id, word) is the identity, and the
// UNIQUE constraint doubles as the upsert target. The cascading foreign
// key makes CloseBuffer a single DELETE.
const schema = `
CREATE TABLE IF NOT EXISTS buffers (
	id       INTEGER PRIMARY KEY,
	filetype TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS words (
	buffer_id INTEGER NOT NULL
		REFERENCES buffers(id)
		ON UPDATE CASCADE
		ON DELETE CASCADE,
	word   TEXT NOT NULL,
	lword  TEXT NOT NULL,
	kind   TEXT NOT NULL,
	pword  TEXT,
	pkind  TEXT,
	gpword TEXT,
	gpkind TEXT,
	UNIQUE (buffer_id, word)
);

CREATE INDEX IF NOT EXISTS idx_words_word  ON words(word);
CREATE INDEX IF NOT EXISTS idx_words_lword ON words(lword);

CREATE VIEW IF NOT EXISTS words_view AS
SELECT
	w.buffer_id,
	w.word,
	w.lword,
	w.kind,
	w.pword,
	w.pkind,
	w.gpword,
	w.gpkind,
	b.filetype
FROM words w
JOIN buffers b ON b.id = w.buffer_id;
`
