// Schema DDL for the candidate pool.
package seed

// createUsers creates the seed table. One row is one candidate identity;
// the note_* columns carry the note-extended variant so a single table
// serves both the user suite and the notes suite. "index" is quoted because
// it is a keyword in SQLite.
const createUsers = `CREATE TABLE IF NOT EXISTS users (
    "index" INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    company TEXT NOT NULL,
    phone TEXT NOT NULL,
    token TEXT,
    note_id TEXT,
    note_title TEXT NOT NULL DEFAULT '',
    note_description TEXT NOT NULL DEFAULT '',
    note_completed TEXT,
    note_created_at TEXT,
    note_updated_at TEXT,
    note_category TEXT NOT NULL DEFAULT ''
);`

const dropUsers = `DROP TABLE IF EXISTS users;`
