package db

// baselineSchema is the version 1 layout: accounts and their items, with no
// creation timestamps and no folders.
const baselineSchema = `
CREATE TABLE IF NOT EXISTS accounts (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    business_name TEXT,
    sms_enabled   INTEGER NOT NULL DEFAULT 0,
    phone_number  TEXT
);

CREATE TABLE IF NOT EXISTS items (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    quantity    INTEGER NOT NULL DEFAULT 0,
    description TEXT,
    barcode     TEXT,
    image_path  TEXT,
    account_id  INTEGER NOT NULL REFERENCES accounts(id) ON DELETE CASCADE
);
`

// addItemCreatedAt is applied with the backfill timestamp (unix millis)
// substituted for the default.
const addItemCreatedAt = `ALTER TABLE items ADD COLUMN created_at INTEGER NOT NULL DEFAULT %d`

const foldersTable = `
CREATE TABLE IF NOT EXISTS folders (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL,
    account_id INTEGER NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
    created_at INTEGER NOT NULL,
    UNIQUE (name, account_id)
)`

// itemsTableV3 is the final items layout. It is created under a temporary
// name and renamed over the old table, since SQLite cannot add a NOT NULL
// foreign key column in place.
const itemsTableV3 = `
CREATE TABLE items_v3 (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    quantity    INTEGER NOT NULL DEFAULT 0,
    description TEXT,
    barcode     TEXT,
    image_path  TEXT,
    account_id  INTEGER NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
    folder_id   INTEGER NOT NULL REFERENCES folders(id) ON DELETE CASCADE,
    created_at  INTEGER NOT NULL
)`

const copyItemsIntoV3 = `
INSERT INTO items_v3 (id, name, quantity, description, barcode, image_path, account_id, folder_id, created_at)
SELECT i.id, i.name, i.quantity, i.description, i.barcode, i.image_path, i.account_id,
       (SELECT f.id FROM folders f WHERE f.account_id = i.account_id AND f.name = ?),
       i.created_at
FROM items i`

const itemIndexes = `
CREATE INDEX IF NOT EXISTS idx_items_account ON items(account_id);
CREATE INDEX IF NOT EXISTS idx_items_folder ON items(folder_id);
`
