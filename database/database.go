package database

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB // Exported DB variable

// InitDB opens the sqlite file and creates tables
func InitDB(path string) error {
	var err error
	DB, err = sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	err = createTables()
	if err != nil {
		return err
	}

	return nil
}

func createTables() error {
	// Every logical collection lives in one table: collection name, slot
	// key assigned on append, raw JSON record.
	_, err := DB.Exec(`
        CREATE TABLE IF NOT EXISTS records (
            collection TEXT NOT NULL,
            key TEXT NOT NULL,
            value TEXT NOT NULL,
            PRIMARY KEY (collection, key)
        )
    `)
	if err != nil {
		log.Printf("Error creating 'records' table: %v", err)
		return err
	} else {
		log.Println("'records' table created or already exists")
	}

	_, err = DB.Exec(`
        CREATE INDEX IF NOT EXISTS idx_records_collection ON records (collection)
    `)
	if err != nil {
		log.Printf("Error creating records index: %v", err)
		return err
	} else {
		log.Println("records index created or already exists")
	}

	return nil
}
