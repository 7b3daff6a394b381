// Prints the DDL AutoMigrate generates for the pantrio models against
// an in-memory sqlite, tables then indexes. The composite unique
// indexes are the part worth eyeballing.
package main

import (
	"fmt"
	"log"

	"github.com/pantrio/pantrio/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Household{},
		&models.HouseholdMember{},
		&models.Location{},
		&models.Product{},
	); err != nil {
		log.Fatal(err)
	}

	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table'").Scan(&tables)
	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table)
		var ddl string
		db.Raw("SELECT sql FROM sqlite_master WHERE name = ?", table).Scan(&ddl)
		fmt.Println(ddl)
	}

	var indexes []string
	db.Raw("SELECT sql FROM sqlite_master WHERE type='index' AND sql IS NOT NULL").Scan(&indexes)
	fmt.Printf("\n=== Indexes ===\n")
	for _, ddl := range indexes {
		fmt.Println(ddl)
	}
}
