package db

import (
	"fmt"
	"log"
	"strings"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"gorm.io/gorm"
)

type table struct {
	name  string
	model interface{}
}

// tables is in dependency order: referenced tables come first.
var tables = []table{
	{"User", &models.User{}},
	{"Group", &models.Group{}},
	{"Post", &models.Post{}},
	{"Comment", &models.Comment{}},
	{"Follow", &models.Follow{}},
	{"PasswordResetToken", &models.PasswordResetToken{}},
}

func Migrate(db *gorm.DB) error {
	log.Println("Starting database migrations...")
	for _, t := range tables {
		if err := db.AutoMigrate(t.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", t.name, err)
		}
		log.Printf("%s migration successful", t.name)
	}
	return nil
}

// ClearTables drops the named tables, or every table when names is empty.
// Dependent tables are dropped before the tables they reference.
func ClearTables(db *gorm.DB, names []string) error {
	selected := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if !knownTable(n) {
			return fmt.Errorf("unknown table: %s", n)
		}
		selected[strings.ToLower(n)] = true
	}

	for i := len(tables) - 1; i >= 0; i-- {
		t := tables[i]
		if len(selected) > 0 && !selected[strings.ToLower(t.name)] {
			continue
		}
		if err := db.Migrator().DropTable(t.model); err != nil {
			return fmt.Errorf("error dropping %s table: %w", t.name, err)
		}
		log.Printf("Table %s dropped", t.name)
	}
	return nil
}

func knownTable(name string) bool {
	for _, t := range tables {
		if strings.EqualFold(t.name, name) {
			return true
		}
	}
	return false
}
