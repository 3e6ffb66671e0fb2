package db

import (
	"log"
	"time"

	"github.com/powerranking-app/powerranking/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// DemoMode is true when no DATABASE_URL was configured and the app is running
// against a throwaway in-memory database.
var DemoMode bool

const (
	DemoEmail    = "demo@powerranking.app"
	DemoPassword = "demo-password"
	DemoUsername = "demo"
)

// ConnectDatabase opens Postgres when a DSN is configured. With an empty DSN
// the app degrades to demo mode instead of refusing to start: an in-memory
// SQLite database seeded with a demo account.
func ConnectDatabase(dsn string) error {
	var err error

	if dsn == "" {
		log.Println("DATABASE_URL not set, running in demo mode with an in-memory database")
		DemoMode = true
		DB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{TranslateError: true})
		return err
	}

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	return err
}

func MigrateDatabase() error {
	entities := []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Group{},
		&models.GroupMembership{},
		&models.GroupInvite{},
		&models.TrainingSchedule{},
		&models.TrainingExercise{},
	}

	migrator := DB.Migrator()

	for _, entity := range entities {
		if !migrator.HasTable(entity) {
			if err := DB.AutoMigrate(entity); err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedDemoUser inserts the demo account demo mode logs in with. Safe to call
// more than once.
func SeedDemoUser() error {
	var existing models.User

	err := DB.Where("email = ?", DemoEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Email:        DemoEmail,
		PasswordHash: string(hash),
	}

	if err := DB.Create(&user).Error; err != nil {
		return err
	}

	profile := models.Profile{
		UserID:   user.ID,
		Username: DemoUsername,
	}

	if err := DB.Create(&profile).Error; err != nil {
		return err
	}

	log.Printf("Seeded demo user %s (created at %s)", DemoEmail, time.Now().Format(time.RFC3339))
	return nil
}
