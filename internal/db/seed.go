package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/ksolovey/unimatch/internal/utils/gender"
)

// SeedTestData resets the database and populates it with demo users, profiles
// and likes.
//
// Behavior:
//  1. Clears existing data in `users`, `profiles`, `likes` and `complaints`.
//  2. Creates 20 users (10 male, 10 female) with complete active profiles.
//  3. Generates cross-gender likes with ~60% probability, forcing every 4th
//     pair to be mutual so the matches view has content.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"complaints", "likes", "profiles", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE likes AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE complaints AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'likes'")
		db.Exec("DELETE FROM sqlite_sequence WHERE name = 'complaints'")
	}

	log.Println("Cleared existing data")

	faculties := []string{
		"Computer Science", "Economics", "Civil Engineering",
		"Applied Mathematics", "Linguistics",
	}

	// --- Seed users and profiles (10 male, 10 female) ---
	for i := 1; i <= 20; i++ {
		g := gender.Male
		if i > 10 {
			g = gender.Female
		}

		user := User{
			ID:       int64(i),
			Username: fmt.Sprintf("student%d", i),
			FullName: fmt.Sprintf("Student %d", i),
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		profile := Profile{
			UserID:  int64(i),
			Name:    fmt.Sprintf("Student %d", i),
			Age:     18 + r.Intn(7),
			Gender:  g,
			Faculty: faculties[i%len(faculties)],
			Course:  1 + r.Intn(5),
			Bio:     fmt.Sprintf("Demo bio for student %d, likes coffee and long walks.", i),
			PhotoID: fmt.Sprintf("demo-photo-%d", i),
			Active:  true,
		}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
	}
	log.Println("Seeded 20 users with profiles.")

	// --- Seed likes across genders ---
	counter := 0
	for from := 1; from <= 10; from++ {
		for j := 0; j < 4; j++ {
			to := int64(11 + r.Intn(10))

			if r.Intn(100) >= 60 && counter%4 != 0 {
				counter++
				continue
			}

			if err := db.Create(&Like{FromUserID: int64(from), ToUserID: to}).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}

			// guarantee a mutual pair every 4th like
			if counter%4 == 0 {
				if err := db.Create(&Like{FromUserID: to, ToUserID: int64(from)}).Error; err != nil {
					return fmt.Errorf("failed to seed reciprocal like: %w", err)
				}
			}

			counter++
		}
	}

	return nil
}
