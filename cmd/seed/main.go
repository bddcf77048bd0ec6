package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"devcamp/internal/auth"
	"devcamp/internal/config"
	"devcamp/internal/db"
	"devcamp/internal/model"
	"devcamp/internal/repository"
)

// SeedUserData is the fixture shape for users.
type SeedUserData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SeedBootcampData is the fixture shape for bootcamps.
type SeedBootcampData struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Website     string   `json:"website"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Address     string   `json:"address"`
	Careers     []string `json:"careers"`
	Housing     bool     `json:"housing"`
	OwnerEmail  string   `json:"owner_email"`

	Courses []SeedCourseData `json:"courses"`
}

// SeedCourseData is the fixture shape for courses nested under a bootcamp.
type SeedCourseData struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Weeks        int    `json:"weeks"`
	Tuition      string `json:"tuition"`
	MinimumSkill string `json:"minimum_skill"`
}

func main() {
	dataDir := flag.String("data", "_data", "directory containing seed fixtures")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Bootcamp{},
		&model.Course{},
		&model.Review{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	bootcampRepo := repository.NewBootcampRepository(gormDB)
	courseRepo := repository.NewCourseRepository(gormDB)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	users, err := seedUsers(ctx, userRepo, hasher, filepath.Join(*dataDir, "users.json"))
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Seeded %d users", len(users))

	bootcamps, courses, err := seedBootcamps(ctx, bootcampRepo, courseRepo, users, filepath.Join(*dataDir, "bootcamps.json"))
	if err != nil {
		log.Fatalf("Failed to seed bootcamps: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Bootcamps created: %d", bootcamps)
	log.Printf("  - Courses created: %d", courses)
}

func seedUsers(ctx context.Context, repo repository.UserRepository, hasher *auth.PasswordHasher, path string) (map[string]*model.User, error) {
	var fixtures []SeedUserData
	if err := readFixture(path, &fixtures); err != nil {
		return nil, err
	}

	users := make(map[string]*model.User, len(fixtures))
	for _, item := range fixtures {
		existing, err := repo.FindByEmail(ctx, item.Email)
		if err == nil {
			users[item.Email] = existing
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check user %s: %w", item.Email, err)
		}

		role := model.Role(item.Role)
		if !role.Valid() {
			role = model.RoleUser
		}
		passwordHash, err := hasher.Hash(item.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", item.Email, err)
		}

		user := &model.User{
			Name:         item.Name,
			Email:        item.Email,
			PasswordHash: passwordHash,
			Role:         role,
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user %s: %w", item.Email, err)
		}
		users[item.Email] = user
	}
	return users, nil
}

func seedBootcamps(
	ctx context.Context,
	bootcampRepo repository.BootcampRepository,
	courseRepo repository.CourseRepository,
	users map[string]*model.User,
	path string,
) (bootcampCount, courseCount int, err error) {
	var fixtures []SeedBootcampData
	if err := readFixture(path, &fixtures); err != nil {
		return 0, 0, err
	}

	for _, item := range fixtures {
		owner, ok := users[item.OwnerEmail]
		if !ok {
			log.Printf("Skipping bootcamp %q: unknown owner %s", item.Name, item.OwnerEmail)
			continue
		}

		bootcamp := &model.Bootcamp{
			Name:        item.Name,
			Slug:        slugify(item.Name),
			Description: item.Description,
			Website:     item.Website,
			Phone:       item.Phone,
			Email:       item.Email,
			Address:     item.Address,
			Careers:     item.Careers,
			Housing:     item.Housing,
			UserID:      owner.ID,
		}
		if err := bootcampRepo.Create(ctx, bootcamp); err != nil {
			return bootcampCount, courseCount, fmt.Errorf("create bootcamp %q: %w", item.Name, err)
		}
		bootcampCount++

		for _, courseItem := range item.Courses {
			tuition, err := decimal.NewFromString(courseItem.Tuition)
			if err != nil {
				log.Printf("Skipping course %q with invalid tuition: %s", courseItem.Title, courseItem.Tuition)
				continue
			}
			course := &model.Course{
				Title:        courseItem.Title,
				Description:  courseItem.Description,
				Weeks:        courseItem.Weeks,
				Tuition:      tuition,
				MinimumSkill: model.MinimumSkill(courseItem.MinimumSkill),
				BootcampID:   bootcamp.ID,
				UserID:       owner.ID,
			}
			if err := courseRepo.Create(ctx, course); err != nil {
				return bootcampCount, courseCount, fmt.Errorf("create course %q: %w", courseItem.Title, err)
			}
			courseCount++
		}
	}
	return bootcampCount, courseCount, nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return -1
	}, slug)
}

func readFixture(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return nil
}
