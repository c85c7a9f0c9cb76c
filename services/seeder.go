package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edulens/insight/models"
	"github.com/edulens/insight/repository"
	"golang.org/x/crypto/bcrypt"
)

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	repo *repository.GORMRepository
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repo *repository.GORMRepository) *DatabaseSeeder {
	return &DatabaseSeeder{repo: repo}
}

// SeedDatabase seeds the database with demo teacher accounts (idempotent)
func (s *DatabaseSeeder) SeedDatabase() error {
	ctx := context.Background()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	teachers := []models.Teacher{
		{
			Email:    "demo.teacher@example.com",
			Password: string(hashedPassword),
			FullName: "Demo Teacher",
			StaffID:  "STAFF-0001",
			Role:     "teacher",
		},
		{
			Email:    "test.teacher@example.com",
			Password: string(hashedPassword),
			FullName: "Test Teacher",
			StaffID:  "STAFF-0002",
			Role:     "teacher",
		},
	}

	for _, teacher := range teachers {
		if err := s.seedTeacher(ctx, teacher); err != nil {
			slog.Error("Failed to seed teacher", "email", teacher.Email, "error", err)
		}
	}

	slog.Info("Database seeding completed")
	return nil
}

// seedTeacher seeds a single teacher (idempotent)
func (s *DatabaseSeeder) seedTeacher(ctx context.Context, teacher models.Teacher) error {
	existing, err := s.repo.GetTeacherByEmail(ctx, teacher.Email)
	if err != nil {
		return fmt.Errorf("error checking teacher %s: %w", teacher.Email, err)
	}

	if existing != nil {
		slog.Info("Teacher already exists, skipping", "email", teacher.Email)
		return nil
	}

	if err := s.repo.CreateTeacher(ctx, &teacher); err != nil {
		return fmt.Errorf("failed to create teacher %s: %w", teacher.Email, err)
	}

	slog.Info("Created teacher", "email", teacher.Email)
	return nil
}
