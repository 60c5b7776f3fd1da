package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/pixelpursuit/pixelpursuit-api/config"
	"github.com/pixelpursuit/pixelpursuit-api/internal/application"
	"github.com/pixelpursuit/pixelpursuit-api/internal/container"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/helpers"
)

const demoPassword = "password123"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer c.Close()

	employer := ensureUser(ctx, c, "employer@pixelpursuit.dev", "Demo Studio", entity.RoleEmployer)
	seeker := ensureUser(ctx, c, "seeker@pixelpursuit.dev", "Demo Seeker", entity.RoleJobSeeker)
	fmt.Printf("seeded users: employer id=%d seeker id=%d password=%s\n", employer.ID, seeker.ID, demoPassword)

	p := application.Principal{UserID: employer.ID, Email: employer.Email, Role: employer.Role}
	for _, in := range demoJobs() {
		j, err := c.JobService.CreateJob(ctx, p, in)
		if err != nil {
			log.Fatalf("failed to seed job %q: %v", in.Title, err)
		}
		fmt.Printf("seeded job: id=%d title=%s\n", j.ID, j.Title)
	}
}

func ensureUser(ctx context.Context, c *container.Container, email, name string, role entity.Role) *entity.User {
	u, err := c.AuthService.Register(ctx, application.RegisterInput{
		Email:    email,
		Password: demoPassword,
		Name:     name,
		Role:     string(role),
	})
	if errors.Is(err, application.ErrEmailTaken) {
		u, err = c.Users.GetByEmail(ctx, email)
	}
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	return u
}

func ptr[T any](v T) *T { return &v }

func demoJobs() []application.CreateJobInput {
	return []application.CreateJobInput{
		{
			Title:       "Senior Gameplay Programmer",
			Description: "Own combat systems for an unannounced action RPG.",
			Location:    ptr("Berlin"),
			SalaryMin:   ptr[int64](70000),
			SalaryMax:   ptr[int64](95000),
		},
		{
			Title:       "Technical Artist",
			Description: "Build shader and tooling pipelines with the art team.",
			Location:    ptr("Remote"),
			SalaryMin:   ptr[int64](55000),
		},
		{
			Title:       "QA Analyst",
			Description: "Plan and run test passes across console platforms.",
			Location:    ptr("Montreal"),
		},
	}
}
