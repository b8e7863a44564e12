package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"strings"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/blog"
	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/users"
	"portfolio-backend/internal/validation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedProject struct {
	Title        string
	Description  string
	Image        string
	Technologies []string
	ProjectURL   string
	GithubURL    string
	Featured     bool
	Order        int
}

var sampleProjects = []seedProject{
	{
		Title:        "E-Commerce Platform",
		Description:  "A full-stack e-commerce platform with payment integration, user authentication, and admin dashboard.",
		Image:        "🛒",
		Technologies: []string{"React", "Node.js", "MongoDB", "Stripe"},
		ProjectURL:   "https://example.com",
		GithubURL:    "https://github.com/example",
		Featured:     true,
		Order:        1,
	},
	{
		Title:        "Task Management App",
		Description:  "A collaborative task management application with real-time updates and team features.",
		Image:        "✅",
		Technologies: []string{"Vue.js", "Firebase", "Tailwind CSS"},
		ProjectURL:   "https://example.com",
		GithubURL:    "https://github.com/example",
		Featured:     true,
		Order:        2,
	},
	{
		Title:        "Weather Dashboard",
		Description:  "A beautiful weather dashboard with forecasts, maps, and location-based alerts.",
		Image:        "🌤️",
		Technologies: []string{"HTML/CSS", "JavaScript", "Weather API"},
		ProjectURL:   "https://example.com",
		GithubURL:    "https://github.com/example",
		Featured:     false,
		Order:        3,
	},
}

const welcomeContent = `# Welcome to My Blog

This is my first blog post! I'm excited to share my journey in web development and technology.

## What to Expect

In this blog, I'll be sharing:

- **Tutorials** on web development
- **Project showcases** and case studies
- **Tech insights** and industry trends
- **Personal experiences** and lessons learned

## Stay Connected

Make sure to check back regularly for new content. Feel free to reach out if you have any questions or suggestions!

Happy coding! 🚀`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if err := seedAdminUser(ctx, cols, cfg.SeedAdminUsername, email, cfg.SeedAdminPassword, cfg.Timezone); err != nil {
		log.Fatalf("seed admin error: %v", err)
	}
	log.Printf("seed admin: %s ready", email)

	for _, p := range sampleProjects {
		if err := seedProjectDoc(ctx, cols, p, cfg.Timezone); err != nil {
			log.Fatalf("seed error for %s: %v", p.Title, err)
		}
	}
	log.Printf("seed projects: %d ready", len(sampleProjects))

	usersRepo := users.NewRepository(cols.Users)
	adminUser, err := usersRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Fatalf("seed admin lookup: %v", err)
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	blogService := blog.NewService(blog.NewRepository(cols.BlogPosts), usersRepo, cache.NewNoop(), cfg.CacheTTL(), validation.New(), quiet, cfg.Timezone)
	_, err = blogService.Create(ctx, adminUser.Principal(), blog.CreateRequest{
		Title:     "Welcome to My Blog",
		Content:   welcomeContent,
		Excerpt:   "Welcome to my blog! Here I share my journey in web development and technology.",
		Category:  "General",
		Tags:      []string{"welcome", "introduction"},
		Published: true,
	})
	switch {
	case errors.Is(err, blog.ErrDuplicateSlug):
		log.Println("seed blog: welcome post already present")
	case err != nil:
		log.Fatalf("seed blog error: %v", err)
	default:
		log.Println("seed blog: welcome post created")
	}

	log.Println("seed completed")
}

// seedAdminUser upserts the admin by email and resets its password.
func seedAdminUser(ctx context.Context, cols *db.Collections, username, email, password string, loc *time.Location) error {
	if email == "" {
		return errors.New("admin email is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	now := time.Now().In(loc)
	update := bson.M{
		"$set": bson.M{
			"username":     username,
			"passwordHash": hash,
			"role":         auth.RoleAdmin,
		},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"createdAt": now,
		},
	}
	_, err = cols.Users.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
	return err
}

func seedProjectDoc(ctx context.Context, cols *db.Collections, p seedProject, loc *time.Location) error {
	now := time.Now().In(loc)
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID().Hex(),
			"description":  p.Description,
			"image":        p.Image,
			"technologies": p.Technologies,
			"projectUrl":   p.ProjectURL,
			"githubUrl":    p.GithubURL,
			"featured":     p.Featured,
			"order":        p.Order,
			"createdAt":    now,
			"updatedAt":    now,
		},
	}
	_, err := cols.Projects.UpdateOne(ctx, bson.M{"title": p.Title}, update, options.Update().SetUpsert(true))
	return err
}
