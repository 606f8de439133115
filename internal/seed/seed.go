// Package seed provides database seeding utilities for development and
// testing. All generated accounts share one password so any of them can
// be used to log in.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password12345Q"

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	NumComments int
	// FollowsPerUser is the average number of authors each user follows.
	FollowsPerUser int
}

// Seeder populates the database with generated content.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	source := time.Now().UnixNano()
	gofakeit.Seed(source)
	return &Seeder{db: db, rand: rand.New(rand.NewSource(source))}
}

// ClearAll removes all seedable content. Children go first so the
// foreign keys never complain.
func (s *Seeder) ClearAll() error {
	for _, table := range []string{"follows", "comments", "posts", "groups", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// Run seeds users, groups, posts, comments and follow edges.
func (s *Seeder) Run(opts Options) error {
	if err := Groups(s.db); err != nil {
		return fmt.Errorf("seed groups: %w", err)
	}

	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	posts, err := s.SeedPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}

	if err := s.SeedComments(users, posts, opts.NumComments); err != nil {
		return fmt.Errorf("seed comments: %w", err)
	}

	if err := s.SeedFollows(users, opts.FollowsPerUser); err != nil {
		return fmt.Errorf("seed follows: %w", err)
	}

	log.Printf("seeded %d users, %d posts, %d comments", len(users), len(posts), opts.NumComments)
	return nil
}

// SeedUsers creates n users with generated names and bios.
// The first user is an admin.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	// One hash for everyone; hashing is the slow part.
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		username := s.username(i)
		user := &models.User{
			Username: username,
			Email:    username + "@" + gofakeit.DomainName(),
			Password: string(hashed),
			Bio:      gofakeit.Sentence(8),
			IsAdmin:  i == 0,
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedPosts creates n posts spread over the last 90 days. Roughly half
// land in a random group and a few carry an image.
func (s *Seeder) SeedPosts(users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 || n == 0 {
		return nil, nil
	}

	var groups []models.Group
	if err := s.db.Find(&groups).Error; err != nil {
		return nil, err
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		post := &models.Post{
			Text:     gofakeit.Paragraph(1, 3, 12, "\n"),
			AuthorID: author.ID,
			PubDate:  s.pastTime(90),
		}
		if len(groups) > 0 && s.rand.Intn(2) == 0 {
			post.GroupID = &groups[s.rand.Intn(len(groups))].ID
		}
		if s.rand.Intn(5) == 0 {
			post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
		}
		if err := s.db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// SeedComments scatters n comments from random users over random posts.
func (s *Seeder) SeedComments(users []*models.User, posts []*models.Post, n int) error {
	if len(users) == 0 || len(posts) == 0 {
		return nil
	}

	for i := 0; i < n; i++ {
		post := posts[s.rand.Intn(len(posts))]
		comment := &models.Comment{
			PostID:   post.ID,
			AuthorID: users[s.rand.Intn(len(users))].ID,
			Text:     gofakeit.Sentence(12),
			Created:  post.PubDate.Add(time.Duration(s.rand.Intn(72)) * time.Hour),
		}
		if err := s.db.Create(comment).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedFollows gives each user around perUser followed authors. Self-edges
// and duplicates are skipped, never created.
func (s *Seeder) SeedFollows(users []*models.User, perUser int) error {
	if len(users) < 2 || perUser <= 0 {
		return nil
	}

	for _, user := range users {
		seen := map[uint]bool{user.ID: true}
		for i := 0; i < perUser; i++ {
			author := users[s.rand.Intn(len(users))]
			if seen[author.ID] {
				continue
			}
			seen[author.ID] = true
			follow := &models.Follow{UserID: user.ID, AuthorID: author.ID}
			if err := s.db.Create(follow).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// username derives a readable unique handle like "amused-heron-17".
func (s *Seeder) username(i int) string {
	word := strings.ToLower(gofakeit.AdjectiveDescriptive())
	animal := strings.ToLower(gofakeit.Animal())
	return fmt.Sprintf("%s-%s-%d", word, animal, i+1)
}

// pastTime returns a random moment within the last maxDays days.
func (s *Seeder) pastTime(maxDays int) time.Time {
	back := time.Duration(s.rand.Intn(maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}
