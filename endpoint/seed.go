package endpoint

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ariebrainware/psych-practice/content"
	"github.com/ariebrainware/psych-practice/model"
	"github.com/ariebrainware/psych-practice/util"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedFile is the YAML document loaded by Seed.
type SeedFile struct {
	Users     []SeedUser     `yaml:"users"`
	Services  []SeedService  `yaml:"services"`
	BlogPosts []SeedBlogPost `yaml:"blogPosts"`
}

type SeedUser struct {
	FirstName string     `yaml:"firstName"`
	LastName  string     `yaml:"lastName"`
	Email     string     `yaml:"email"`
	Password  string     `yaml:"password"`
	Role      model.Role `yaml:"role"`
}

type SeedService struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Duration    int      `yaml:"duration"`
	Price       *float64 `yaml:"price"`
	Features    []string `yaml:"features"`
}

type SeedBlogPost struct {
	Title         string           `yaml:"title"`
	Excerpt       string           `yaml:"excerpt"`
	Content       string           `yaml:"content"`
	Category      string           `yaml:"category"`
	Tags          []string         `yaml:"tags"`
	FeaturedImage string           `yaml:"featuredImage"`
	Status        model.PostStatus `yaml:"status"`
}

// SeedResult counts inserted records.
type SeedResult struct {
	Users, Services, BlogPosts int
}

// LoadSeedFile reads and decodes a seed document.
func LoadSeedFile(path string) (*SeedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f SeedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return &f, nil
}

// Seed inserts the records of f that are not present yet. Users match on
// email, services on name and posts on title, so seeding twice is a no-op.
// Passwords may be plain text (hashed here) or an existing argon2id/bcrypt hash.
func Seed(db *gorm.DB, f *SeedFile) (SeedResult, error) {
	var res SeedResult
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, su := range f.Users {
			created, err := seedUser(tx, su)
			if err != nil {
				return err
			}
			if created {
				res.Users++
			}
		}
		for _, ss := range f.Services {
			created, err := firstOrCreate(tx, &model.Service{}, "name = ?", ss.Name, func() interface{} {
				return &model.Service{
					Name:        ss.Name,
					Description: ss.Description,
					Duration:    ss.Duration,
					Price:       ss.Price,
					IsActive:    true,
					Features:    model.StringList(ss.Features),
				}
			})
			if err != nil {
				return fmt.Errorf("seed service %q: %w", ss.Name, err)
			}
			if created {
				res.Services++
			}
		}
		for _, sp := range f.BlogPosts {
			created, err := firstOrCreate(tx, &model.BlogPost{}, "title = ?", sp.Title, func() interface{} {
				return seedPost(sp)
			})
			if err != nil {
				return fmt.Errorf("seed blog post %q: %w", sp.Title, err)
			}
			if created {
				res.BlogPosts++
			}
		}
		return nil
	})
	return res, err
}

func seedUser(tx *gorm.DB, su SeedUser) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(su.Email))
	role := su.Role
	if role == "" {
		role = model.RolePatient
	}
	if !role.Valid() {
		return false, fmt.Errorf("seed user %s: unknown role %q", email, role)
	}
	return firstOrCreate(tx, &model.User{}, "email = ?", email, func() interface{} {
		return &model.User{
			FirstName: su.FirstName,
			LastName:  su.LastName,
			Email:     email,
			Password:  su.Password,
			Role:      role,
			IsActive:  true,
		}
	}, func(v interface{}) error {
		u := v.(*model.User)
		if u.Password == "" || strings.HasPrefix(u.Password, "argon2id$") || strings.HasPrefix(u.Password, "$2") {
			return nil
		}
		hashed, err := util.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
		return nil
	})
}

func seedPost(sp SeedBlogPost) *model.BlogPost {
	status := sp.Status
	if status == "" {
		status = model.PostPublished
	}
	post := &model.BlogPost{
		Title:         sp.Title,
		Excerpt:       sp.Excerpt,
		Content:       sp.Content,
		Category:      sp.Category,
		ReadTime:      content.ReadTime(sp.Content),
		Tags:          model.StringList(sp.Tags),
		FeaturedImage: sp.FeaturedImage,
		Status:        status,
	}
	if status == model.PostPublished {
		now := time.Now()
		post.PublishedAt = &now
	}
	return post
}

// firstOrCreate inserts build() unless a row matching where/arg exists.
// prepare hooks run on the new record before insert.
func firstOrCreate(tx *gorm.DB, probe interface{}, where string, arg interface{}, build func() interface{}, prepare ...func(interface{}) error) (bool, error) {
	err := tx.Where(where, arg).First(probe).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	rec := build()
	for _, p := range prepare {
		if err := p(rec); err != nil {
			return false, err
		}
	}
	if err := tx.Create(rec).Error; err != nil {
		return false, err
	}
	return true, nil
}
