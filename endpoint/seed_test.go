package endpoint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ariebrainware/psych-practice/model"
	"github.com/ariebrainware/psych-practice/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const seedYAML = `
users:
  - firstName: Ada
    lastName: Admin
    email: ADMIN@practice.test
    password: change-me
    role: admin
  - firstName: Bea
    lastName: Bcrypt
    email: bea@practice.test
    password: %BCRYPT%
    role: therapist
services:
  - name: Individual Therapy
    description: One to one sessions
    duration: 50
    price: 120
    features: [CBT, online]
blogPosts:
  - title: Welcome
    excerpt: Hello
    content: Welcome to the practice.
    category: news
    tags: [news]
  - title: Coming Soon
    content: Draft text
    category: news
    status: draft
`

func writeSeed(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("bea-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	body := []byte(strings.ReplaceAll(seedYAML, "%BCRYPT%", "'"+string(hash)+"'"))
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, body, 0o600))
	return path
}

func TestSeed_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	f, err := LoadSeedFile(writeSeed(t))
	require.NoError(t, err)

	res, err := Seed(db, f)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Users: 2, Services: 1, BlogPosts: 2}, res)

	res, err = Seed(db, f)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, res)

	var admin model.User
	require.NoError(t, db.Where("email = ?", "admin@practice.test").First(&admin).Error)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	ok, err := util.VerifyPassword("change-me", admin.Password)
	require.NoError(t, err)
	assert.True(t, ok, "plain seed passwords are hashed")

	var bea model.User
	require.NoError(t, db.Where("email = ?", "bea@practice.test").First(&bea).Error)
	ok, err = util.VerifyPassword("bea-pass", bea.Password)
	require.NoError(t, err)
	assert.True(t, ok, "existing bcrypt hashes are kept")

	var svc model.Service
	require.NoError(t, db.First(&svc).Error)
	assert.Equal(t, model.StringList{"CBT", "online"}, svc.Features)
	assert.True(t, svc.IsActive)

	var posts []model.BlogPost
	require.NoError(t, db.Order("title").Find(&posts).Error)
	require.Len(t, posts, 2)
	assert.Equal(t, model.PostDraft, posts[0].Status)
	assert.Nil(t, posts[0].PublishedAt)
	assert.Equal(t, model.PostPublished, posts[1].Status)
	assert.NotNil(t, posts[1].PublishedAt)
	assert.Equal(t, 1, posts[1].ReadTime)
}

func TestSeed_RejectsUnknownRole(t *testing.T) {
	db := newTestDB(t)
	_, err := Seed(db, &SeedFile{Users: []SeedUser{{Email: "x@practice.test", Role: "owner"}}})
	assert.ErrorContains(t, err, `unknown role "owner"`)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLoadSeedFile_Errors(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read seed file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("users: [oops"), 0o600))
	_, err = LoadSeedFile(bad)
	assert.ErrorContains(t, err, "decode seed file")
}
