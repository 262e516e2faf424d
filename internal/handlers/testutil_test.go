package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"yatube/internal/handlers"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/router"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubHTMLRender 用模板名当响应体，测试只断言状态码、跳转和落库结果，
// 不依赖真实模板文件
type stubHTMLRender struct{}

func (stubHTMLRender) Instance(name string, data interface{}) render.Render {
	return render.Data{
		ContentType: "text/html; charset=utf-8",
		Data:        []byte(name),
	}
}

type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	follows  repository.FollowRepository
	cache    *utils.PageCache
	mediaDir string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	followService := services.NewFollowService(userRepo, followRepo)
	mediaDir := t.TempDir()
	imageService := services.NewImageService(mediaDir)

	pageCache, err := utils.NewPageCache(100)
	if err != nil {
		t.Fatalf("failed creating page cache: %v", err)
	}

	r := gin.New()
	r.HTMLRender = stubHTMLRender{}
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("yatube_session", store))
	r.Use(middleware.LoadUser(userRepo))

	router.RegisterRoutes(r,
		handlers.NewAuthHandler(userRepo),
		handlers.NewPostHandler(postRepo, groupRepo, commentRepo, followService, imageService, pageCache),
		handlers.NewProfileHandler(userRepo, postRepo, commentRepo, followRepo, followService),
		handlers.NewAboutHandler(),
	)

	return &testEnv{
		router:   r,
		db:       db,
		users:    userRepo,
		posts:    postRepo,
		comments: commentRepo,
		follows:  followRepo,
		cache:    pageCache,
		mediaDir: mediaDir,
	}
}

const testPassword = "password123"

var (
	hashOnce     sync.Once
	passwordHash string
)

// createTestUser 直接落库建用户，密码统一、哈希只算一次
func createTestUser(t *testing.T, env *testEnv, username string) *models.User {
	t.Helper()

	hashOnce.Do(func() {
		hash, err := utils.HashPassword(testPassword)
		if err != nil {
			t.Fatalf("failed hashing test password: %v", err)
		}
		passwordHash = hash
	})

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: passwordHash,
	}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user %s: %v", username, err)
	}
	return user
}

func createTestPost(t *testing.T, env *testEnv, author *models.User, text string) *models.Post {
	t.Helper()

	post := &models.Post{Text: text, AuthorID: author.ID}
	if err := env.db.Create(post).Error; err != nil {
		t.Fatalf("failed creating post: %v", err)
	}
	return post
}

// login 走真实的登录接口拿会话 cookie
func login(t *testing.T, env *testEnv, username string) []*http.Cookie {
	t.Helper()

	w := doRequest(env, "POST", "/auth/login/", url.Values{
		"username": {username},
		"password": {testPassword},
	}, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("login for %s failed with status %d", username, w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login response carried no session cookie")
	}
	return cookies
}

func doRequest(env *testEnv, method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Location = %q, want %q", got, location)
	}
}
