package main

import (
	"fmt"
	"html/template"
	"log"
	"path/filepath"
	"time"

	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/handlers"
	"yatube/internal/middleware"
	"yatube/internal/repository"
	"yatube/internal/router"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg := config.Load()

	database, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(database)
	groupRepo := repository.NewGroupRepository(database)
	postRepo := repository.NewPostRepository(database)
	commentRepo := repository.NewCommentRepository(database)
	followRepo := repository.NewFollowRepository(database)

	// Services
	followService := services.NewFollowService(userRepo, followRepo)
	imageService := services.NewImageService(cfg.MediaDir)

	pageCache, err := utils.NewPageCache(500)
	if err != nil {
		log.Fatalf("Failed to create page cache: %v", err)
	}

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("yatube_session", store))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = loadTemplates("./web/templates")

	// Static Assets + 上传的图片
	r.Static("/static", "./web/static")
	r.Static("/media", cfg.MediaDir)

	// Middleware
	r.Use(middleware.LoadUser(userRepo))

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo)
	postHandler := handlers.NewPostHandler(postRepo, groupRepo, commentRepo, followService, imageService, pageCache)
	profileHandler := handlers.NewProfileHandler(userRepo, postRepo, commentRepo, followRepo, followService)
	aboutHandler := handlers.NewAboutHandler()

	router.RegisterRoutes(r, authHandler, postHandler, profileHandler, aboutHandler)

	log.Printf("Yatube server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		panic(err)
	}

	// Helper to assemble files
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, view)
		return files
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"timeAgo": func(t interface{}) string {
			var timeVal time.Time
			switch v := t.(type) {
			case time.Time:
				timeVal = v
			default:
				return ""
			}

			duration := time.Since(timeVal)
			seconds := int(duration.Seconds())

			if seconds < 60 {
				return fmt.Sprintf("%d秒前", seconds)
			} else if seconds < 3600 {
				return fmt.Sprintf("%d分钟前", seconds/60)
			} else if seconds < 86400 {
				return fmt.Sprintf("%d小时前", seconds/3600)
			} else if seconds < 2592000 {
				return fmt.Sprintf("%d天前", seconds/86400)
			} else if seconds < 31536000 {
				return fmt.Sprintf("%d个月前", seconds/2592000)
			}
			return fmt.Sprintf("%d年前", seconds/31536000)
		},
	}

	// Manual registration to ensure keys match handler expectation
	// Posts
	r.AddFromFilesFuncs("posts/index.html", funcMap, assemble(templatesDir+"/views/posts/index.html")...)
	r.AddFromFilesFuncs("posts/group_list.html", funcMap, assemble(templatesDir+"/views/posts/group_list.html")...)
	r.AddFromFilesFuncs("posts/profile.html", funcMap, assemble(templatesDir+"/views/posts/profile.html")...)
	r.AddFromFilesFuncs("posts/post_detail.html", funcMap, assemble(templatesDir+"/views/posts/post_detail.html")...)
	r.AddFromFilesFuncs("posts/create_post.html", funcMap, assemble(templatesDir+"/views/posts/create_post.html")...)
	r.AddFromFilesFuncs("posts/follow.html", funcMap, assemble(templatesDir+"/views/posts/follow.html")...)

	// Auth
	r.AddFromFilesFuncs("auth/login.html", funcMap, assemble(templatesDir+"/views/auth/login.html")...)
	r.AddFromFilesFuncs("auth/signup.html", funcMap, assemble(templatesDir+"/views/auth/signup.html")...)

	// About
	r.AddFromFilesFuncs("about/author.html", funcMap, assemble(templatesDir+"/views/about/author.html")...)
	r.AddFromFilesFuncs("about/tech.html", funcMap, assemble(templatesDir+"/views/about/tech.html")...)

	// Error
	r.AddFromFilesFuncs("error.html", funcMap, assemble(templatesDir+"/views/error.html")...)

	return r
}
