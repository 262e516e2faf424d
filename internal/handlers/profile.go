package handlers

import (
	"errors"
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/pagination"
	"yatube/internal/repository"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	follows  repository.FollowRepository
	follow   *services.FollowService
}

func NewProfileHandler(
	users repository.UserRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	follows repository.FollowRepository,
	follow *services.FollowService,
) *ProfileHandler {
	return &ProfileHandler{
		users:    users,
		posts:    posts,
		comments: comments,
		follows:  follows,
		follow:   follow,
	}
}

// Profile 作者主页 - 该作者的全部文章
func (h *ProfileHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()

	author, err := h.users.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		RenderError(c, http.StatusNotFound, "用户不存在")
		return
	}

	total, err := h.posts.CountByAuthor(ctx, author.ID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	pg := pagination.FromQuery(total, c.Query("page"))
	posts, err := h.posts.ListByAuthor(ctx, author.ID, pg.Offset(), pg.Limit())
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	postIDs := make([]uint, len(posts))
	for i, post := range posts {
		postIDs[i] = post.ID
	}
	if counts, err := h.comments.CountByPosts(ctx, postIDs); err == nil {
		for i := range posts {
			posts[i].CommentCount = counts[posts[i].ID]
		}
	}

	viewer := middleware.CurrentUser(c)
	following, _ := h.follow.IsFollowing(ctx, viewer, author.ID)
	followerCount, _ := h.follows.CountFollowers(ctx, author.ID)
	followingCount, _ := h.follows.CountFollowing(ctx, author.ID)

	Render(c, http.StatusOK, "posts/profile.html", gin.H{
		"Title":          author.Username + " 的主页",
		"Author":         author,
		"Posts":          posts,
		"Page":           pg,
		"PostCount":      total,
		"Following":      following,
		"FollowerCount":  followerCount,
		"FollowingCount": followingCount,
	})
}

// Follow 关注作者后跳回其主页
func (h *ProfileHandler) Follow(c *gin.Context) {
	user := middleware.CurrentUser(c)
	username := c.Param("username")

	if err := h.follow.Follow(c.Request.Context(), user, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "用户不存在")
			return
		}
		RenderError(c, http.StatusInternalServerError, "操作失败")
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}

// Unfollow 取消关注后跳回作者主页。
// 本就没关注时同样跳回——对用户而言取消关注是幂等的
func (h *ProfileHandler) Unfollow(c *gin.Context) {
	user := middleware.CurrentUser(c)
	username := c.Param("username")

	if err := h.follow.Unfollow(c.Request.Context(), user, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "用户不存在")
			return
		}
		if !errors.Is(err, services.ErrNotFollowing) {
			RenderError(c, http.StatusInternalServerError, "操作失败")
			return
		}
	}

	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}
